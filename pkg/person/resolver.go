// Package person resolves visitor identity. A person starts transient,
// embedded in a session, and is promoted to a persisted row once identity
// is confirmed; promotion replays the accumulated snapshot attributes.
package person

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/attribute"
	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/session"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

// Resolver decides whether a person is persisted, transient or missing,
// and promotes transient people to persisted identity.
type Resolver struct {
	store      storage.Interface
	cache      *cache.Cache
	attributes *attribute.Service
	sessions   *session.Manager
}

// NewResolver creates a new person resolver
func NewResolver(store storage.Interface, c *cache.Cache, attributes *attribute.Service, sessions *session.Manager) *Resolver {
	return &Resolver{
		store:      store,
		cache:      c,
		attributes: attributes,
		sessions:   sessions,
	}
}

// NewTransient mints a fresh transient person with a unique id and no
// attributes.
func (r *Resolver) NewTransient() *model.Person {
	return model.NewTransientPerson(uuid.NewString())
}

// GetCached fetches a persisted person through the cache. A person that
// does not exist yields (nil, nil).
func (r *Resolver) GetCached(personID string) (*model.Person, error) {
	if v, ok := r.cache.Get(cache.PersonKey(personID)); ok {
		return v.(*model.Person), nil
	}

	p, err := r.store.Persons().FindByID(personID)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.cache.Set(cache.PersonKey(personID), p)

	return p, nil
}

// Create persists a brand-new person in the environment
func (r *Resolver) Create(environmentID string) (*model.Person, error) {
	p := &model.Person{EnvironmentID: environmentID, Attributes: make(map[string]string)}
	if err := r.store.Persons().Create(p); err != nil {
		return nil, err
	}

	return p, nil
}

// CreateWithID persists a person under a caller-chosen id. Used during
// promotion, where the transient person's synthetic id becomes durable.
func (r *Resolver) CreateWithID(environmentID, id string) (*model.Person, error) {
	p := &model.Person{ID: id, EnvironmentID: environmentID, Attributes: make(map[string]string)}
	if err := r.store.Persons().Create(p); err != nil {
		return nil, err
	}

	r.cache.Invalidate(cache.PersonKey(id))

	return p, nil
}

// GetOrCreateByUserID resolves the persisted person carrying the given
// userId attribute, creating person and attribute when none exists.
func (r *Resolver) GetOrCreateByUserID(userID, environmentID string) (*model.Person, error) {
	p, err := r.store.Persons().FindByUserID(environmentID, userID)
	if err == nil {
		return p, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	p, err = r.Create(environmentID)
	if err != nil {
		return nil, err
	}

	if err := r.attributes.Upsert(environmentID, p.ID, "userId", userID); err != nil {
		return nil, err
	}
	p.Attributes["userId"] = userID

	return p, nil
}

// Promote persists the transient person known under personID and replays
// every snapshot attribute into the attribute store. The session's embedded
// snapshot is left in place, orphaned. Returns (nil, nil) when no session
// embeds a transient person with that id.
func (r *Resolver) Promote(environmentID, personID string) (*model.Person, error) {
	sess, err := r.sessions.FindByTransientPersonID(personID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.TransPerson == nil {
		return nil, nil
	}

	log.Infof("persisting person %s", personID)

	p, err := r.CreateWithID(environmentID, sess.TransPerson.ID)
	if err != nil {
		return nil, err
	}

	for key, value := range sess.TransPerson.Attributes {
		if err := r.attributes.Upsert(environmentID, p.ID, key, value); err != nil {
			return nil, err
		}
		p.Attributes[key] = value
	}

	return p, nil
}
