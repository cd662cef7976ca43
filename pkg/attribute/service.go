// Package attribute manages attribute classes and the key/value attributes
// attached to people. Classes are created lazily on first use of a new key
// per environment; values are upserted on the unique (class, person) pair.
package attribute

import (
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/session"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

// Service is the attribute store component
type Service struct {
	store    storage.Interface
	cache    *cache.Cache
	sessions *session.Manager
}

// NewService creates a new attribute service
func NewService(store storage.Interface, c *cache.Cache, sessions *session.Manager) *Service {
	return &Service{
		store:    store,
		cache:    c,
		sessions: sessions,
	}
}

// EnsureClass returns the attribute class for (environmentID, key),
// creating a class of type code when none exists yet. Two concurrent
// first-uses of the same key are settled by the store's idempotent create.
func (s *Service) EnsureClass(environmentID, key string) (*model.AttributeClass, error) {
	cacheKey := cache.AttributeClassKey(environmentID, key)
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.(*model.AttributeClass), nil
	}

	class, err := s.store.AttributeClasses().FindByName(environmentID, key)
	if err == storage.ErrNotFound {
		class = &model.AttributeClass{
			EnvironmentID: environmentID,
			Name:          key,
			Type:          model.AttributeTypeCode,
		}
		if err := s.store.AttributeClasses().Create(class); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, class)

	return class, nil
}

// Upsert writes the attribute value for a persisted person and invalidates
// every cache entry tagged with the person's id.
func (s *Service) Upsert(environmentID, personID, key, value string) error {
	class, err := s.EnsureClass(environmentID, key)
	if err != nil {
		return err
	}

	attr := &model.Attribute{
		AttributeClassID: class.ID,
		PersonID:         personID,
		Value:            value,
	}
	if err := s.store.Attributes().Upsert(attr); err != nil {
		return err
	}

	s.cache.Invalidate(cache.PersonKey(personID))
	s.cache.Invalidate(cache.SurveysKey(environmentID, personID))

	return nil
}

// Set records an attribute for the person cited by personID, whether it is
// persisted or still transient. For a transient person the value is written
// into the session's embedded snapshot; the updated session is returned so
// callers can graft it into a freshly assembled state. For a persisted
// person the value is upserted directly and the returned session is nil.
func (s *Service) Set(environmentID, sessionID, personID, key, value string) (*model.Session, error) {
	if _, err := s.EnsureClass(environmentID, key); err != nil {
		return nil, err
	}

	_, err := s.store.Persons().FindByID(personID)
	if err == storage.ErrNotFound {
		return s.setTransient(environmentID, sessionID, key, value)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Upsert(environmentID, personID, key, value); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *Service) setTransient(environmentID, sessionID, key, value string) (*model.Session, error) {
	sess, err := s.sessions.GetCached(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.TransPerson == nil {
		log.Warnf("no transient session found for session id %s, attribute %s dropped", sessionID, key)
		return nil, nil
	}

	sess.TransPerson.Attributes[key] = value
	sess, err = s.sessions.UpdateTransientPerson(sessionID, sess.TransPerson)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.SurveysKey(environmentID, sess.TransPerson.ID))

	return sess, nil
}
