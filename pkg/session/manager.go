// Package session manages the renewable lease binding a visitor to a
// person. Sessions are never deleted, only superseded: an expired session
// stays in storage and a new one is issued under the same person.
package session

import (
	"time"

	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

// Session lifetimes. A session lives for one hour; cached reads revalidate
// after thirty minutes; a session within ten minutes of expiry is extended
// in place instead of replaced.
const (
	Lifetime        = time.Hour
	CacheTTL        = 30 * time.Minute
	ExtendThreshold = 10 * time.Minute
)

// ErrMissingOwner is returned when a session is created with neither a
// persisted person id nor a transient person snapshot.
const ErrMissingOwner = managerError("unable to create session with an existing or transient person")

type managerError string

func (e managerError) Error() string {
	return string(e)
}

// Manager creates, extends and fetches sessions
type Manager struct {
	store storage.Interface
	cache *cache.Cache
}

// NewManager creates a new session manager
func NewManager(store storage.Interface, c *cache.Cache) *Manager {
	return &Manager{
		store: store,
		cache: c,
	}
}

// Create starts a new session owned by exactly one of personID and
// transPerson. The session expires one hour from now. The cache entry for
// the new session id is invalidated so cached readers observe the fresh row.
func (m *Manager) Create(personID *string, transPerson *model.Person) (*model.Session, error) {
	if (personID == nil) == (transPerson == nil) {
		return nil, ErrMissingOwner
	}

	sess := &model.Session{
		PersonID:    personID,
		TransPerson: transPerson,
		ExpiresAt:   time.Now().Add(Lifetime).Round(time.Second).UTC(),
	}
	if err := m.store.Sessions().Create(sess); err != nil {
		return nil, err
	}

	m.cache.Invalidate(cache.SessionKey(sess.ID))

	return sess, nil
}

// GetCached fetches a session through the cache. A session that does not
// exist yields (nil, nil).
func (m *Manager) GetCached(sessionID string) (*model.Session, error) {
	if v, ok := m.cache.Get(cache.SessionKey(sessionID)); ok {
		return v.(*model.Session), nil
	}

	sess, err := m.store.Sessions().FindByID(sessionID)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.cache.SetWithTTL(cache.SessionKey(sessionID), sess, CacheTTL)

	return sess, nil
}

// Extend resets the session's expiry to one hour from now
func (m *Manager) Extend(sessionID string) (*model.Session, error) {
	sess, err := m.store.Sessions().FindByID(sessionID)
	if err != nil {
		return nil, err
	}

	sess.ExpiresAt = time.Now().Add(Lifetime).Round(time.Second).UTC()
	if err := m.store.Sessions().Update(sess); err != nil {
		return nil, err
	}

	m.cache.Invalidate(cache.SessionKey(sessionID))

	return sess, nil
}

// UpdateTransientPerson overwrites the embedded transient snapshot. Used
// when attributes accumulate before identity is established.
func (m *Manager) UpdateTransientPerson(sessionID string, person *model.Person) (*model.Session, error) {
	sess, err := m.store.Sessions().FindByID(sessionID)
	if err != nil {
		return nil, err
	}

	sess.TransPerson = person
	if err := m.store.Sessions().Update(sess); err != nil {
		return nil, err
	}

	m.cache.Invalidate(cache.SessionKey(sessionID))

	return sess, nil
}

// FindByTransientPersonID recovers the session embedding the transient
// person with the given synthetic id, or (nil, nil) when none exists.
func (m *Manager) FindByTransientPersonID(personID string) (*model.Session, error) {
	sess, err := m.store.Sessions().FindByTransientPersonID(personID)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return sess, nil
}
