package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

type sessionStore struct {
	store map[string]model.Session
	sync.RWMutex
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		store: make(map[string]model.Session),
	}
}

func (s *sessionStore) FindByID(id string) (*model.Session, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return copySession(&m), nil
	}

	return nil, storage.ErrNotFound
}

func (s *sessionStore) FindByTransientPersonID(personID string) (*model.Session, error) {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.store {
		if m.TransPerson != nil && m.TransPerson.ID == personID {
			return copySession(&m), nil
		}
	}

	return nil, storage.ErrNotFound
}

func (s *sessionStore) Create(m *model.Session) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = time.Now().Round(time.Second).UTC()

	s.store[m.ID] = *copySession(m)

	return nil
}

func (s *sessionStore) Update(m *model.Session) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.store[m.ID]; !ok {
		return storage.ErrNotFound
	}

	m.UpdatedAt = time.Now().Round(time.Second).UTC()
	s.store[m.ID] = *copySession(m)

	return nil
}

func (s *sessionStore) hasSessionCreatedSince(personID string, since time.Time) bool {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.store {
		if m.PersonID != nil && *m.PersonID == personID && !m.CreatedAt.Before(since) {
			return true
		}
	}

	return false
}

// copySession deep-copies the embedded transient snapshot so callers never
// share a mutable attribute map with the store.
func copySession(m *model.Session) *model.Session {
	out := *m
	if m.TransPerson != nil {
		p := *m.TransPerson
		p.Attributes = make(map[string]string, len(m.TransPerson.Attributes))
		for k, v := range m.TransPerson.Attributes {
			p.Attributes[k] = v
		}
		out.TransPerson = &p
	}

	return &out
}
