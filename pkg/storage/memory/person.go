package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

type personStore struct {
	store    map[string]model.Person
	sessions *sessionStore
	classes  *attributeClassStore
	attrs    *attributeStore
	sync.RWMutex
}

func newPersonStore(sessions *sessionStore, classes *attributeClassStore, attrs *attributeStore) *personStore {
	return &personStore{
		store:    make(map[string]model.Person),
		sessions: sessions,
		classes:  classes,
		attrs:    attrs,
	}
}

func (s *personStore) FindByID(id string) (*model.Person, error) {
	s.RLock()
	m, ok := s.store[id]
	s.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}

	return s.withAttributes(&m)
}

func (s *personStore) FindByUserID(environmentID, userID string) (*model.Person, error) {
	s.RLock()
	candidates := make([]model.Person, 0)
	for _, m := range s.store {
		if m.EnvironmentID == environmentID {
			candidates = append(candidates, m)
		}
	}
	s.RUnlock()

	for i := range candidates {
		m, err := s.withAttributes(&candidates[i])
		if err != nil {
			return nil, err
		}
		if m.Attributes["userId"] == userID {
			return m, nil
		}
	}

	return nil, storage.ErrNotFound
}

func (s *personStore) Create(m *model.Person) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = time.Now().Round(time.Second).UTC()
	if m.Attributes == nil {
		m.Attributes = make(map[string]string)
	}

	// never share the caller's mutable attribute map
	stored := *m
	stored.Attributes = make(map[string]string, len(m.Attributes))
	for k, v := range m.Attributes {
		stored.Attributes[k] = v
	}
	s.store[m.ID] = stored

	return nil
}

func (s *personStore) CountMonthlyActive(environmentID string, since time.Time) (int, error) {
	s.RLock()
	defer s.RUnlock()

	count := 0
	for id, m := range s.store {
		if m.EnvironmentID != environmentID {
			continue
		}
		if s.sessions.hasSessionCreatedSince(id, since) {
			count++
		}
	}

	return count, nil
}

// withAttributes resolves the persisted attribute rows into the person's
// key/value map, keyed by attribute class name.
func (s *personStore) withAttributes(m *model.Person) (*model.Person, error) {
	attrs, err := s.attrs.FindByPersonID(m.ID)
	if err != nil {
		return nil, err
	}

	m.Attributes = make(map[string]string, len(attrs))
	for _, a := range attrs {
		class, err := s.classes.findByID(a.AttributeClassID)
		if err != nil {
			continue
		}
		m.Attributes[class.Name] = a.Value
	}

	return m, nil
}
