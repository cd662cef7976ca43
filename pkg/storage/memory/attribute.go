package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

type attributeClassStore struct {
	store map[string]model.AttributeClass
	sync.RWMutex
}

func newAttributeClassStore() *attributeClassStore {
	return &attributeClassStore{
		store: make(map[string]model.AttributeClass),
	}
}

func (s *attributeClassStore) FindByName(environmentID, name string) (*model.AttributeClass, error) {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.store {
		if m.EnvironmentID == environmentID && m.Name == name {
			return &m, nil
		}
	}

	return nil, storage.ErrNotFound
}

// Create is idempotent on (environmentID, name): a concurrent duplicate
// create returns the already stored class.
func (s *attributeClassStore) Create(m *model.AttributeClass) error {
	s.Lock()
	defer s.Unlock()

	for _, existing := range s.store {
		if existing.EnvironmentID == m.EnvironmentID && existing.Name == m.Name {
			*m = existing
			return nil
		}
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = time.Now().Round(time.Second).UTC()

	s.store[m.ID] = *m

	return nil
}

func (s *attributeClassStore) findByID(id string) (*model.AttributeClass, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

type attributeStore struct {
	store map[string]model.Attribute
	sync.RWMutex
}

func newAttributeStore() *attributeStore {
	return &attributeStore{
		store: make(map[string]model.Attribute),
	}
}

// Upsert creates the attribute row for (AttributeClassID, PersonID) or
// overwrites its value when the pair exists already.
func (s *attributeStore) Upsert(m *model.Attribute) error {
	s.Lock()
	defer s.Unlock()

	for id, existing := range s.store {
		if existing.AttributeClassID == m.AttributeClassID && existing.PersonID == m.PersonID {
			existing.Value = m.Value
			existing.UpdatedAt = time.Now().Round(time.Second).UTC()
			s.store[id] = existing
			*m = existing
			return nil
		}
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = time.Now().Round(time.Second).UTC()

	s.store[m.ID] = *m

	return nil
}

func (s *attributeStore) FindByPersonID(personID string) ([]model.Attribute, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.Attribute, 0)
	for _, m := range s.store {
		if m.PersonID == personID {
			models = append(models, m)
		}
	}

	return models, nil
}
