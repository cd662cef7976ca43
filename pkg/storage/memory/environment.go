package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

type environmentStore struct {
	store map[string]model.Environment
	sync.RWMutex
}

func newEnvironmentStore() *environmentStore {
	return &environmentStore{
		store: make(map[string]model.Environment),
	}
}

func (s *environmentStore) FindByID(id string) (*model.Environment, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *environmentStore) Create(m *model.Environment) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = time.Now().Round(time.Second).UTC()

	s.store[m.ID] = *m

	return nil
}
