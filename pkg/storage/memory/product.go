package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

type productStore struct {
	store        map[string]model.Product
	environments *environmentStore
	sync.RWMutex
}

func newProductStore(environments *environmentStore) *productStore {
	return &productStore{
		store:        make(map[string]model.Product),
		environments: environments,
	}
}

func (s *productStore) FindByEnvironmentID(environmentID string) (*model.Product, error) {
	env, err := s.environments.FindByID(environmentID)
	if err != nil {
		return nil, err
	}

	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[env.ProductID]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *productStore) Create(m *model.Product) error {
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
