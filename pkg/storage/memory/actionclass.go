package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IDM-desaive/formbricks/pkg/model"
)

type actionClassStore struct {
	store map[string]model.ActionClass
	sync.RWMutex
}

func newActionClassStore() *actionClassStore {
	return &actionClassStore{
		store: make(map[string]model.ActionClass),
	}
}

func (s *actionClassStore) FindByEnvironmentID(environmentID string) ([]model.ActionClass, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.ActionClass, 0)
	for _, m := range s.store {
		if m.EnvironmentID == environmentID {
			models = append(models, m)
		}
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].CreatedAt.Before(models[j].CreatedAt)
	})

	return models, nil
}

func (s *actionClassStore) Create(m *model.ActionClass) error {
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
