package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

type surveyStore struct {
	store map[string]model.Survey
	sync.RWMutex
}

func newSurveyStore() *surveyStore {
	return &surveyStore{
		store: make(map[string]model.Survey),
	}
}

func (s *surveyStore) FindByID(id string) (*model.Survey, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *surveyStore) FindByEnvironmentID(environmentID string) ([]model.Survey, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.Survey, 0)
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

func (s *surveyStore) Create(m *model.Survey) error {
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
