package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IDM-desaive/formbricks/pkg/model"
)

type responseStore struct {
	store map[string]model.Response
	sync.RWMutex
}

func newResponseStore() *responseStore {
	return &responseStore{
		store: make(map[string]model.Response),
	}
}

func (s *responseStore) Create(m *model.Response) error {
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
