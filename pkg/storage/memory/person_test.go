package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IDM-desaive/formbricks/pkg/model"
)

func TestPersonCreateCopiesAttributes(t *testing.T) {
	st := NewStore().(*store)

	p := &model.Person{EnvironmentID: "env1", Attributes: map[string]string{"plan": "free"}}
	require.NoError(t, st.Persons().Create(p))

	// mutating the caller's map must not leak into the stored row
	p.Attributes["plan"] = "pro"

	stored := st.persons.store[p.ID]
	require.Equal(t, "free", stored.Attributes["plan"])
}

func TestPersonCountMonthlyActive(t *testing.T) {
	st := NewStore()

	active := &model.Person{EnvironmentID: "env1"}
	require.NoError(t, st.Persons().Create(active))
	require.NoError(t, st.Sessions().Create(&model.Session{PersonID: &active.ID, ExpiresAt: time.Now().Add(time.Hour)}))

	idle := &model.Person{EnvironmentID: "env1"}
	require.NoError(t, st.Persons().Create(idle))

	since := time.Now().Add(-time.Minute).UTC()
	count, err := st.Persons().CountMonthlyActive("env1", since)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
