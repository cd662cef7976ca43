package attribute

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/session"
	"github.com/IDM-desaive/formbricks/pkg/storage"
	"github.com/IDM-desaive/formbricks/pkg/storage/memory"
)

func newTestService(t *testing.T) (*Service, storage.Interface, *session.Manager) {
	t.Helper()

	store := memory.NewStore()
	c := cache.New(session.CacheTTL)
	sessions := session.NewManager(store, c)

	return NewService(store, c, sessions), store, sessions
}

func TestEnsureClassIsIdempotent(t *testing.T) {
	s, _, _ := newTestService(t)

	first, err := s.EnsureClass("env1", "plan")
	require.NoError(t, err)
	require.Equal(t, model.AttributeTypeCode, first.Type)

	second, err := s.EnsureClass("env1", "plan")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestEnsureClassScopedPerEnvironment(t *testing.T) {
	s, _, _ := newTestService(t)

	first, err := s.EnsureClass("env1", "plan")
	require.NoError(t, err)
	second, err := s.EnsureClass("env2", "plan")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestSetPersistedPerson(t *testing.T) {
	s, store, _ := newTestService(t)

	p := &model.Person{EnvironmentID: "env1"}
	require.NoError(t, store.Persons().Create(p))

	sess, err := s.Set("env1", "", p.ID, "plan", "pro")
	require.NoError(t, err)
	require.Nil(t, sess)

	got, err := store.Persons().FindByID(p.ID)
	require.NoError(t, err)
	require.Equal(t, "pro", got.Attributes["plan"])
}

func TestSetTransientPersonWritesSnapshot(t *testing.T) {
	s, _, sessions := newTestService(t)

	p := model.NewTransientPerson("t1")
	created, err := sessions.Create(nil, p)
	require.NoError(t, err)

	sess, err := s.Set("env1", created.ID, p.ID, "plan", "pro")
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "pro", sess.TransPerson.Attributes["plan"])

	got, err := sessions.GetCached(created.ID)
	require.NoError(t, err)
	require.Equal(t, "pro", got.TransPerson.Attributes["plan"])
}

func TestSetUnknownSessionDropsAttribute(t *testing.T) {
	s, _, _ := newTestService(t)

	sess, err := s.Set("env1", "unknown", "ghost", "plan", "pro")
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestUpsertOverwritesValue(t *testing.T) {
	s, store, _ := newTestService(t)

	p := &model.Person{EnvironmentID: "env1"}
	require.NoError(t, store.Persons().Create(p))

	require.NoError(t, s.Upsert("env1", p.ID, "plan", "free"))
	require.NoError(t, s.Upsert("env1", p.ID, "plan", "pro"))

	attrs, err := store.Attributes().FindByPersonID(p.ID)
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	require.Equal(t, "pro", attrs[0].Value)
}
