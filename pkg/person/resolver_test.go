package person

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IDM-desaive/formbricks/pkg/attribute"
	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/session"
	"github.com/IDM-desaive/formbricks/pkg/storage"
	"github.com/IDM-desaive/formbricks/pkg/storage/memory"
)

func newTestResolver(t *testing.T) (*Resolver, storage.Interface, *session.Manager) {
	t.Helper()

	store := memory.NewStore()
	c := cache.New(session.CacheTTL)
	sessions := session.NewManager(store, c)
	attributes := attribute.NewService(store, c, sessions)

	return NewResolver(store, c, attributes, sessions), store, sessions
}

func TestNewTransientMintsUniqueIDs(t *testing.T) {
	r, _, _ := newTestResolver(t)

	first := r.NewTransient()
	second := r.NewTransient()
	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)
	require.Empty(t, first.Attributes)
}

func TestGetCachedMissingPerson(t *testing.T) {
	r, _, _ := newTestResolver(t)

	p, err := r.GetCached("unknown")
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestGetOrCreateByUserID(t *testing.T) {
	r, _, _ := newTestResolver(t)

	created, err := r.GetOrCreateByUserID("user-42", "env1")
	require.NoError(t, err)
	require.Equal(t, "user-42", created.Attributes["userId"])

	found, err := r.GetOrCreateByUserID("user-42", "env1")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
}

func TestPromoteReplaysSnapshotAttributes(t *testing.T) {
	r, store, sessions := newTestResolver(t)

	p := model.NewTransientPerson("t1")
	p.Attributes["plan"] = "pro"
	p.Attributes["company"] = "acme"
	_, err := sessions.Create(nil, p)
	require.NoError(t, err)

	promoted, err := r.Promote("env1", "t1")
	require.NoError(t, err)
	require.NotNil(t, promoted)
	require.Equal(t, "t1", promoted.ID)

	// the persisted row carries the replayed attributes
	got, err := store.Persons().FindByID("t1")
	require.NoError(t, err)
	require.Equal(t, "pro", got.Attributes["plan"])
	require.Equal(t, "acme", got.Attributes["company"])

	attrs, err := store.Attributes().FindByPersonID("t1")
	require.NoError(t, err)
	require.Len(t, attrs, 2)
}

func TestPromoteWithoutSnapshot(t *testing.T) {
	r, _, _ := newTestResolver(t)

	promoted, err := r.Promote("env1", "unknown")
	require.NoError(t, err)
	require.Nil(t, promoted)
}
