package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage/memory"
)

func newTestManager() *Manager {
	return NewManager(memory.NewStore(), cache.New(CacheTTL))
}

func TestManagerCreateRequiresExactlyOneOwner(t *testing.T) {
	m := newTestManager()
	personID := "p1"

	tests := []struct {
		name        string
		personID    *string
		transPerson *model.Person
		wantErr     error
	}{
		{
			name:    "neither owner",
			wantErr: ErrMissingOwner,
		},
		{
			name:        "both owners",
			personID:    &personID,
			transPerson: model.NewTransientPerson("t1"),
			wantErr:     ErrMissingOwner,
		},
		{
			name:     "persisted owner",
			personID: &personID,
		},
		{
			name:        "transient owner",
			transPerson: model.NewTransientPerson("t2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := m.Create(tt.personID, tt.transPerson)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, sess)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, sess.ID)
		})
	}
}

func TestManagerCreateSetsExpiry(t *testing.T) {
	m := newTestManager()

	sess, err := m.Create(nil, model.NewTransientPerson("t1"))
	require.NoError(t, err)

	remaining := time.Until(sess.ExpiresAt)
	require.Greater(t, remaining, Lifetime-time.Minute)
	require.LessOrEqual(t, remaining, Lifetime)
}

func TestManagerGetCachedMissingSession(t *testing.T) {
	m := newTestManager()

	sess, err := m.GetCached("does-not-exist")
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestManagerGetCachedServesFromCache(t *testing.T) {
	m := newTestManager()

	created, err := m.Create(nil, model.NewTransientPerson("t1"))
	require.NoError(t, err)

	first, err := m.GetCached(created.ID)
	require.NoError(t, err)
	second, err := m.GetCached(created.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestManagerExtendMovesExpiry(t *testing.T) {
	m := newTestManager()

	created, err := m.Create(nil, model.NewTransientPerson("t1"))
	require.NoError(t, err)

	extended, err := m.Extend(created.ID)
	require.NoError(t, err)
	require.False(t, extended.ExpiresAt.Before(created.ExpiresAt))
	require.Greater(t, time.Until(extended.ExpiresAt), Lifetime-time.Minute)
}

func TestManagerUpdateTransientPerson(t *testing.T) {
	m := newTestManager()

	p := model.NewTransientPerson("t1")
	created, err := m.Create(nil, p)
	require.NoError(t, err)

	p.Attributes["plan"] = "pro"
	updated, err := m.UpdateTransientPerson(created.ID, p)
	require.NoError(t, err)
	require.Equal(t, "pro", updated.TransPerson.Attributes["plan"])

	// the write must be visible through the cache afterwards
	got, err := m.GetCached(created.ID)
	require.NoError(t, err)
	require.Equal(t, "pro", got.TransPerson.Attributes["plan"])
}

func TestManagerFindByTransientPersonID(t *testing.T) {
	m := newTestManager()

	p := model.NewTransientPerson("t1")
	created, err := m.Create(nil, p)
	require.NoError(t, err)

	found, err := m.FindByTransientPersonID("t1")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.ID, found.ID)

	missing, err := m.FindByTransientPersonID("unknown")
	require.NoError(t, err)
	require.Nil(t, missing)
}
