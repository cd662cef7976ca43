package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IDM-desaive/formbricks/pkg/attribute"
	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/person"
	"github.com/IDM-desaive/formbricks/pkg/session"
	"github.com/IDM-desaive/formbricks/pkg/storage"
	"github.com/IDM-desaive/formbricks/pkg/storage/memory"
	"github.com/IDM-desaive/formbricks/pkg/telemetry"
)

type testEnv struct {
	engine   *Engine
	store    storage.Interface
	sessions *session.Manager
	persons  *person.Resolver
}

func newTestEnv(t *testing.T, mauLimit int) *testEnv {
	t.Helper()

	store := memory.NewStore()
	c := cache.New(session.CacheTTL)
	sessions := session.NewManager(store, c)
	attributes := attribute.NewService(store, c, sessions)
	persons := person.NewResolver(store, c, attributes, sessions)
	tel := telemetry.NewService(nil)

	product := &model.Product{Name: "My Product", TeamID: "team1"}
	require.NoError(t, store.Products().Create(product))
	env := &model.Environment{ID: "env1", ProductID: product.ID, Type: "production"}
	require.NoError(t, store.Environments().Create(env))

	return &testEnv{
		engine:   NewEngine(store, c, persons, sessions, attributes, tel, mauLimit),
		store:    store,
		sessions: sessions,
		persons:  persons,
	}
}

func TestGetUpdatedStateUnknownEnvironment(t *testing.T) {
	te := newTestEnv(t, 0)

	_, err := te.engine.GetUpdatedState("nope", "", "", "", "", nil)
	require.ErrorIs(t, err, ErrEnvironmentNotFound)
}

func TestGetUpdatedStateFreshVisitor(t *testing.T) {
	te := newTestEnv(t, 0)

	state, err := te.engine.GetUpdatedState("env1", "", "", "1.1.0", "", nil)
	require.NoError(t, err)

	require.NotEmpty(t, state.Person.ID)
	require.NotEmpty(t, state.Session.ID)
	require.NotNil(t, state.Product)
	require.Empty(t, state.Surveys)
	require.Empty(t, state.NoCodeActionClasses)

	// the person stays transient, embedded in the session only
	_, err = te.store.Persons().FindByID(state.Person.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	sess, err := te.store.Sessions().FindByID(state.Session.ID)
	require.NoError(t, err)
	require.Equal(t, state.Person.ID, sess.TransPerson.ID)
}

func TestGetUpdatedStateReusesValidSession(t *testing.T) {
	te := newTestEnv(t, 0)

	first, err := te.engine.GetUpdatedState("env1", "", "", "", "", nil)
	require.NoError(t, err)

	second, err := te.engine.GetUpdatedState("env1", first.Person.ID, first.Session.ID, "", "", nil)
	require.NoError(t, err)
	require.Equal(t, first.Session.ID, second.Session.ID)
	require.Equal(t, first.Person.ID, second.Person.ID)
}

func TestGetUpdatedStateExtendsExpiringSession(t *testing.T) {
	te := newTestEnv(t, 0)

	p := model.NewTransientPerson("t1")
	sess := &model.Session{
		TransPerson: p,
		ExpiresAt:   time.Now().Add(5 * time.Minute).Round(time.Second).UTC(),
	}
	require.NoError(t, te.store.Sessions().Create(sess))

	state, err := te.engine.GetUpdatedState("env1", p.ID, sess.ID, "", "", nil)
	require.NoError(t, err)
	require.Equal(t, sess.ID, state.Session.ID)
	require.Greater(t, time.Until(state.Session.ExpiresAt), session.Lifetime-time.Minute)
}

func TestGetUpdatedStateReplacesExpiredSession(t *testing.T) {
	te := newTestEnv(t, 0)

	p := model.NewTransientPerson("t1")
	sess := &model.Session{
		TransPerson: p,
		ExpiresAt:   time.Now().Add(-time.Minute).Round(time.Second).UTC(),
	}
	require.NoError(t, te.store.Sessions().Create(sess))

	state, err := te.engine.GetUpdatedState("env1", p.ID, sess.ID, "", "", nil)
	require.NoError(t, err)
	require.NotEqual(t, sess.ID, state.Session.ID)
	// the visitor keeps its identity across the replacement
	require.Equal(t, p.ID, state.Person.ID)
	require.Equal(t, p.ID, state.Session.TransPerson.ID)
}

func TestGetUpdatedStateUserID(t *testing.T) {
	te := newTestEnv(t, 0)

	first, err := te.engine.GetUpdatedState("env1", "", "", "", "user-42", nil)
	require.NoError(t, err)
	require.Equal(t, "user-42", first.Person.Attributes["userId"])

	// the person is persisted and found again on the next device
	got, err := te.store.Persons().FindByID(first.Person.ID)
	require.NoError(t, err)
	require.Equal(t, "user-42", got.Attributes["userId"])

	second, err := te.engine.GetUpdatedState("env1", "", "", "", "user-42", nil)
	require.NoError(t, err)
	require.Equal(t, first.Person.ID, second.Person.ID)
}

func TestGetUpdatedStateMergesUserAttributes(t *testing.T) {
	te := newTestEnv(t, 0)

	state, err := te.engine.GetUpdatedState("env1", "", "", "", "user-42", map[string]string{"plan": "pro"})
	require.NoError(t, err)
	require.Equal(t, "pro", state.Person.Attributes["plan"])

	got, err := te.store.Persons().FindByID(state.Person.ID)
	require.NoError(t, err)
	require.Equal(t, "pro", got.Attributes["plan"])
}

func TestGetUpdatedStateSurveyFiltering(t *testing.T) {
	te := newTestEnv(t, 0)

	surveys := []*model.Survey{
		{EnvironmentID: "env1", Name: "running web", Type: model.SurveyTypeWeb, Status: model.SurveyStatusInProgress},
		{EnvironmentID: "env1", Name: "draft web", Type: model.SurveyTypeWeb, Status: model.SurveyStatusDraft},
		{EnvironmentID: "env1", Name: "running link", Type: model.SurveyTypeLink, Status: model.SurveyStatusInProgress},
		{EnvironmentID: "env1", Name: "paused web", Type: model.SurveyTypeWeb, Status: model.SurveyStatusPaused},
	}
	for _, s := range surveys {
		require.NoError(t, te.store.Surveys().Create(s))
	}

	state, err := te.engine.GetUpdatedState("env1", "", "", "", "", nil)
	require.NoError(t, err)
	require.Len(t, state.Surveys, 1)
	require.Equal(t, "running web", state.Surveys[0].Name)
}

func TestGetUpdatedStateFiltersActionClasses(t *testing.T) {
	te := newTestEnv(t, 0)

	classes := []*model.ActionClass{
		{EnvironmentID: "env1", Name: "Exit Intent", Type: model.ActionTypeNoCode},
		{EnvironmentID: "env1", Name: "Checkout", Type: model.ActionTypeCode},
	}
	for _, class := range classes {
		require.NoError(t, te.store.ActionClasses().Create(class))
	}

	state, err := te.engine.GetUpdatedState("env1", "", "", "", "", nil)
	require.NoError(t, err)
	require.Len(t, state.NoCodeActionClasses, 1)
	require.Equal(t, "Exit Intent", state.NoCodeActionClasses[0].Name)
}

func TestQuotaRejectsNewVisitor(t *testing.T) {
	te := newTestEnv(t, 1)

	// one persisted person with a session this month fills the quota
	p, err := te.persons.Create("env1")
	require.NoError(t, err)
	_, err = te.sessions.Create(&p.ID, nil)
	require.NoError(t, err)

	_, err = te.engine.GetUpdatedState("env1", "", "", "", "", nil)
	require.True(t, IsQuotaExceeded(err))
}

func TestQuotaRejectsUnknownSession(t *testing.T) {
	te := newTestEnv(t, 1)

	p, err := te.persons.Create("env1")
	require.NoError(t, err)
	_, err = te.sessions.Create(&p.ID, nil)
	require.NoError(t, err)

	_, err = te.engine.GetUpdatedState("env1", "someone", "unknown-session", "", "", nil)
	require.True(t, IsQuotaExceeded(err))
}

func TestQuotaRejectsStaleSession(t *testing.T) {
	te := newTestEnv(t, 1)

	// one current-month visitor fills the quota
	active, err := te.persons.Create("env1")
	require.NoError(t, err)
	_, err = te.sessions.Create(&active.ID, nil)
	require.NoError(t, err)

	// a second visitor holds a valid session created last month
	stale, err := te.persons.Create("env1")
	require.NoError(t, err)
	sess, err := te.sessions.Create(&stale.ID, nil)
	require.NoError(t, err)
	sess.CreatedAt = firstDayOfMonth(time.Now().UTC()).Add(-time.Hour)
	require.NoError(t, te.store.Sessions().Update(sess))

	_, err = te.engine.GetUpdatedState("env1", stale.ID, sess.ID, "", "", nil)
	require.True(t, IsQuotaExceeded(err))
}

func TestQuotaAdmitsActiveVisitor(t *testing.T) {
	te := newTestEnv(t, 1)

	p, err := te.persons.Create("env1")
	require.NoError(t, err)
	sess, err := te.sessions.Create(&p.ID, nil)
	require.NoError(t, err)

	state, err := te.engine.GetUpdatedState("env1", p.ID, sess.ID, "", "", nil)
	require.NoError(t, err)
	require.Equal(t, p.ID, state.Person.ID)
}

func TestQuotaDisabledByDefault(t *testing.T) {
	te := newTestEnv(t, 0)

	for i := 0; i < 5; i++ {
		_, err := te.engine.GetUpdatedState("env1", "", "", "", "", nil)
		require.NoError(t, err)
	}
}
