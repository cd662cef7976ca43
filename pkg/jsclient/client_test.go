package jsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IDM-desaive/formbricks/pkg/model"
)

// fakeBackend mimics the sync API: an envelope on sync, a bare state on
// the person endpoints.
type fakeBackend struct {
	sessionID   string
	attributes  map[string]string
	syncCalls   int
	attrCalls   int
	userIDCalls int
	failWith    int
	failMessage string
}

func (b *fakeBackend) state() *model.JsState {
	return &model.JsState{
		Person: &model.Person{
			ID:         "p1",
			Attributes: b.attributes,
		},
		Session: &model.Session{ID: b.sessionID},
		Surveys: []model.Survey{},
	}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/js/sync", func(w http.ResponseWriter, r *http.Request) {
		b.syncCalls++
		if b.failWith != 0 {
			w.WriteHeader(b.failWith)
			json.NewEncoder(w).Encode(map[string]string{"message": b.failMessage})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": b.state()})
	})
	mux.HandleFunc("/api/v1/js/people/p1/set-attribute", func(w http.ResponseWriter, r *http.Request) {
		b.attrCalls++
		var in struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		b.attributes[in.Key] = in.Value
		json.NewEncoder(w).Encode(b.state())
	})
	mux.HandleFunc("/api/v1/js/people/p1/set-user-id", func(w http.ResponseWriter, r *http.Request) {
		b.userIDCalls++
		var in struct {
			UserID string `json:"userId"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		b.attributes["userId"] = in.UserID
		json.NewEncoder(w).Encode(b.state())
	})
	return mux
}

func newTestClient(t *testing.T, b *fakeBackend) (*Client, *httptest.Server) {
	t.Helper()

	if b.attributes == nil {
		b.attributes = make(map[string]string)
	}
	if b.sessionID == "" {
		b.sessionID = "s1"
	}

	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	c, err := New(Config{APIHost: srv.URL, EnvironmentID: "env1"})
	require.NoError(t, err)

	return c, srv
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(Config{EnvironmentID: "env1"})
	require.Error(t, err)

	_, err = New(Config{APIHost: "http://localhost"})
	require.Error(t, err)
}

func TestSyncPopulatesState(t *testing.T) {
	c, _ := newTestClient(t, &fakeBackend{})

	require.NoError(t, c.Sync(context.Background()))
	require.NotNil(t, c.State())
	require.Equal(t, "p1", c.GetPerson().ID)
}

func TestSyncFiresOnNewSession(t *testing.T) {
	b := &fakeBackend{}
	var newSessions []string

	c, _ := newTestClient(t, b)
	c.cfg.OnNewSession = func(sess *model.Session) {
		newSessions = append(newSessions, sess.ID)
	}

	require.NoError(t, c.Sync(context.Background()))
	require.Equal(t, []string{"s1"}, newSessions)

	// same session id again, no event
	require.NoError(t, c.Sync(context.Background()))
	require.Equal(t, []string{"s1"}, newSessions)

	// backend replaced the session
	b.sessionID = "s2"
	require.NoError(t, c.Sync(context.Background()))
	require.Equal(t, []string{"s1", "s2"}, newSessions)
}

func TestSyncRejectsEmptyEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{APIHost: srv.URL, EnvironmentID: "env1"})
	require.NoError(t, err)

	err = c.Sync(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Nil(t, c.State())
}

func TestSyncReportsNetworkError(t *testing.T) {
	b := &fakeBackend{failWith: http.StatusTooManyRequests, failMessage: "over quota"}
	c, _ := newTestClient(t, b)

	err := c.Sync(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, http.StatusTooManyRequests, netErr.Status)
	require.Equal(t, "over quota", netErr.ResponseMessage)
}

func TestSetAttributeWithoutPerson(t *testing.T) {
	c, _ := newTestClient(t, &fakeBackend{})

	err := c.SetAttribute(context.Background(), "plan", "pro")
	var missing *MissingPersonError
	require.ErrorAs(t, err, &missing)
}

func TestSetAttributeSkipsUnchangedValue(t *testing.T) {
	b := &fakeBackend{}
	c, _ := newTestClient(t, b)

	require.NoError(t, c.Sync(context.Background()))
	require.NoError(t, c.SetAttribute(context.Background(), "plan", "pro"))
	require.Equal(t, 1, b.attrCalls)

	// local state already carries plan=pro, no request is made
	require.NoError(t, c.SetAttribute(context.Background(), "plan", "pro"))
	require.Equal(t, 1, b.attrCalls)

	require.NoError(t, c.SetAttribute(context.Background(), "plan", "enterprise"))
	require.Equal(t, 2, b.attrCalls)
}

func TestSetUserIDIsOneWay(t *testing.T) {
	b := &fakeBackend{}
	c, _ := newTestClient(t, b)

	require.NoError(t, c.Sync(context.Background()))
	require.NoError(t, c.SetUserID(context.Background(), "user-42"))
	require.Equal(t, 1, b.userIDCalls)

	// same id again is a no-op
	require.NoError(t, c.SetUserID(context.Background(), "user-42"))
	require.Equal(t, 1, b.userIDCalls)

	// a different id is rejected
	err := c.SetUserID(context.Background(), "user-43")
	var exists *AttributeAlreadyExistsError
	require.ErrorAs(t, err, &exists)
	require.Equal(t, 1, b.userIDCalls)
}

func TestLogoutDropsState(t *testing.T) {
	c, _ := newTestClient(t, &fakeBackend{})

	require.NoError(t, c.Sync(context.Background()))
	require.NotNil(t, c.State())

	c.Logout()
	require.Nil(t, c.State())
	require.Nil(t, c.GetPerson())
}

func TestResetFetchesFreshState(t *testing.T) {
	b := &fakeBackend{}
	c, _ := newTestClient(t, b)

	require.NoError(t, c.Sync(context.Background()))
	c.Logout()

	require.NoError(t, c.Reset(context.Background()))
	require.NotNil(t, c.State())
	require.Equal(t, 2, b.syncCalls)
}
