// Package jsclient is the Go counterpart of the browser widget's sync
// agent. It keeps a local copy of the consolidated state, refreshes it on
// a timer and pushes person attributes to the sync API. All collaborators
// are injected through the Config; the package holds no global state.
package jsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/model"
)

const (
	syncInterval      = 5 * time.Minute
	syncIntervalDebug = time.Minute

	// Version is reported to the backend on every sync.
	Version = "1.1.0"
)

// Config carries everything the client needs. APIHost and EnvironmentID
// are mandatory.
type Config struct {
	APIHost       string
	EnvironmentID string
	Debug         bool

	// HTTPClient is used for all requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// OnNewSession is invoked whenever a sync returns a session id the
	// client has not seen before, e.g. after the old session expired.
	OnNewSession func(session *model.Session)
}

// Client synchronizes widget state with the backend.
type Client struct {
	cfg  Config
	http *http.Client

	mu             sync.Mutex
	state          *model.JsState
	userID         string
	userAttributes map[string]string
	syncAllowed    bool
	stopSync       chan struct{}
}

// New creates a client. It does not talk to the backend until Sync or
// StartSync is called.
func New(cfg Config) (*Client, error) {
	if cfg.APIHost == "" {
		return nil, errors.New("jsclient: APIHost is required")
	}
	if cfg.EnvironmentID == "" {
		return nil, errors.New("jsclient: EnvironmentID is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	return &Client{
		cfg:         cfg,
		http:        hc,
		syncAllowed: true,
	}, nil
}

type syncRequest struct {
	EnvironmentID  string            `json:"environmentId"`
	PersonID       string            `json:"personId,omitempty"`
	SessionID      string            `json:"sessionId,omitempty"`
	JsVersion      string            `json:"jsVersion,omitempty"`
	UserID         string            `json:"userId,omitempty"`
	UserAttributes map[string]string `json:"userAttributes,omitempty"`
}

type syncResponse struct {
	Data *model.JsState `json:"data"`
}

type attributeRequest struct {
	EnvironmentID string `json:"environmentId"`
	SessionID     string `json:"sessionId"`
	Key           string `json:"key"`
	Value         string `json:"value"`
}

type userIDRequest struct {
	EnvironmentID string `json:"environmentId"`
	SessionID     string `json:"sessionId"`
	UserID        string `json:"userId"`
}

// Sync fetches a fresh state bundle from the backend and replaces the
// local copy. A sync that hands out a new session id fires OnNewSession.
func (c *Client) Sync(ctx context.Context) error {
	c.mu.Lock()
	req := syncRequest{
		EnvironmentID:  c.cfg.EnvironmentID,
		JsVersion:      Version,
		UserID:         c.userID,
		UserAttributes: c.userAttributes,
	}
	oldState := c.state
	if oldState != nil {
		if oldState.Person != nil {
			req.PersonID = oldState.Person.ID
		}
		if oldState.Session != nil {
			req.SessionID = oldState.Session.ID
		}
	}
	c.mu.Unlock()

	var res syncResponse
	if err := c.post(ctx, "/api/v1/js/sync", req, &res, "Error syncing with backend"); err != nil {
		return err
	}
	if res.Data == nil {
		return &NetworkError{
			Status:  http.StatusOK,
			URL:     c.cfg.APIHost + "/api/v1/js/sync",
			Message: "Error syncing with backend: response carries no state",
		}
	}
	state := res.Data

	c.mu.Lock()
	c.state = state
	// user attributes were merged server-side, no need to resend them
	c.userAttributes = nil
	c.mu.Unlock()

	log.Debugf("fetched %d surveys during sync", len(state.Surveys))

	if state.Session != nil && (oldState == nil || oldState.Session == nil || oldState.Session.ID != state.Session.ID) {
		if c.cfg.OnNewSession != nil {
			c.cfg.OnNewSession(state.Session)
		}
	}

	return nil
}

// StartSync begins refreshing the state on a timer, every five minutes,
// or every minute in debug mode. Calling it twice is a no-op.
func (c *Client) StartSync() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopSync != nil {
		return
	}

	interval := syncInterval
	if c.cfg.Debug {
		interval = syncIntervalDebug
	}

	stop := make(chan struct{})
	c.stopSync = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.mu.Lock()
				allowed := c.syncAllowed
				c.mu.Unlock()
				if !allowed {
					continue
				}
				if err := c.Sync(context.Background()); err != nil {
					log.Errorf("sync failed: %v", err)
				}
			}
		}
	}()
}

// StopSync stops the periodic refresh. Calling it without a running
// timer is a no-op.
func (c *Client) StopSync() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopSync == nil {
		return
	}
	close(c.stopSync)
	c.stopSync = nil
}

// SetAttribute pushes a person attribute to the backend. If the local
// state already carries the attribute with the same value, the call is
// skipped.
func (c *Client) SetAttribute(ctx context.Context, key, value string) error {
	c.mu.Lock()
	if c.state == nil || c.state.Person == nil || c.state.Person.ID == "" {
		c.mu.Unlock()
		return &MissingPersonError{Message: "unable to update attribute, no person set"}
	}
	if c.state.Person.Attributes[key] == value {
		c.mu.Unlock()
		log.Debug("attribute already set to this value, skipping update")
		return nil
	}
	personID := c.state.Person.ID
	req := attributeRequest{
		EnvironmentID: c.cfg.EnvironmentID,
		SessionID:     c.sessionIDLocked(),
		Key:           key,
		Value:         value,
	}
	c.mu.Unlock()

	var state model.JsState
	path := fmt.Sprintf("/api/v1/js/people/%s/set-attribute", personID)
	if err := c.post(ctx, path, req, &state, "Error updating person"); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = &state
	c.mu.Unlock()

	return nil
}

// SetUserID binds an external user id to the current person. The binding
// is one-way: a different id on an already bound person is rejected
// with an AttributeAlreadyExistsError. Binding the same id again is a
// no-op.
func (c *Client) SetUserID(ctx context.Context, userID string) error {
	c.mu.Lock()
	if c.state == nil || c.state.Person == nil || c.state.Person.ID == "" {
		c.mu.Unlock()
		return &MissingPersonError{Message: "unable to update userId, no person set"}
	}
	current, bound := c.state.Person.Attributes["userId"]
	if bound && current == userID {
		c.mu.Unlock()
		log.Debug("userId already set to this value, skipping update")
		return nil
	}
	if bound {
		c.mu.Unlock()
		return &AttributeAlreadyExistsError{
			Message: "userId cannot be changed after it has been set, reset the client first",
		}
	}
	personID := c.state.Person.ID
	req := userIDRequest{
		EnvironmentID: c.cfg.EnvironmentID,
		SessionID:     c.sessionIDLocked(),
		UserID:        userID,
	}
	c.mu.Unlock()

	var state model.JsState
	path := fmt.Sprintf("/api/v1/js/people/%s/set-user-id", personID)
	if err := c.post(ctx, path, req, &state, "Error updating person"); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = &state
	c.userID = userID
	c.mu.Unlock()

	return nil
}

// Logout drops the local state and disables periodic syncing until
// Reset is called.
func (c *Client) Logout() {
	log.Debug("resetting state")

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = nil
	c.userID = ""
	c.userAttributes = nil
	c.syncAllowed = false
}

// Reset drops the local state and immediately fetches a fresh one, which
// yields a new transient person and session.
func (c *Client) Reset(ctx context.Context) error {
	c.Logout()

	c.mu.Lock()
	c.syncAllowed = true
	c.mu.Unlock()

	return c.Sync(ctx)
}

// GetPerson returns the person from the local state, nil before the
// first sync.
func (c *Client) GetPerson() *model.Person {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == nil {
		return nil
	}
	return c.state.Person
}

// State returns the last synced state bundle, nil before the first sync.
func (c *Client) State() *model.JsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) sessionIDLocked() string {
	if c.state != nil && c.state.Session != nil {
		return c.state.Session.ID
	}
	return ""
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}, msg string) error {
	url := c.cfg.APIHost + path

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", url)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var errBody struct {
			Message string `json:"message"`
		}
		// ignore a malformed error body, the status code is enough
		json.NewDecoder(res.Body).Decode(&errBody)
		return &NetworkError{
			Status:          res.StatusCode,
			URL:             url,
			Message:         msg,
			ResponseMessage: errBody.Message,
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response body")
	}

	return nil
}
