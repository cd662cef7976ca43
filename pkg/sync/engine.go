// Package sync assembles the consolidated client state bundle. The engine
// enforces the monthly active people quota, resolves person and session,
// merges externally supplied attributes and gathers the environment-scoped
// data into one consistent response.
package sync

import (
	gosync "sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/attribute"
	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/person"
	"github.com/IDM-desaive/formbricks/pkg/session"
	"github.com/IDM-desaive/formbricks/pkg/storage"
	"github.com/IDM-desaive/formbricks/pkg/telemetry"
)

// Engine is the state aggregator
type Engine struct {
	store      storage.Interface
	cache      *cache.Cache
	persons    *person.Resolver
	sessions   *session.Manager
	attributes *attribute.Service
	telemetry  *telemetry.Service
	mauLimit   int
}

// NewEngine creates a new sync engine. A mauLimit of zero disables the
// monthly active people quota.
func NewEngine(store storage.Interface, c *cache.Cache, persons *person.Resolver, sessions *session.Manager, attributes *attribute.Service, t *telemetry.Service, mauLimit int) *Engine {
	return &Engine{
		store:      store,
		cache:      c,
		persons:    persons,
		sessions:   sessions,
		attributes: attributes,
		telemetry:  t,
		mauLimit:   mauLimit,
	}
}

// GetUpdatedState reconciles the visitor identified by the optional
// personID/sessionID pair and returns the assembled state bundle. Person
// and session resolution completes, internally consistent, before the
// environment-scoped reads are issued.
func (e *Engine) GetUpdatedState(environmentID, personID, sessionID, jsVersion, userID string, userAttributes map[string]string) (*model.JsState, error) {
	if _, err := e.GetEnvironmentCached(environmentID); err != nil {
		return nil, err
	}

	if err := e.enforceQuota(environmentID, personID, sessionID); err != nil {
		return nil, err
	}

	// 1st create the person (either in the database or in the session)
	p, sessionID, err := e.resolvePerson(environmentID, personID, sessionID, userID, userAttributes)
	if err != nil {
		return nil, err
	}

	// 2nd resolve, renew or replace the session
	sess, err := e.resolveSession(p, sessionID, jsVersion)
	if err != nil {
		return nil, err
	}

	// we now have a valid person & session
	return e.assembleState(environmentID, p, sess)
}

// GetEnvironmentCached fetches an environment through the cache, mapping a
// missing row to ErrEnvironmentNotFound.
func (e *Engine) GetEnvironmentCached(environmentID string) (*model.Environment, error) {
	if v, ok := e.cache.Get(cache.EnvironmentKey(environmentID)); ok {
		return v.(*model.Environment), nil
	}

	env, err := e.store.Environments().FindByID(environmentID)
	if err == storage.ErrNotFound {
		return nil, ErrEnvironmentNotFound
	}
	if err != nil {
		return nil, err
	}

	e.cache.Set(cache.EnvironmentKey(environmentID), env)

	return env, nil
}

// enforceQuota applies the monthly active people policy: once the ceiling
// is reached, only requests citing a session created within the current
// calendar month are admitted. A failing count is logged and treated as
// zero rather than blocking traffic.
func (e *Engine) enforceQuota(environmentID, personID, sessionID string) error {
	if e.mauLimit <= 0 {
		return nil
	}

	firstOfMonth := firstDayOfMonth(time.Now().UTC())

	currentMau, err := e.store.Persons().CountMonthlyActive(environmentID, firstOfMonth)
	if err != nil {
		log.Errorf("failed to retrieve monthly active people count: %v", err)
		currentMau = 0
	}

	if currentMau < e.mauLimit {
		return nil
	}

	quotaErr := &QuotaExceededError{EnvironmentID: environmentID, Count: currentMau, Limit: e.mauLimit}

	// don't allow new people or sessions
	if personID == "" || sessionID == "" {
		return quotaErr
	}

	sess, err := e.sessions.GetCached(sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return quotaErr
	}

	// admit only visitors already active this month
	if sess.CreatedAt.Before(firstOfMonth) {
		return quotaErr
	}

	return nil
}

func (e *Engine) resolvePerson(environmentID, personID, sessionID, userID string, userAttributes map[string]string) (*model.Person, string, error) {
	var p *model.Person
	var sess *model.Session

	if personID == "" {
		if userID != "" {
			log.Infof("user id provided, retrieving or creating person for %s", userID)
			var err error
			p, err = e.persons.GetOrCreateByUserID(userID, environmentID)
			if err != nil {
				return nil, "", err
			}
			for key, value := range userAttributes {
				if err := e.attributes.Upsert(environmentID, p.ID, key, value); err != nil {
					return nil, "", err
				}
				p.Attributes[key] = value
			}
			return p, sessionID, nil
		}

		log.Debug("creating transient person")
		p = e.persons.NewTransient()
		var err error
		sess, err = e.sessions.Create(nil, p)
		if err != nil {
			return nil, "", err
		}
		sessionID = sess.ID
		for key, value := range userAttributes {
			if _, err := e.attributes.Set(environmentID, sessionID, p.ID, key, value); err != nil {
				return nil, "", err
			}
			p.Attributes[key] = value
		}
		return p, sessionID, nil
	}

	existing, err := e.persons.GetCached(personID)
	if err != nil {
		return nil, "", err
	}

	if existing == nil {
		if sessionID != "" {
			sess, err = e.sessions.GetCached(sessionID)
			if err != nil {
				return nil, "", err
			}
			if sess != nil && sess.TransPerson != nil {
				p = sess.TransPerson
			} else {
				p, err = e.persons.Create(environmentID)
				if err != nil {
					return nil, "", err
				}
			}
		} else {
			log.Debug("creating new person")
			p, err = e.persons.Create(environmentID)
			if err != nil {
				return nil, "", err
			}
			sess, err = e.sessions.Create(&p.ID, nil)
			if err != nil {
				return nil, "", err
			}
			sessionID = sess.ID
		}

		if sess != nil {
			for key, value := range userAttributes {
				if _, err := e.attributes.Set(environmentID, sess.ID, p.ID, key, value); err != nil {
					return nil, "", err
				}
				p.Attributes[key] = value
			}
		}
		return p, sessionID, nil
	}

	p = existing
	if sessionID != "" {
		for key, value := range userAttributes {
			if _, err := e.attributes.Set(environmentID, sessionID, p.ID, key, value); err != nil {
				return nil, "", err
			}
			p.Attributes[key] = value
		}
	}

	return p, sessionID, nil
}

// resolveSession applies the session lifecycle rules: a missing session is
// recreated under the final person, an expired one is replaced, and one
// within the extension window is extended in place. Replacements fire the
// new-session telemetry signal.
func (e *Engine) resolveSession(p *model.Person, sessionID, jsVersion string) (*model.Session, error) {
	if sessionID == "" {
		return e.sessions.Create(&p.ID, nil)
	}

	sess, err := e.sessions.GetCached(sessionID)
	if err != nil {
		return nil, err
	}

	if sess == nil {
		sess, err = e.recreateSession(p)
		if err != nil {
			return nil, err
		}
		go e.captureNewSessionTelemetry(jsVersion)
		return sess, nil
	}

	if sess.ExpiresAt.Before(time.Now()) {
		sess, err = e.recreateSession(p)
		if err != nil {
			return nil, err
		}
		go e.captureNewSessionTelemetry(jsVersion)
		return sess, nil
	}

	if time.Until(sess.ExpiresAt) < session.ExtendThreshold {
		return e.sessions.Extend(sessionID)
	}

	return sess, nil
}

// recreateSession issues a new session for the same logical visitor: bound
// by id when the person is persisted, embedding the snapshot otherwise.
func (e *Engine) recreateSession(p *model.Person) (*model.Session, error) {
	existing, err := e.persons.GetCached(p.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return e.sessions.Create(&p.ID, nil)
	}

	return e.sessions.Create(nil, p)
}

func (e *Engine) assembleState(environmentID string, p *model.Person, sess *model.Session) (*model.JsState, error) {
	var surveys []model.Survey
	var actionClasses []model.ActionClass
	var product *model.Product
	var surveysErr, classesErr, productErr error

	var wg gosync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		surveys, surveysErr = e.GetSurveysCached(environmentID, p)
	}()
	go func() {
		defer wg.Done()
		actionClasses, classesErr = e.getActionClassesCached(environmentID)
	}()
	go func() {
		defer wg.Done()
		product, productErr = e.getProductCached(environmentID)
	}()
	wg.Wait()

	if surveysErr != nil {
		return nil, surveysErr
	}
	if classesErr != nil {
		return nil, classesErr
	}
	if productErr != nil {
		return nil, productErr
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	noCode := make([]model.ActionClass, 0)
	for _, class := range actionClasses {
		if class.Type == model.ActionTypeNoCode {
			noCode = append(noCode, class)
		}
	}

	return &model.JsState{
		Person:              p,
		Session:             sess,
		Surveys:             surveys,
		NoCodeActionClasses: noCode,
		Product:             product,
	}, nil
}

// GetSurveysCached returns the surveys shown to the given person: running
// web surveys of the environment, cached per (environment, person) so
// attribute writes can invalidate a single visitor's slice.
func (e *Engine) GetSurveysCached(environmentID string, p *model.Person) ([]model.Survey, error) {
	key := cache.SurveysKey(environmentID, p.ID)
	if v, ok := e.cache.Get(key); ok {
		return v.([]model.Survey), nil
	}

	all, err := e.store.Surveys().FindByEnvironmentID(environmentID)
	if err != nil {
		return nil, err
	}

	surveys := make([]model.Survey, 0)
	for _, s := range all {
		if s.Status == model.SurveyStatusInProgress && s.Type == model.SurveyTypeWeb {
			surveys = append(surveys, s)
		}
	}

	e.cache.Set(key, surveys)

	return surveys, nil
}

func (e *Engine) getActionClassesCached(environmentID string) ([]model.ActionClass, error) {
	key := cache.ActionClassesKey(environmentID)
	if v, ok := e.cache.Get(key); ok {
		return v.([]model.ActionClass), nil
	}

	classes, err := e.store.ActionClasses().FindByEnvironmentID(environmentID)
	if err != nil {
		return nil, err
	}

	e.cache.Set(key, classes)

	return classes, nil
}

func (e *Engine) getProductCached(environmentID string) (*model.Product, error) {
	key := cache.ProductKey(environmentID)
	if v, ok := e.cache.Get(key); ok {
		return v.(*model.Product), nil
	}

	product, err := e.store.Products().FindByEnvironmentID(environmentID)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.cache.Set(key, product)

	return product, nil
}

func (e *Engine) captureNewSessionTelemetry(jsVersion string) {
	if jsVersion == "" {
		jsVersion = "unknown"
	}
	e.telemetry.Capture("session created", map[string]interface{}{"jsVersion": jsVersion})
}

func firstDayOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
