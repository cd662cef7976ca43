package api

import (
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/attribute"
	"github.com/IDM-desaive/formbricks/pkg/person"
	"github.com/IDM-desaive/formbricks/pkg/session"
	"github.com/IDM-desaive/formbricks/pkg/storage"
	"github.com/IDM-desaive/formbricks/pkg/sync"
	"github.com/IDM-desaive/formbricks/pkg/telemetry"
)

// Handler contains all properties to serve the API
type Handler struct {
	engine     *sync.Engine
	attributes *attribute.Service
	persons    *person.Resolver
	sessions   *session.Manager
	store      storage.Interface
	telemetry  *telemetry.Service
}

// NewHandler create a new API handler
func NewHandler(engine *sync.Engine, attributes *attribute.Service, persons *person.Resolver, sessions *session.Manager, store storage.Interface, t *telemetry.Service) *Handler {
	return &Handler{
		engine:     engine,
		attributes: attributes,
		persons:    persons,
		sessions:   sessions,
		store:      store,
		telemetry:  t,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register API routes")
	api := e.Group("/api/v1")

	js := api.Group("/js")
	js.POST("/sync", h.handleSync)
	js.OPTIONS("/sync", handlePreflight)
	js.POST("/people/:personId/set-attribute", h.handleSetAttribute)
	js.OPTIONS("/people/:personId/set-attribute", handlePreflight)
	js.POST("/people/:personId/set-user-id", h.handleSetUserID)
	js.OPTIONS("/people/:personId/set-user-id", handlePreflight)

	client := api.Group("/client")
	client.POST("/responses", h.handleCreateResponse)
	client.OPTIONS("/responses", handlePreflight)
}
