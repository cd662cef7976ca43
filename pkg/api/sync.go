package api

import (
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/api/resource"
	"github.com/IDM-desaive/formbricks/pkg/sync"
)

func (h *Handler) handleSync(c echo.Context) error {
	r := &resource.SyncInput{}
	if err := c.Bind(r); err != nil {
		return badRequestResponse(c, "Fields are missing or incorrectly formatted", nil)
	}

	if details := resource.ValidateSyncInput(r); len(details) > 0 {
		return badRequestResponse(c, "Fields are missing or incorrectly formatted", details)
	}

	state, err := h.engine.GetUpdatedState(r.EnvironmentID, r.PersonID, r.SessionID, r.JsVersion, r.UserID, r.UserAttributes)
	if err != nil {
		return h.mapSyncError(c, err)
	}

	return successResponse(c, resource.NewStateEnvelope(state))
}

// mapSyncError translates engine errors into the uniform error body
func (h *Handler) mapSyncError(c echo.Context, err error) error {
	switch {
	case err == sync.ErrEnvironmentNotFound, err == sync.ErrProductNotFound:
		return notFoundResponse(c, err.Error())
	case sync.IsQuotaExceeded(err):
		return tooManyRequestsResponse(c, err.Error())
	default:
		log.Errorf("sync request failed: %v", err)
		return internalServerErrorResponse(c, err.Error())
	}
}
