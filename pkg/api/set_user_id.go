package api

import (
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/api/resource"
)

// handleSetUserID binds a durable user id to the person cited in the path.
// A transient person is promoted to a persisted row first so the binding
// has something durable to attach to.
func (h *Handler) handleSetUserID(c echo.Context) error {
	personID := c.Param("personId")

	r := &resource.UserIDInput{}
	if err := c.Bind(r); err != nil {
		return badRequestResponse(c, "Fields are missing or incorrectly formatted", nil)
	}

	if details := resource.ValidateUserIDInput(r); len(details) > 0 {
		return badRequestResponse(c, "Fields are missing or incorrectly formatted", details)
	}

	existing, err := h.persons.GetCached(personID)
	if err != nil {
		return internalServerErrorResponse(c, err.Error())
	}

	if existing == nil {
		promoted, err := h.persons.Promote(r.EnvironmentID, personID)
		if err != nil {
			log.Errorf("failed to persist person %s: %v", personID, err)
			return internalServerErrorResponse(c, err.Error())
		}
		if promoted == nil {
			return badRequestResponse(c, "person not found", nil)
		}
	}

	if err := h.attributes.Upsert(r.EnvironmentID, personID, "userId", r.UserID); err != nil {
		log.Errorf("failed to set user id for person %s: %v", personID, err)
		return internalServerErrorResponse(c, err.Error())
	}

	state, err := h.engine.GetUpdatedState(r.EnvironmentID, personID, r.SessionID, "", "", nil)
	if err != nil {
		return h.mapSyncError(c, err)
	}

	return successResponse(c, state)
}
