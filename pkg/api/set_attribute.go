package api

import (
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/api/resource"
)

func (h *Handler) handleSetAttribute(c echo.Context) error {
	personID := c.Param("personId")

	r := &resource.AttributeInput{}
	if err := c.Bind(r); err != nil {
		return badRequestResponse(c, "Fields are missing or incorrectly formatted", nil)
	}

	if details := resource.ValidateAttributeInput(r); len(details) > 0 {
		return badRequestResponse(c, "Fields are missing or incorrectly formatted", details)
	}

	// For a transient person Set returns the updated session so the fresh
	// snapshot can be grafted into the assembled state below.
	sess, err := h.attributes.Set(r.EnvironmentID, r.SessionID, personID, r.Key, r.Value)
	if err != nil {
		log.Errorf("failed to set attribute %s for person %s: %v", r.Key, personID, err)
		return internalServerErrorResponse(c, err.Error())
	}

	state, err := h.engine.GetUpdatedState(r.EnvironmentID, personID, r.SessionID, "", "", nil)
	if err != nil {
		return h.mapSyncError(c, err)
	}

	if sess != nil {
		state.Session = sess
	}

	return successResponse(c, state)
}
