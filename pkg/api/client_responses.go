package api

import (
	"github.com/labstack/echo"
	ua "github.com/mileusna/useragent"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/api/resource"
	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
	"github.com/IDM-desaive/formbricks/pkg/telemetry"
)

func (h *Handler) handleCreateResponse(c echo.Context) error {
	r := &resource.ResponseInput{}
	if err := c.Bind(r); err != nil {
		return badRequestResponse(c, "Fields are missing or incorrectly formatted", nil)
	}

	if details := resource.ValidateResponseInput(r); len(details) > 0 {
		return badRequestResponse(c, "Fields are missing or incorrectly formatted", details)
	}

	survey, err := h.store.Surveys().FindByID(r.SurveyID)
	if err == storage.ErrNotFound {
		return badRequestResponse(c, "survey not found", nil)
	}
	if err != nil {
		return internalServerErrorResponse(c, err.Error())
	}

	// Submitting a response confirms identity: a still-transient person is
	// persisted now, replaying its snapshot attributes.
	if r.PersonID != "" {
		existing, err := h.persons.GetCached(r.PersonID)
		if err != nil {
			return internalServerErrorResponse(c, err.Error())
		}
		if existing == nil {
			if _, err := h.persons.Promote(survey.EnvironmentID, r.PersonID); err != nil {
				log.Errorf("failed to persist person %s: %v", r.PersonID, err)
				return internalServerErrorResponse(c, err.Error())
			}
		}
	}

	agent := ua.Parse(c.Request().UserAgent())
	response := resource.ResponseModel(r, model.ResponseMeta{
		URL: r.Meta.URL,
		UserAgent: model.ResponseUserAgent{
			Browser: agent.Name,
			Device:  agent.Device,
			OS:      agent.OS,
		},
	})

	if err := h.store.Responses().Create(response); err != nil {
		return internalServerErrorResponse(c, err.Error())
	}

	h.telemetry.SendToPipeline(telemetry.PipelineEvent{
		Event:         telemetry.EventResponseCreated,
		EnvironmentID: survey.EnvironmentID,
		SurveyID:      response.SurveyID,
		Response:      response,
	})

	if response.Finished {
		h.telemetry.SendToPipeline(telemetry.PipelineEvent{
			Event:         telemetry.EventResponseFinished,
			EnvironmentID: survey.EnvironmentID,
			SurveyID:      response.SurveyID,
			Response:      response,
		})
	}

	if product, err := h.store.Products().FindByEnvironmentID(survey.EnvironmentID); err == nil {
		h.telemetry.CaptureAnalytics(product.TeamID, "response created", product.TeamID, map[string]interface{}{
			"surveyId":   response.SurveyID,
			"surveyType": survey.Type,
		})
	} else {
		log.Warn("analytics capture not possible, no product found for environment")
	}

	return successResponse(c, response)
}
