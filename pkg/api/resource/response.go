package resource

import (
	"github.com/IDM-desaive/formbricks/pkg/model"
)

// ResponseInput is the payload of the create response operation
type ResponseInput struct {
	SurveyID string                 `json:"surveyId"`
	PersonID string                 `json:"personId,omitempty"`
	Finished bool                   `json:"finished"`
	Data     map[string]interface{} `json:"data"`
	Meta     ResponseMetaInput      `json:"meta,omitempty"`
}

// ResponseMetaInput carries the client supplied request context
type ResponseMetaInput struct {
	URL string `json:"url,omitempty"`
}

// ValidateResponseInput validates the create response payload. It returns
// a map of invalid fields with detailed error messages.
func ValidateResponseInput(r *ResponseInput) map[string]string {
	details := make(map[string]string)

	if r.SurveyID == "" {
		details["surveyId"] = "cannot be blank"
	}
	if r.Data == nil {
		details["data"] = "cannot be blank"
	}

	return details
}

// ResponseModel converts the payload into a persistency layer model.
func ResponseModel(r *ResponseInput, meta model.ResponseMeta) *model.Response {
	m := &model.Response{
		SurveyID: r.SurveyID,
		Finished: r.Finished,
		Data:     r.Data,
		Meta:     meta,
	}

	if r.PersonID != "" {
		personID := r.PersonID
		m.PersonID = &personID
	}

	return m
}
