package resource

import "github.com/IDM-desaive/formbricks/pkg/model"

// SyncInput is the request body of the sync endpoint
type SyncInput struct {
	EnvironmentID  string            `json:"environmentId"`
	PersonID       string            `json:"personId"`
	SessionID      string            `json:"sessionId"`
	JsVersion      string            `json:"jsVersion"`
	UserID         string            `json:"userId"`
	UserAttributes map[string]string `json:"userAttributes"`
}

// ValidateSyncInput returns field-level validation details, empty on success
func ValidateSyncInput(r *SyncInput) map[string]string {
	details := make(map[string]string)
	if r.EnvironmentID == "" {
		details["environmentId"] = "required"
	}

	return details
}

// StateEnvelope wraps the assembled state bundle for the sync response
type StateEnvelope struct {
	Data *model.JsState `json:"data"`
}

// NewStateEnvelope wraps a state bundle
func NewStateEnvelope(state *model.JsState) *StateEnvelope {
	return &StateEnvelope{Data: state}
}
