package model

import (
	"encoding/json"
	"time"
)

// Survey statuses
const (
	SurveyStatusDraft      = "draft"
	SurveyStatusInProgress = "inProgress"
	SurveyStatusPaused     = "paused"
	SurveyStatusCompleted  = "completed"
)

// Survey types
const (
	SurveyTypeWeb  = "web"
	SurveyTypeLink = "link"
)

// Survey is a model of the persistency layer. Questions and triggers are
// stored as opaque JSON documents; the sync service only reads the fields
// needed for filtering and passes the rest through to the client.
type Survey struct {
	ID            string          `json:"id"`
	EnvironmentID string          `json:"environmentId"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Questions     json.RawMessage `json:"questions"`
	Triggers      json.RawMessage `json:"triggers"`
	DisplayOption string          `json:"displayOption"`
	RecontactDays *int            `json:"recontactDays"`
	AutoClose     *int            `json:"autoClose"`
	Delay         int             `json:"delay"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
