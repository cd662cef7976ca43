package model

import (
	"encoding/json"
	"time"
)

// Action class types
const (
	ActionTypeCode      = "code"
	ActionTypeNoCode    = "noCode"
	ActionTypeAutomatic = "automatic"
)

// ActionClass is a model of the persistency layer. Classes of type noCode
// carry a selector configuration evaluated by the client widget.
type ActionClass struct {
	ID            string          `json:"id"`
	EnvironmentID string          `json:"environmentId"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Type          string          `json:"type"`
	NoCodeConfig  json.RawMessage `json:"noCodeConfig"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
