package model

import "time"

// Environment is a model of the persistency layer
type Environment struct {
	ID                   string `json:"id"`
	ProductID            string `json:"productId"`
	Type                 string `json:"type"`
	WidgetSetupCompleted bool   `json:"widgetSetupCompleted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
