package model

import "time"

// Product is a model of the persistency layer. It carries the widget
// configuration the client needs to render surveys.
type Product struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TeamID            string `json:"teamId"`
	BrandColor        string `json:"brandColor"`
	RecontactDays     int    `json:"recontactDays"`
	Placement         string `json:"placement"`
	ClickOutsideClose bool   `json:"clickOutsideClose"`
	DarkOverlay       bool   `json:"darkOverlay"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
