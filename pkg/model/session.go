package model

import "time"

// Session is a model of the persistency layer. A session is a renewable
// lease binding a visitor to a person. Exactly one of PersonID and
// TransPerson is set: PersonID when the session belongs to a persisted
// person, TransPerson when it embeds a transient snapshot instead.
type Session struct {
	ID          string    `json:"id"`
	PersonID    *string   `json:"personId"`
	TransPerson *Person   `json:"transPerson"`
	ExpiresAt   time.Time `json:"expiresAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
