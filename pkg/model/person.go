package model

import "time"

// Person is a model of the persistency layer. A person is either persisted
// (a row in the people table) or transient (a snapshot embedded in a
// session, see Session.TransPerson). EnvironmentID is empty on transient
// snapshots because the snapshot lives inside an environment-scoped session.
type Person struct {
	ID            string            `json:"id"`
	EnvironmentID string            `json:"environmentId,omitempty"`
	Attributes    map[string]string `json:"attributes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTransientPerson mints a fresh person snapshot with the given id and no
// attributes. The snapshot is not durable until it is embedded in a session.
func NewTransientPerson(id string) *Person {
	now := time.Now().Round(time.Second).UTC()
	return &Person{
		ID:         id,
		Attributes: make(map[string]string),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
