package model

import "time"

// Attribute class types. Classes created on first use of a new key through
// the SDK are always of type code.
const (
	AttributeTypeCode      = "code"
	AttributeTypeNoCode    = "noCode"
	AttributeTypeAutomatic = "automatic"
)

// AttributeClass is a model of the persistency layer. It declares an
// attribute key within an environment and is the foreign key target for
// every attribute value using that key.
type AttributeClass struct {
	ID            string
	EnvironmentID string
	Name          string
	Type          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attribute is a model of the persistency layer. A value is owned by the
// (AttributeClassID, PersonID) pair, which is unique.
type Attribute struct {
	ID               string
	AttributeClassID string
	PersonID         string
	Value            string

	CreatedAt time.Time
	UpdatedAt time.Time
}
