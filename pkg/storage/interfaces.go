package storage

import (
	"time"

	"github.com/IDM-desaive/formbricks/pkg/model"
)

// Interface is implemented by the storage
type Interface interface {
	Persons() PersonStore
	Sessions() SessionStore
	AttributeClasses() AttributeClassStore
	Attributes() AttributeStore
	Environments() EnvironmentStore
	Products() ProductStore
	Surveys() SurveyStore
	ActionClasses() ActionClassStore
	Responses() ResponseStore
}

// PersonStore is responsible for managing the Person model. FindByID and
// FindByUserID return the person with its attribute map loaded.
type PersonStore interface {
	FindByID(id string) (*model.Person, error)
	FindByUserID(environmentID, userID string) (*model.Person, error)
	Create(m *model.Person) error
	CountMonthlyActive(environmentID string, since time.Time) (int, error)
}

// SessionStore is responsible for managing the Session model
type SessionStore interface {
	FindByID(id string) (*model.Session, error)
	FindByTransientPersonID(personID string) (*model.Session, error)
	Create(m *model.Session) error
	Update(m *model.Session) error
}

// AttributeClassStore is responsible for managing the AttributeClass model.
// Create is idempotent on (environmentID, name): a concurrent first-use of
// the same key yields the already existing class instead of an error.
type AttributeClassStore interface {
	FindByName(environmentID, name string) (*model.AttributeClass, error)
	Create(m *model.AttributeClass) error
}

// AttributeStore is responsible for managing the Attribute model. Upsert is
// keyed on the unique (AttributeClassID, PersonID) pair.
type AttributeStore interface {
	Upsert(m *model.Attribute) error
	FindByPersonID(personID string) ([]model.Attribute, error)
}

// EnvironmentStore is responsible for managing the Environment model
type EnvironmentStore interface {
	FindByID(id string) (*model.Environment, error)
	Create(m *model.Environment) error
}

// ProductStore is responsible for managing the Product model. The lookup by
// environment follows the environment's product reference.
type ProductStore interface {
	FindByEnvironmentID(environmentID string) (*model.Product, error)
	Create(m *model.Product) error
}

// SurveyStore is responsible for managing the Survey model
type SurveyStore interface {
	FindByID(id string) (*model.Survey, error)
	FindByEnvironmentID(environmentID string) ([]model.Survey, error)
	Create(m *model.Survey) error
}

// ActionClassStore is responsible for managing the ActionClass model
type ActionClassStore interface {
	FindByEnvironmentID(environmentID string) ([]model.ActionClass, error)
	Create(m *model.ActionClass) error
}

// ResponseStore is responsible for managing the Response model
type ResponseStore interface {
	Create(m *model.Response) error
}
