package memory

import "github.com/IDM-desaive/formbricks/pkg/storage"

// Store contains all memory-based sub-stores for managing the persistent models
type store struct {
	persons       *personStore
	sessions      *sessionStore
	classes       *attributeClassStore
	attributes    *attributeStore
	environments  *environmentStore
	products      *productStore
	surveys       *surveyStore
	actionClasses *actionClassStore
	responses     *responseStore
}

// NewStore creates a new memory-based Storage interface
func NewStore() storage.Interface {
	classStore := newAttributeClassStore()
	attributeStore := newAttributeStore()
	sessionStore := newSessionStore()
	environmentStore := newEnvironmentStore()

	return &store{
		persons:       newPersonStore(sessionStore, classStore, attributeStore),
		sessions:      sessionStore,
		classes:       classStore,
		attributes:    attributeStore,
		environments:  environmentStore,
		products:      newProductStore(environmentStore),
		surveys:       newSurveyStore(),
		actionClasses: newActionClassStore(),
		responses:     newResponseStore(),
	}
}

// Persons returns a sub-store for managing the Person model
func (s *store) Persons() storage.PersonStore {
	return s.persons
}

// Sessions returns a sub-store for managing the Session model
func (s *store) Sessions() storage.SessionStore {
	return s.sessions
}

// AttributeClasses returns a sub-store for managing the AttributeClass model
func (s *store) AttributeClasses() storage.AttributeClassStore {
	return s.classes
}

// Attributes returns a sub-store for managing the Attribute model
func (s *store) Attributes() storage.AttributeStore {
	return s.attributes
}

// Environments returns a sub-store for managing the Environment model
func (s *store) Environments() storage.EnvironmentStore {
	return s.environments
}

// Products returns a sub-store for managing the Product model
func (s *store) Products() storage.ProductStore {
	return s.products
}

// Surveys returns a sub-store for managing the Survey model
func (s *store) Surveys() storage.SurveyStore {
	return s.surveys
}

// ActionClasses returns a sub-store for managing the ActionClass model
func (s *store) ActionClasses() storage.ActionClassStore {
	return s.actionClasses
}

// Responses returns a sub-store for managing the Response model
func (s *store) Responses() storage.ResponseStore {
	return s.responses
}
