package cache

import "fmt"

// Cache key builders. Keys double as invalidation tags: every write path
// invalidates the keys of the entities it touched.

func SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func PersonKey(personID string) string {
	return fmt.Sprintf("person:%s", personID)
}

func AttributeClassKey(environmentID, name string) string {
	return fmt.Sprintf("attributeClass:%s:%s", environmentID, name)
}

func EnvironmentKey(environmentID string) string {
	return fmt.Sprintf("environment:%s", environmentID)
}

func ProductKey(environmentID string) string {
	return fmt.Sprintf("product:%s", environmentID)
}

func SurveysKey(environmentID, personID string) string {
	return fmt.Sprintf("surveys:%s:%s", environmentID, personID)
}

func ActionClassesKey(environmentID string) string {
	return fmt.Sprintf("actionClasses:%s", environmentID)
}
