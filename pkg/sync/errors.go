package sync

import "fmt"

type engineError string

func (e engineError) Error() string {
	return string(e)
}

// Sentinel errors surfaced to the HTTP boundary as not-found conditions.
const (
	ErrEnvironmentNotFound = engineError("environment does not exist")
	ErrProductNotFound     = engineError("product not found")
)

// QuotaExceededError is returned when the monthly active people ceiling is
// reached and the request would admit net-new activity.
type QuotaExceededError struct {
	EnvironmentID string
	Count         int
	Limit         int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly active users limit reached in %s (%d/%d)", e.EnvironmentID, e.Count, e.Limit)
}

// IsQuotaExceeded reports whether err is a QuotaExceededError
func IsQuotaExceeded(err error) bool {
	_, ok := err.(*QuotaExceededError)
	return ok
}
