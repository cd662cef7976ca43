package jsclient

import "fmt"

// NetworkError reports a failed request against the sync API. It carries
// the server's error message so callers can surface it to the embedding
// application.
type NetworkError struct {
	Status          int
	URL             string
	Message         string
	ResponseMessage string
}

func (e *NetworkError) Error() string {
	if e.ResponseMessage != "" {
		return fmt.Sprintf("%s: %s returned status %d: %s", e.Message, e.URL, e.Status, e.ResponseMessage)
	}
	return fmt.Sprintf("%s: %s returned status %d", e.Message, e.URL, e.Status)
}

// MissingPersonError is returned when an operation requires a synced
// person but the client holds no state yet.
type MissingPersonError struct {
	Message string
}

func (e *MissingPersonError) Error() string {
	return e.Message
}

// AttributeAlreadyExistsError is returned when the userId would be
// rebound to a different value. The binding is one-way; callers have to
// reset the client first.
type AttributeAlreadyExistsError struct {
	Message string
}

func (e *AttributeAlreadyExistsError) Error() string {
	return e.Message
}
