// Package apperr defines the errors the services surface to callers and the
// echo error handler that renders them.
package apperr

import "fmt"

// NotFoundError reports that an appointment, patient or doctor does not exist.
// Message is already localized for the caller.
type NotFoundError struct {
	Key     string
	ID      int64
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %d", e.Key, e.ID)
}

// NotFound builds a NotFoundError with an already resolved message.
func NotFound(key string, id int64, message string) *NotFoundError {
	return &NotFoundError{Key: key, ID: id, Message: message}
}

// ValidationError carries per-field messages for a rejected request body.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// UpstreamError wraps a failure talking to another service.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
