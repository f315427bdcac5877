package rest

import (
	"errors"
	"fmt"
	"strings"

	"tour_admin/internal/transport/rest/dto"
)

// ErrUnauthorized is returned for a 401, or when there is no usable token.
// The client never acts on it; the session manager decides what happens next.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError is a 422 from the backend with per-field messages.
type ValidationError struct {
	Message string
	Fields  dto.FieldLists
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	return "validation failed: " + e.Flatten()
}

// First returns the first message of every field, one line per field.
func (e *ValidationError) First() []string {
	out := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields.Fields() {
		if msgs := e.Fields[field]; len(msgs) > 0 {
			out = append(out, fmt.Sprintf("%s: %s", field, msgs[0]))
		}
	}
	return out
}

// Flatten joins every message of every field into one string.
func (e *ValidationError) Flatten() string {
	var msgs []string
	for _, field := range e.Fields.Fields() {
		msgs = append(msgs, e.Fields[field]...)
	}
	return strings.Join(msgs, ", ")
}

// APIError is any other non-2xx answer.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
