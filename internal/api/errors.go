package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

var (
	// ErrUnauthorized matches any 401 response
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches any 404 response
	ErrNotFound = errors.New("not found")
	// ErrConflict matches any 409 response
	ErrConflict = errors.New("conflict")
)

// Error is a non-2xx response from the admin API
type Error struct {
	Status    int
	Message   string
	Details   string
	RequestID string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Details != "" {
		return fmt.Sprintf("api: %d %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Is maps status codes onto the package sentinels
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

// Message returns the server-supplied message carried by err, or fallback
// when err is not an API error or the server sent none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// newError builds an Error from a response body. JSON envelopes supply
// error and details; any other short body becomes the message verbatim.
func newError(status int, body []byte, requestID string) *Error {
	e := &Error{Status: status, RequestID: requestID}

	var envelope models.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		e.Message = envelope.Error
		e.Details = envelope.Details
		return e
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 0 && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		e.Message = text
	}
	return e
}
