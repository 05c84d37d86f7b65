package console

import (
	"errors"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/api"
)

var (
	// ErrUserExists is returned when a username is already taken
	ErrUserExists = errors.New("user already exists")
	// ErrCancelled is returned when the operator declines a confirmation
	ErrCancelled = errors.New("cancelled")
	// ErrInvalidCredentials is returned when sign-in is refused
	ErrInvalidCredentials = errors.New("invalid login or password")
	// ErrCategoryNotFound is returned when editing a category missing from the loaded list
	ErrCategoryNotFound = errors.New("category not found")
	// ErrNoSelection is returned when confirming a picker with nothing selected
	ErrNoSelection = errors.New("no file selected")
)

// ValidationError is a form error found before any request is sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// RequestError is a failed API call. Message is the server's message or
// the operation's generic one.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func failure(err error, fallback string) error {
	return &RequestError{Message: api.Message(err, fallback), Err: err}
}
