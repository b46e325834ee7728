package core

import "github.com/pkg/errors"

var (
	// ErrForbidden is returned when the authenticated user may not perform an action.
	ErrForbidden = errors.New("forbidden")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ProviderError wraps failures of third party services (LLM, email...).
type ProviderError struct {
	Provider string
	Err      error
}

func NewProviderError(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}

func (err ProviderError) Error() string {
	if err.Err == nil {
		return err.Provider + ": provider error"
	}
	return err.Provider + ": " + err.Err.Error()
}

func IsProviderError(err error) bool {
	_, ok := errors.Cause(err).(*ProviderError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
