package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInactiveAccount  = errors.New("inactive account")
	ErrSimulatedFailure = errors.New("simulated service failure")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnexpected       = errors.New("unexpected failure")

	ErrKeyNotFound = errors.New("key not found")
)

// APIError is the declared failure returned by every Mock API operation.
// Kind is one of the sentinel errors above; Message is user facing.
type APIError struct {
	Kind    error
	Message string
}

func NewAPIError(kind error, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// AsAPIError returns err as an *APIError. Errors that are not already
// declared failures are downgraded to ErrUnexpected carrying err's message.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	return &APIError{Kind: ErrUnexpected, Message: err.Error()}
}
