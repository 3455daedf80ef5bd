package relayclient

import (
	"errors"
	"fmt"
)

// ErrPollTimeout is returned when a poll loop exceeds its configured attempt
// count or wall-clock budget before the operation settles.
var ErrPollTimeout = errors.New("relayclient: timed out waiting for operation")

// APIError is a non-2xx answer from the relay.
type APIError struct {
	// HTTPStatus is the relay response status code.
	HTTPStatus int

	// Message is the envelope error text, empty when the body was not an envelope.
	Message string

	// Body holds the raw response when no envelope could be decoded.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API request failed with status %d: %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("API request failed with status %d", e.HTTPStatus)
}

// IsUnauthorized reports whether the relay rejected the API key.
func (e *APIError) IsUnauthorized() bool {
	return e.HTTPStatus == 401
}

// IsRateLimit reports whether the relay or the provider throttled the call.
func (e *APIError) IsRateLimit() bool {
	return e.HTTPStatus == 429
}

// AsAPIError extracts *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GenerationError is a failure the relay or the provider reported for a job.
type GenerationError struct {
	Operation string
	Message   string
	Err       error
}

func (e *GenerationError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("generation failed (operation %s): %s", e.Operation, e.Message)
	}
	return "generation failed: " + e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PollError is a transport or decode failure while checking an operation.
// The poll loop treats it as terminal.
type PollError struct {
	Operation string
	Attempt   int
	Err       error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("polling operation %s failed on attempt %d: %v", e.Operation, e.Attempt, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// RetrievalError is a failure fetching a finished artifact from the provider.
type RetrievalError struct {
	URI        string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s failed with status %d", e.URI, e.StatusCode)
	}
	return fmt.Sprintf("download %s failed: %v", e.URI, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// generationFailure turns a relay rejection into a GenerationError when the
// relay explained itself, leaving other failures untouched.
func generationFailure(operation string, err error) error {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return &GenerationError{Operation: operation, Message: apiErr.Message, Err: err}
	}
	return err
}
