package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Category is the stable, user-facing classification of a provider failure.
type Category string

const (
	CategoryRateLimited         Category = "rate_limited"
	CategoryPermissionDenied    Category = "permission_denied"
	CategoryInvalidRequest      Category = "invalid_request"
	CategoryProviderUnavailable Category = "provider_unavailable"
	CategoryUnknown             Category = "unknown"
	CategoryTransport           Category = "transport"
	CategoryProtocol            Category = "protocol"
)

const maxRawBody = 512

// Error is a failed provider call. Every non-2xx response maps to exactly one
// Category; transport and protocol failures carry their own categories.
type Error struct {
	// HTTPStatus is the provider response status, zero for transport failures.
	HTTPStatus int
	// Code and Status come from the provider error envelope when present.
	Code    int
	Status  string
	Message string
	// Body is the raw (truncated) response body kept for diagnostics.
	Body     string
	Category Category

	err error
}

func (e *Error) Error() string {
	switch e.Category {
	case CategoryTransport:
		return fmt.Sprintf("genai: transport: %v", e.err)
	case CategoryProtocol:
		return "genai: protocol: " + e.Message
	}
	if e.Status != "" {
		return fmt.Sprintf("genai: status %d %s: %s", e.HTTPStatus, e.Status, e.Message)
	}
	return fmt.Sprintf("genai: status %d: %s", e.HTTPStatus, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// UserMessage is the message returned to relay callers for this category.
func (e *Error) UserMessage() string {
	switch e.Category {
	case CategoryRateLimited:
		return "Rate limit or quota exceeded, try again later"
	case CategoryPermissionDenied:
		return "Permission denied, check credentials"
	case CategoryInvalidRequest:
		if e.Message != "" {
			return e.Message
		}
		return "Invalid request"
	case CategoryProviderUnavailable:
		return "Provider error, try again later"
	case CategoryTransport:
		return "Provider unreachable, try again later"
	case CategoryProtocol:
		return e.Message
	default:
		body := e.Body
		if body == "" {
			body = e.Message
		}
		return fmt.Sprintf("Provider request failed (status %d): %s", e.HTTPStatus, body)
	}
}

func (e *Error) IsRateLimit() bool        { return e.Category == CategoryRateLimited }
func (e *Error) IsPermissionDenied() bool { return e.Category == CategoryPermissionDenied }
func (e *Error) IsInvalidRequest() bool   { return e.Category == CategoryInvalidRequest }
func (e *Error) IsServerError() bool      { return e.Category == CategoryProviderUnavailable }

// Retryable reports whether the same request may succeed later.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError() || e.Category == CategoryTransport
}

// AsError extracts *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// UserMessage returns the caller-facing message for any error produced by this
// package, falling back to err.Error() for foreign errors.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := AsError(err); ok {
		return e.UserMessage()
	}
	return err.Error()
}

// CategoryOf returns the category of err, or CategoryUnknown.
func CategoryOf(err error) Category {
	if e, ok := AsError(err); ok {
		return e.Category
	}
	return CategoryUnknown
}

type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Classify builds the Error for a non-2xx provider response. The envelope's
// canonical status wins over the HTTP status when it is one we recognise.
func Classify(httpStatus int, body []byte) *Error {
	e := &Error{HTTPStatus: httpStatus, Body: truncate(strings.TrimSpace(string(body)))}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		e.Code = env.Error.Code
		e.Status = env.Error.Status
		e.Message = env.Error.Message
	}
	if e.Message == "" {
		e.Message = http.StatusText(httpStatus)
	}

	if c, ok := categoryForStatus(e.Status); ok {
		e.Category = c
		return e
	}
	e.Category = categoryForHTTP(httpStatus)
	return e
}

func categoryForStatus(status string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "RESOURCE_EXHAUSTED":
		return CategoryRateLimited, true
	case "PERMISSION_DENIED", "UNAUTHENTICATED":
		return CategoryPermissionDenied, true
	case "INVALID_ARGUMENT", "FAILED_PRECONDITION", "OUT_OF_RANGE":
		return CategoryInvalidRequest, true
	case "INTERNAL", "UNAVAILABLE", "DEADLINE_EXCEEDED":
		return CategoryProviderUnavailable, true
	}
	return "", false
}

func categoryForHTTP(status int) Category {
	switch {
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryPermissionDenied
	case status == http.StatusBadRequest:
		return CategoryInvalidRequest
	case status >= 500 && status <= 599:
		return CategoryProviderUnavailable
	default:
		return CategoryUnknown
	}
}

func transportError(err error) *Error {
	return &Error{Category: CategoryTransport, Message: err.Error(), err: err}
}

func protocolError(format string, args ...any) *Error {
	return &Error{Category: CategoryProtocol, Message: fmt.Sprintf(format, args...)}
}

func truncate(s string) string {
	if len(s) <= maxRawBody {
		return s
	}
	cut := maxRawBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
