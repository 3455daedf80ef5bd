package genai

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClassifyIsTotal(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category Category
	}{
		{"429", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`, CategoryRateLimited},
		{"429 no envelope", http.StatusTooManyRequests, `slow down`, CategoryRateLimited},
		{"resource exhausted on 400", http.StatusBadRequest, `{"error":{"code":400,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`, CategoryRateLimited},
		{"403", http.StatusForbidden, `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`, CategoryPermissionDenied},
		{"401", http.StatusUnauthorized, ``, CategoryPermissionDenied},
		{"400", http.StatusBadRequest, `{"error":{"code":400,"message":"bad prompt","status":"INVALID_ARGUMENT"}}`, CategoryInvalidRequest},
		{"failed precondition", http.StatusBadRequest, `{"error":{"code":400,"message":"region","status":"FAILED_PRECONDITION"}}`, CategoryInvalidRequest},
		{"500", http.StatusInternalServerError, `{"error":{"code":500,"message":"oops","status":"INTERNAL"}}`, CategoryProviderUnavailable},
		{"503 html", http.StatusServiceUnavailable, `<html>down</html>`, CategoryProviderUnavailable},
		{"404", http.StatusNotFound, `not here`, CategoryUnknown},
		{"418 unknown status", http.StatusTeapot, `{"error":{"code":418,"message":"tea","status":"TEAPOT"}}`, CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.status, []byte(tt.body))
			if got.Category != tt.category {
				t.Fatalf("Category = %q, want %q", got.Category, tt.category)
			}
			if got.UserMessage() == "" {
				t.Fatal("UserMessage is empty")
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	body := []byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	first := Classify(http.StatusTooManyRequests, body)
	for i := 0; i < 5; i++ {
		next := Classify(http.StatusTooManyRequests, body)
		if next.Category != first.Category || next.UserMessage() != first.UserMessage() {
			t.Fatalf("classification changed between calls: %+v vs %+v", first, next)
		}
	}
	if first.UserMessage() != "Rate limit or quota exceeded, try again later" {
		t.Fatalf("UserMessage = %q", first.UserMessage())
	}
}

func TestUserMessagePassesInvalidRequestThrough(t *testing.T) {
	e := Classify(http.StatusBadRequest, []byte(`{"error":{"code":400,"message":"Prompt is too long","status":"INVALID_ARGUMENT"}}`))
	if e.UserMessage() != "Prompt is too long" {
		t.Fatalf("UserMessage = %q", e.UserMessage())
	}
}

func TestUserMessageUnknownIncludesRawBody(t *testing.T) {
	e := Classify(http.StatusConflict, []byte("conflicting op"))
	msg := e.UserMessage()
	if !strings.Contains(msg, "409") || !strings.Contains(msg, "conflicting op") {
		t.Fatalf("UserMessage = %q", msg)
	}
}

func TestClassifyTruncatesBody(t *testing.T) {
	e := Classify(http.StatusConflict, []byte(strings.Repeat("x", 2000)))
	if len(e.Body) > maxRawBody+3 {
		t.Fatalf("Body not truncated: %d bytes", len(e.Body))
	}
}

func TestClassifyTruncatesOnRuneBoundary(t *testing.T) {
	body := "x" + strings.Repeat("é", 600)
	e := Classify(http.StatusConflict, []byte(body))
	if !utf8.ValidString(e.Body) {
		t.Fatalf("Body split a rune: %q", e.Body[len(e.Body)-8:])
	}
	if !strings.HasSuffix(e.Body, "...") || len(e.Body) > maxRawBody+3 {
		t.Fatalf("Body not truncated: %d bytes", len(e.Body))
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	e := transportError(cause)
	if !errors.Is(e, cause) {
		t.Fatal("transport error does not unwrap to cause")
	}
	if !e.Retryable() {
		t.Fatal("transport error should be retryable")
	}
	if CategoryOf(e) != CategoryTransport {
		t.Fatalf("CategoryOf = %q", CategoryOf(e))
	}
}

func TestUserMessageForeignError(t *testing.T) {
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Fatalf("UserMessage = %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Fatalf("UserMessage(nil) = %q", got)
	}
}
