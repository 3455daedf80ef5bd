package handlers

import (
	"context"
	"errors"
	"net/http"

	"geminipocket/internal/middleware"
	"geminipocket/internal/providers/genai"
)

const apiKeyMissingMessage = "API key not configured"

// providerError writes the failure envelope for an upstream call and records
// the error category.
func (a *App) providerError(w http.ResponseWriter, r *http.Request, call string, err error) {
	if errors.Is(err, genai.ErrNoAPIKey) {
		a.Metrics.ProviderCall(call, "not_configured")
		a.Logger.Error().Str("call", call).Msg("gemini api key not configured")
		a.error(w, http.StatusInternalServerError, apiKeyMissingMessage)
		return
	}
	if errors.Is(err, context.Canceled) {
		a.Metrics.ProviderCall(call, "canceled")
		a.error(w, statusClientClosedRequest, "Request canceled")
		return
	}

	category := genai.CategoryOf(err)
	a.Metrics.ProviderCall(call, string(category))
	a.Logger.Warn().
		Err(err).
		Str("call", call).
		Str("category", string(category)).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("provider call failed")
	a.error(w, statusForCategory(category), genai.UserMessage(err))
}

// nginx's convention for a client that went away mid-request.
const statusClientClosedRequest = 499

func statusForCategory(c genai.Category) int {
	switch c {
	case genai.CategoryRateLimited:
		return http.StatusTooManyRequests
	case genai.CategoryInvalidRequest:
		return http.StatusBadRequest
	case genai.CategoryTransport:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
