package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"geminipocket/internal/domain"
	"geminipocket/internal/infra"
)

type userKey string

const (
	userIDKey userKey = "user_id"
)

// UserLookup resolves the account that owns a bearer API key.
type UserLookup interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
}

// APIKeyAuth rejects requests without a valid "Authorization: Bearer <key>"
// header before they reach a handler.
func APIKeyAuth(users UserLookup, logger infra.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
				return
			}
			user, err := users.GetByAPIKey(r.Context(), key)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					writeError(w, http.StatusUnauthorized, "Invalid API key")
					return
				}
				logger.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("auth: lookup failed")
				writeError(w, http.StatusInternalServerError, "Authentication unavailable")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), user.ID)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
