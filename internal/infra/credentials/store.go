package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"geminipocket/internal/infra"
	"geminipocket/internal/sqlinline"
)

const (
	ProviderGemini = "gemini"
)

// Store reads and writes upstream provider credentials kept in
// integration_tokens.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

// Token returns the stored token for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string, props map[string]any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("gemini api key is required")
	}
	return s.upsert(ctx, ProviderGemini, key, props)
}

// GeminiKeySource resolves the Gemini key on every call, preferring the
// stored token and falling back to the given environment value. A database
// error is only returned when there is no fallback to use.
func (s *Store) GeminiKeySource(fallback string, logger infra.Logger) func(context.Context) (string, error) {
	fallback = strings.TrimSpace(fallback)
	return func(ctx context.Context) (string, error) {
		key, err := s.GeminiAPIKey(ctx)
		if err != nil {
			if fallback == "" {
				return "", err
			}
			logger.Warn().Err(err).Msg("credentials: lookup failed, using GEMINI_API_KEY")
			return fallback, nil
		}
		if key != "" {
			return key, nil
		}
		return fallback, nil
	}
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
