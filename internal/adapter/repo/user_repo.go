package repo

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"geminipocket/internal/domain"
	"geminipocket/internal/infra"
	"geminipocket/internal/sqlinline"
)

const (
	apiKeyPrefix      = "gp_"
	minPasswordLength = 6
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql  infra.SQLExecutor
	cost int
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql, cost: bcrypt.DefaultCost}
}

// Register creates an account with a freshly issued API key.
func (r *UserRepositoryPG) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidRequest, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password is too long", domain.ErrInvalidRequest)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser, email, string(hash), NewAPIKey())
	user, err := scanUser(row)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// Login checks the password and returns the account with its API key.
func (r *UserRepositoryPG) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// GetByAPIKey resolves the account owning apiKey.
func (r *UserRepositoryPG) GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByAPIKey, apiKey))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// NewAPIKey returns a random bearer key, "gp_" followed by 32 hex digits.
func NewAPIKey() string {
	return apiKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidRequest)
	}
	return email, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.APIKey, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
