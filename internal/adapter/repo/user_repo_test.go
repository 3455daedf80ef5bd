package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"geminipocket/internal/domain"
	"geminipocket/internal/sqlinline"
)

type stubExecutor struct {
	user    *domain.User
	err     error
	queries []string
	args    [][]any
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not implemented")
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.queries = append(s.queries, query)
	s.args = append(s.args, args)
	if s.err != nil {
		return stubRow{err: s.err}
	}
	if query == sqlinline.QInsertUser {
		now := time.Now()
		return stubRow{user: &domain.User{
			ID:           "5f0e0f0e-0000-4000-8000-000000000001",
			Email:        args[0].(string),
			PasswordHash: args[1].(string),
			APIKey:       args[2].(string),
			CreatedAt:    now,
			UpdatedAt:    now,
		}}
	}
	if s.user == nil {
		return stubRow{err: pgx.ErrNoRows}
	}
	return stubRow{user: s.user}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	user *domain.User
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 6 {
		return errors.New("unexpected dest count")
	}
	*dest[0].(*string) = r.user.ID
	*dest[1].(*string) = r.user.Email
	*dest[2].(*string) = r.user.PasswordHash
	*dest[3].(*string) = r.user.APIKey
	*dest[4].(*time.Time) = r.user.CreatedAt
	*dest[5].(*time.Time) = r.user.UpdatedAt
	return nil
}

func newRepo(exec *stubExecutor) *UserRepositoryPG {
	r := NewUserRepository(exec)
	r.cost = bcrypt.MinCost
	return r
}

func TestRegisterHashesPasswordAndIssuesKey(t *testing.T) {
	exec := &stubExecutor{}
	user, err := newRepo(exec).Register(context.Background(), " Alice@Example.com ", "hunter22")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("Email = %q", user.Email)
	}
	if user.PasswordHash == "hunter22" {
		t.Fatal("password stored in clear text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
	if !strings.HasPrefix(user.APIKey, "gp_") || len(user.APIKey) != 35 {
		t.Fatalf("APIKey = %q", user.APIKey)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	exec := &stubExecutor{err: &pgconn.PgError{Code: "23505"}}
	_, err := newRepo(exec).Register(context.Background(), "alice@example.com", "hunter22")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	tests := []struct {
		email, password string
	}{
		{"not-an-email", "hunter22"},
		{"Bob <bob@example.com>", "hunter22"},
		{"bob@example.com", "123"},
	}
	for _, tt := range tests {
		exec := &stubExecutor{}
		_, err := newRepo(exec).Register(context.Background(), tt.email, tt.password)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("Register(%q) err = %v, want ErrInvalidRequest", tt.email, err)
		}
		if len(exec.queries) != 0 {
			t.Fatalf("Register(%q) touched the database", tt.email)
		}
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stored := &domain.User{ID: "u1", Email: "alice@example.com", PasswordHash: string(hash), APIKey: "gp_abc"}

	user, err := newRepo(&stubExecutor{user: stored}).Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.APIKey != "gp_abc" {
		t.Fatalf("APIKey = %q", user.APIKey)
	}

	if _, err := newRepo(&stubExecutor{user: stored}).Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := newRepo(&stubExecutor{}).Login(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestGetByAPIKey(t *testing.T) {
	stored := &domain.User{ID: "u1", Email: "alice@example.com", APIKey: "gp_abc"}
	user, err := newRepo(&stubExecutor{user: stored}).GetByAPIKey(context.Background(), "gp_abc")
	if err != nil || user.ID != "u1" {
		t.Fatalf("GetByAPIKey = %+v, %v", user, err)
	}
	if _, err := newRepo(&stubExecutor{}).GetByAPIKey(context.Background(), "gp_missing"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("missing key err = %v", err)
	}
	exec := &stubExecutor{}
	if _, err := newRepo(exec).GetByAPIKey(context.Background(), " "); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("blank key err = %v", err)
	}
	if len(exec.queries) != 0 {
		t.Fatal("blank key touched the database")
	}
}

func TestDatabaseErrorsPropagate(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := newRepo(&stubExecutor{err: boom}).GetByAPIKey(context.Background(), "gp_abc")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
