package handlers

import (
	"errors"
	"net/http"
	"strings"

	"geminipocket/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (c *credentialsRequest) trim() {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

type authResponse struct {
	Success bool   `json:"success"`
	APIKey  string `json:"api_key"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}
	user, err := a.Users.Register(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrDuplicateEmail):
		a.error(w, http.StatusConflict, "User already exists")
		return
	case errors.Is(err, domain.ErrInvalidRequest):
		a.error(w, http.StatusBadRequest, invalidBodyMessage)
		return
	default:
		a.Logger.Error().Err(err).Msg("register failed")
		a.error(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	a.Logger.Info().Str("user_id", user.ID).Msg("user registered")
	a.json(w, http.StatusOK, authResponse{Success: true, APIKey: user.APIKey})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}
	user, err := a.Users.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	default:
		a.Logger.Error().Err(err).Msg("login failed")
		a.error(w, http.StatusInternalServerError, "Login failed")
		return
	}
	a.json(w, http.StatusOK, authResponse{Success: true, APIKey: user.APIKey})
}
