package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/service"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// tokenResponse is the RFC 6749 section 5.1 success body. user_id and email
// are extra parameters the client stores alongside the token.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

// oauthError is the RFC 6749 section 5.2 error body.
type oauthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, domain.ServerErrorBody{Error: "Invalid JSON in request body", Details: err.Error()})
		return
	}

	u, err := s.auth.SignUp(r.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, domain.ServerErrorBody{Error: "An account with this email already exists"})
		return
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, domain.ServerErrorBody{Error: "Invalid email address"})
		return
	case errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, domain.ServerErrorBody{Error: "Password must be at least 8 characters"})
		return
	case err != nil:
		s.logger.Error("sign-up failed", "error", err)
		writeError(w, http.StatusInternalServerError, domain.ServerErrorBody{Error: "Internal server error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{ID: u.ID, Email: u.Email})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_request", Description: err.Error()})
		return
	}

	var (
		pair *service.TokenPair
		err  error
	)
	switch grant := r.PostForm.Get("grant_type"); grant {
	case "password":
		username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
		if username == "" || password == "" {
			writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_request", Description: "username and password are required"})
			return
		}
		pair, err = s.auth.PasswordGrant(r.Context(), username, password)
	case "refresh_token":
		refresh := r.PostForm.Get("refresh_token")
		if refresh == "" {
			writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_request", Description: "refresh_token is required"})
			return
		}
		pair, err = s.auth.RefreshGrant(r.Context(), refresh)
	default:
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "unsupported_grant_type", Description: grant})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_grant", Description: "Incorrect email or password"})
		return
	case errors.Is(err, service.ErrInvalidToken):
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_grant", Description: "Refresh token is invalid or expired"})
		return
	case err != nil:
		s.logger.Error("token grant failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, oauthError{Error: "server_error"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
		UserID:       pair.User.ID,
		Email:        pair.User.Email,
	})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())
	if err := s.auth.SignOut(r.Context(), u.ID); err != nil {
		s.logger.Error("sign-out failed", "user_id", u.ID, "error", err)
		writeError(w, http.StatusInternalServerError, domain.ServerErrorBody{Error: "Internal server error", Message: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, userResponse{ID: u.ID, Email: u.Email})
}
