package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MatheusCastilhos/guardiao-backend/internal/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected JSON body with username and password")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_body", "username and password are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "weak_password", "password must have at least 8 characters")
		return
	}

	user, err := s.authStore.Register(r.Context(), username, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			respondError(w, http.StatusConflict, "user_exists", "username is already taken")
			return
		}
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	token, err := s.authStore.IssueToken(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, tokenResponse{Token: token, Username: user.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected JSON body with username and password")
		return
	}

	user, err := s.authStore.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "username or password is wrong")
			return
		}
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	token, err := s.authStore.IssueToken(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Token: token, Username: user.Username})
}
