package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"evcharge/backend/services/reservations-service/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewUserLoginHandler handles POST /api/user/login.
func NewUserLoginHandler(identity *service.IdentityService) http.HandlerFunc {
	type response struct {
		Token string            `json:"token"`
		User  map[string]string `json:"user"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		token, err := identity.LoginUser(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrBadCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to login")
			return
		}

		writeJSON(w, http.StatusOK, response{
			Token: token,
			User:  map[string]string{"email": req.Email},
		})
	}
}

// NewAdminLoginHandler handles POST /api/admin/login.
func NewAdminLoginHandler(identity *service.IdentityService) http.HandlerFunc {
	type response struct {
		Token string            `json:"token"`
		Admin map[string]string `json:"admin"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		token, err := identity.LoginAdmin(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrBadCredentials) {
				writeError(w, http.StatusUnauthorized, "admin authentication failed")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to login")
			return
		}

		writeJSON(w, http.StatusOK, response{
			Token: token,
			Admin: map[string]string{"email": strings.ToLower(strings.TrimSpace(req.Email))},
		})
	}
}
