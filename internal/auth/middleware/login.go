package auth

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-quiz/internal/logger"
)

// LoginOptions controls who may obtain a token from /auth/login.
type LoginOptions struct {
	AdminUser     string
	AdminPassHash string // bcrypt
	// EnableLocal lets any username log in as a regular user when the
	// password equals the username. Offline/dev only.
	EnableLocal bool
}

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *AuthService, opts LoginOptions, log *logger.Logger) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Role        string `json:"role"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		role := ""
		switch {
		case req.Username == "":
		case req.Username == opts.AdminUser && opts.AdminPassHash != "":
			if bcrypt.CompareHashAndPassword([]byte(opts.AdminPassHash), []byte(req.Password)) == nil {
				role = RoleAdmin
			}
		case opts.EnableLocal && req.Password == req.Username:
			role = RoleUser
		}
		if role == "" {
			log.Warn("login rejected", "username", req.Username)
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tok, err := a.IssueJWT(req.Username, role)
		if err != nil {
			log.Error("issue token", "error", err)
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, TokenType: "Bearer", Role: role})
	}
}
