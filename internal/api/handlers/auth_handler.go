package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nmoreau/access-portal-be/internal/auth"
	"github.com/nmoreau/access-portal-be/internal/services"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	service services.UserServiceProvider
	store   *auth.Store
	tokens  *auth.Tokens
	ttl     time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, store *auth.Store, tokens *auth.Tokens, ttl time.Duration) *AuthHandler {
	return &AuthHandler{service: service, store: store, tokens: tokens, ttl: ttl}
}

// LoginForm serves the login page data: just the pending notice, if any.
// Rendering is the frontend's concern.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"flash": popFlash(w, r)})
}

// Login validates submitted credentials, establishes a session and redirects
// to the dashboard. Unknown user and wrong password get the same answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", username).Msg("Failed authentication attempt")
			setFlash(w, "Invalid credentials. Please try again.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		log.Error().Err(err).Msg("Authentication lookup failed")
		http.Error(w, "Login unavailable", http.StatusInternalServerError)
		return
	}

	sessionID := h.store.Create(user.ID)
	token, err := h.tokens.Generate(sessionID, user)
	if err != nil {
		h.store.Destroy(sessionID)
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to sign session token")
		http.Error(w, "Login unavailable", http.StatusInternalServerError)
		return
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.ttl),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	setFlash(w, "Login successful!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout destroys the current session and clears the cookie. Logging out an
// already-dead session is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if claims, err := h.tokens.Validate(cookie.Value); err == nil {
			h.store.Destroy(claims.SessionID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	setFlash(w, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
