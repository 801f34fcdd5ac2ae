package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nmoreau/access-portal-be/internal/auth"
	"github.com/nmoreau/access-portal-be/internal/services"
)

// defaultAvatar is served when a user has not uploaded a picture.
const defaultAvatar = "https://via.placeholder.com/100"

// avatarURL maps a stored filename onto the public uploads path.
func avatarURL(pic string) string {
	if pic == "" {
		return defaultAvatar
	}
	return "uploads/" + pic
}

// DashboardHandler serves the signed-in user's profile summary.
type DashboardHandler struct {
	service services.UserServiceProvider
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service services.UserServiceProvider) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get returns the read-only projection for the current identity.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	profile, err := h.service.Profile(identity.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", identity.UserID).Msg("Failed to load dashboard profile")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	profile.ProfilePic = avatarURL(profile.ProfilePic)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
