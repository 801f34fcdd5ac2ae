package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nmoreau/access-portal-be/internal/auth"
	"github.com/nmoreau/access-portal-be/internal/services"
	"github.com/nmoreau/access-portal-be/internal/uploads"
)

// maxUploadBytes bounds how much of a multipart body is held in memory.
const maxUploadBytes = 8 << 20

// ProfileHandler handles viewing and editing the current user's profile.
type ProfileHandler struct {
	service services.UserServiceProvider
	avatars *uploads.Store
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service services.UserServiceProvider, avatars *uploads.Store) *ProfileHandler {
	return &ProfileHandler{service: service, avatars: avatars}
}

// Show returns the edit-form data: the current profile plus any pending
// notice from a previous submit.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	profile, err := h.service.Profile(identity.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", identity.UserID).Msg("Failed to load profile")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	profile.ProfilePic = avatarURL(profile.ProfilePic)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"profile": profile,
		"flash":   popFlash(w, r),
	})
}

// Update applies a partial profile edit. Blank username/password fields keep
// their current values. A disallowed avatar upload is ignored without
// failing the rest of the edit, matching the established behavior the
// frontend relies on.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	update := services.ProfileUpdate{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if file, header, err := r.FormFile("profile_pic"); err == nil {
		defer file.Close()
		name, err := h.avatars.Save(file, header.Filename)
		switch {
		case err == nil:
			update.Avatar = name
		case errors.Is(err, uploads.ErrUnsupportedFileType):
			log.Warn().Str("filename", header.Filename).Int64("user_id", identity.UserID).
				Msg("Ignoring avatar upload with disallowed extension")
		default:
			log.Error().Err(err).Int64("user_id", identity.UserID).Msg("Failed to store avatar")
			setFlash(w, "Failed to update profile. Please try again.")
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
			return
		}
	}

	if err := h.service.UpdateProfile(identity.UserID, update); err != nil {
		log.Error().Err(err).Int64("user_id", identity.UserID).Msg("Failed to update profile")
		setFlash(w, "Failed to update profile. Please try again.")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	setFlash(w, "Profile updated successfully!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
