package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nmoreau/access-portal-be/internal/api/handlers"
	"github.com/nmoreau/access-portal-be/internal/auth"
	"github.com/nmoreau/access-portal-be/internal/services"
	"github.com/nmoreau/access-portal-be/internal/uploads"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider, store *auth.Store, tokens *auth.Tokens, avatars *uploads.Store, sessionTTL time.Duration) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, store, tokens, sessionTTL)
	dashboardHandler := handlers.NewDashboardHandler(userService)
	profileHandler := handlers.NewProfileHandler(userService, avatars)

	// Public routes
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)

	// Uploaded avatars, served by sanitized filename
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(avatars.Dir()))))

	// Session-gated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(tokens, store))

		r.Get("/dashboard", dashboardHandler.Get)
		r.Get("/logout", authHandler.Logout)
		r.Get("/profile", profileHandler.Show)
		r.Post("/profile", profileHandler.Update)
	})

	return r
}
