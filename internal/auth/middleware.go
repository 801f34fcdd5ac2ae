package auth

import (
	"context"
	"net/http"
)

// Identity is the authenticated user attached to a request context.
type Identity struct {
	UserID   int64
	Username string
}

type contextKey string

// IdentityKey is the context key for the resolved identity.
const IdentityKey = contextKey("identity")

// IdentityFrom extracts the authenticated identity from a request context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok
}

// RequireSession protects routes behind a live session. An unresolved token
// is "no session": the caller is redirected to /login, never handed an error.
func RequireSession(tokens *Tokens, store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			claims, err := tokens.Validate(cookie.Value)
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			// The signature only proves the cookie is ours; the session
			// must still be live server-side.
			userID, ok := store.Resolve(claims.SessionID)
			if !ok || userID != claims.UserID {
				redirectToLogin(w, r)
				return
			}

			identity := Identity{UserID: userID, Username: claims.Username}
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
