package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/access-portal-be/internal/models"
)

func guardedEcho(t *testing.T, tokens *Tokens, store *Store) http.Handler {
	t.Helper()
	return RequireSession(tokens, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		w.Write([]byte(identity.Username))
	}))
}

func TestRequireSession_NoCookieRedirects(t *testing.T) {
	handler := guardedEcho(t, NewTokens("secret", time.Hour), NewStore(time.Hour))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireSession_ValidSessionInjectsIdentity(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	store := NewStore(time.Hour)
	handler := guardedEcho(t, tokens, store)

	sessionID := store.Create(1)
	tokenStr, err := tokens.Generate(sessionID, models.User{ID: 1, Username: "admin"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tokenStr})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}

func TestRequireSession_ReplayedCookieAfterLogout(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	store := NewStore(time.Hour)
	handler := guardedEcho(t, tokens, store)

	sessionID := store.Create(1)
	tokenStr, err := tokens.Generate(sessionID, models.User{ID: 1, Username: "admin"})
	require.NoError(t, err)

	store.Destroy(sessionID)

	// The signature is still valid, but the session is gone server-side.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tokenStr})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireSession_TamperedTokenRedirects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	store := NewStore(time.Hour)
	handler := guardedEcho(t, tokens, store)

	sessionID := store.Create(1)
	tokenStr, err := NewTokens("other-secret", time.Hour).Generate(sessionID, models.User{ID: 1, Username: "admin"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tokenStr})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
