package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nmoreau/access-portal-be/internal/models"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// Claims defines the session token claims. The token is only half of a
// session: SessionID must still resolve against the Store.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens signs and validates session tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token signer. ttl bounds the token lifetime and should
// match the session store's TTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Generate creates a signed token binding the session ID to the user.
func (t *Tokens) Generate(sessionID string, user models.User) (string, error) {
	claims := &Claims{
		SessionID: sessionID,
		UserID:    user.ID,
		Username:  user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses and verifies a token string.
func (t *Tokens) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
