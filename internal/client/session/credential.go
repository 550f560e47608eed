package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the bearer token issued at login plus the email it belongs to.
type Credential struct {
	Token string
	Email string
}

// ExpiresAt reads the "exp" claim when the token is a JWT. The signature is
// not verified: the value is for display only and the server stays the
// authority on expiry. ok is false for opaque tokens or tokens without exp.
func (c Credential) ExpiresAt() (t time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
