package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleFromToken reads the role claim from a bearer token without verifying
// its signature; the backend remains the authority on every request. ok is
// false when the token is malformed, carries no known role, or has expired.
func RoleFromToken(token string, now time.Time) (Role, bool) {
	if token == "" {
		return RoleUnknown, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return RoleUnknown, false
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !now.Before(exp.Time) {
		return RoleUnknown, false
	}

	raw, _ := claims["role"].(string)
	role := ParseRole(raw)
	return role, role != RoleUnknown
}
