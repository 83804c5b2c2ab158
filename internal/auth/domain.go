package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inventox/inventox/internal/rbac"
)

// Account is the credential view of a user record consulted at login.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         rbac.Role
	IsActive     bool
}

// Claims is the signed token payload: subject, role and expiry.
type Claims struct {
	jwt.RegisteredClaims
	Role rbac.Role `json:"role"`
}

// LoginResult carries the minted credential back to the caller. The raw
// password and stored hash never appear here.
type LoginResult struct {
	Token     string
	Role      rbac.Role
	ExpiresAt time.Time
}
