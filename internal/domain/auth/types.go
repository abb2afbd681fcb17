package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Persisted in string form; values mirror the ROLE column in app_users.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string and reports whether it is supported.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if role.Valid() {
		return role, true
	}
	return "", false
}

// Identity represents the claims returned by the external identity provider
// after a successful code exchange. Adapters map provider-specific claims
// into this shape. Email is the stable external-identity key.
type Identity struct {
	Email     string
	Name      string
	ExpiresAt time.Time // absolute expiry from the provider token
}

// User is the locally persisted identity record, created on first login.
// Email is globally unique; exactly one record exists per external identity.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the server-side record referenced by the session cookie.
// ID is an opaque random identifier.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// AuthRequest is the transient, cookie-carried state of an in-flight
// authorization round trip to the external provider. It is created when a
// login is initiated and consumed exactly once on the provider callback.
type AuthRequest struct {
	State       string    `json:"state"`
	Nonce       string    `json:"nonce"`
	RedirectURI string    `json:"redirect_uri"`
	Scopes      []string  `json:"scopes,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the authorization request is past its expiry at now.
func (a AuthRequest) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}
