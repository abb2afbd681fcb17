package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration in
// internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
)

// ErrUserNotFound is returned by UserStore lookups when no identity record
// exists for the given key. Declared here so orchestration code does not
// depend on a concrete store implementation.
var ErrUserNotFound = errors.New("user not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the identity claims.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// CreateUserResult is the outcome of a user insert. When a concurrent first
// login won the insert race, AlreadyExisted is true and User carries the
// record that won; callers must treat both outcomes as success.
type CreateUserResult struct {
	User           domainauth.User
	AlreadyExisted bool
}

// UserStore persists identity records. Email is the unique external-identity
// key; the backing store must enforce uniqueness on it.
type UserStore interface {
	// FindByEmail returns the record for the given email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (domainauth.User, error)

	// Create inserts a new record. A uniqueness conflict is not an error:
	// the existing record is re-read and returned with AlreadyExisted set.
	Create(ctx context.Context, user domainauth.User) (CreateUserResult, error)

	// UpdateRole sets the role for an existing record.
	UpdateRole(ctx context.Context, id string, role domainauth.Role) error

	// Count returns the number of registered users.
	Count(ctx context.Context) (int64, error)
}

// RoleMapper decides the application role for an external identity.
type RoleMapper interface {
	Map(email string) domainauth.Role
}
