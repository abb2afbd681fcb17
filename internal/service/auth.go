package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
	"github.com/smartsupplypro/inventory-api/internal/ports"
)

// ErrMissingClaims is returned when the identity provider did not supply the
// mandatory email and name claims. This is a hard precondition of
// provisioning: the login is rejected, not defaulted.
var ErrMissingClaims = errors.New("identity provider did not return email and name")

var errSessionExpired = errors.New("session expired")

const defaultSessionTTLCap = 8 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Users    ports.UserStore
	Roles    ports.RoleMapper

	// SessionTTLCap bounds session lifetime regardless of provider token
	// expiry. Defaults to 8h when zero.
	SessionTTLCap time.Duration
}

// AuthService orchestrates authentication flows: provider round trip, user
// provisioning, role mapping, and session persistence. The user store is the
// only shared mutable resource it touches, and all writes to it happen here.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	users    ports.UserStore
	roles    ports.RoleMapper

	sessionTTLCap time.Duration
	now           func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttlCap := opts.SessionTTLCap
	if ttlCap <= 0 {
		ttlCap = defaultSessionTTLCap
	}
	return &AuthService{
		provider:      opts.Provider,
		sessions:      opts.Sessions,
		users:         opts.Users,
		roles:         opts.Roles,
		sessionTTLCap: ttlCap,
		now:           time.Now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth
// URL with state and nonce for the caller to persist in the
// authorization-request cookie.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
	User    domainauth.User
}

// CompleteLogin completes an authentication flow. Per login attempt the steps
// run strictly in order: code exchange, claims validation, lookup, create or
// race-resolve, session establishment. No step is skipped or reordered.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	user, err := s.provisionUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	session := domainauth.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		ExpiresAt: s.sessionExpiry(identity),
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session, User: user}, nil
}

// provisionUser looks up or creates the local identity record for the given
// claims. Invoked once per successful external login; idempotent under
// concurrent duplicate inserts.
func (s *AuthService) provisionUser(ctx context.Context, identity domainauth.Identity) (domainauth.User, error) {
	if identity.Email == "" || identity.Name == "" {
		return domainauth.User{}, ErrMissingClaims
	}

	desired := s.roles.Map(identity.Email)

	user, err := s.users.FindByEmail(ctx, identity.Email)
	switch {
	case errors.Is(err, ports.ErrUserNotFound):
		// First login: create with the mapped role. A losing racer gets the
		// winner's record back from the store instead of an error.
		result, createErr := s.users.Create(ctx, domainauth.User{
			Email:     identity.Email,
			Name:      identity.Name,
			Role:      desired,
			CreatedAt: s.now().UTC(),
		})
		if createErr != nil {
			return domainauth.User{}, fmt.Errorf("provision user: %w", createErr)
		}
		user = result.User
	case err != nil:
		return domainauth.User{}, fmt.Errorf("look up user: %w", err)
	}

	// Heal the role if the admin allow-list changed since last login.
	if user.Role != desired {
		if updateErr := s.users.UpdateRole(ctx, user.ID, desired); updateErr != nil {
			return domainauth.User{}, fmt.Errorf("update user role: %w", updateErr)
		}
		user.Role = desired
	}

	return user, nil
}

// sessionExpiry bounds the session by the provider token expiry and the
// configured cap, whichever is sooner.
func (s *AuthService) sessionExpiry(identity domainauth.Identity) time.Time {
	capped := s.now().Add(s.sessionTTLCap)
	if identity.ExpiresAt.IsZero() || identity.ExpiresAt.After(capped) {
		return capped
	}
	return identity.ExpiresAt
}

// GetSession retrieves a session by ID, deleting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// UserCount returns the number of registered users.
func (s *AuthService) UserCount(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// Logout removes a session. An empty session ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
