package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
	"github.com/smartsupplypro/inventory-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.UserStore    = (*MemoryUserStore)(nil)
	_ ports.RoleMapper   = (*StaticRoleMapper)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL  string
	Identity domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		Identity: domainauth.Identity{
			Email:     "mock.user@example.com",
			Name:      "Mock User",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	state := fmt.Sprintf("state-%d", n)
	nonce := fmt.Sprintf("nonce-%d", n)
	return m.AuthURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	identity := m.Identity
	if identity.ExpiresAt.IsZero() {
		identity.ExpiresAt = time.Now().Add(time.Hour)
	}
	return identity, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
var ErrNotFound = errors.New("not found")

// MemoryUserStore is an in-memory user store enforcing email uniqueness the
// way a database unique index does: a losing concurrent insert gets the
// winner's record back with AlreadyExisted set, never an error.
type MemoryUserStore struct {
	mu      sync.Mutex
	byEmail map[string]domainauth.User

	// FindBarrier, when set, runs before each lookup so tests can hold all
	// concurrent logins at the not-found observation, widening the race
	// window between lookup and insert.
	FindBarrier func()
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: make(map[string]domainauth.User)}
}

func (m *MemoryUserStore) FindByEmail(_ context.Context, email string) (domainauth.User, error) {
	if barrier := m.FindBarrier; barrier != nil {
		barrier()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	return user, nil
}

func (m *MemoryUserStore) Create(_ context.Context, user domainauth.User) (ports.CreateUserResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(user.Email)
	if existing, ok := m.byEmail[key]; ok {
		return ports.CreateUserResult{User: existing, AlreadyExisted: true}, nil
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	m.byEmail[key] = user
	return ports.CreateUserResult{User: user}, nil
}

func (m *MemoryUserStore) UpdateRole(_ context.Context, id string, role domainauth.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, user := range m.byEmail {
		if user.ID == id {
			user.Role = role
			m.byEmail[key] = user
			return nil
		}
	}
	return ports.ErrUserNotFound
}

func (m *MemoryUserStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byEmail)), nil
}

// StaticRoleMapper grants RoleAdmin to emails on the allow-list, RoleUser to
// everyone else. Mirrors the production mapper without config plumbing.
type StaticRoleMapper struct {
	AdminEmails []string
}

func (m StaticRoleMapper) Map(email string) domainauth.Role {
	for _, admin := range m.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), strings.TrimSpace(email)) {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleUser
}
