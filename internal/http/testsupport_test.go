package httpx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartsupplypro/inventory-api/internal/adapters/cookiereq"
	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
	"github.com/smartsupplypro/inventory-api/internal/service"
)

// fakeAuthService is an in-memory AuthServiceInterface for handler tests.
type fakeAuthService struct {
	sessions map[string]domainauth.Session

	beginResult   *service.BeginLoginResult
	beginErr      error
	completeInput *service.CompleteLoginInput
	completeFn    func(input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{sessions: make(map[string]domainauth.Session)}
}

func (f *fakeAuthService) BeginLogin(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	if f.beginResult != nil {
		return f.beginResult, nil
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/auth?redirect_uri=" + redirectURL,
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (f *fakeAuthService) CompleteLogin(_ context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	f.completeInput = &input
	if f.completeFn != nil {
		return f.completeFn(input)
	}

	session := domainauth.Session{
		ID:        "session-1",
		UserID:    "user-1",
		Email:     "alice@example.com",
		Name:      "Alice Smith",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.sessions[session.ID] = session

	return &service.CompleteLoginResult{
		Session: session,
		User: domainauth.User{
			ID: session.UserID, Email: session.Email, Name: session.Name, Role: session.Role,
		},
	}, nil
}

func (f *fakeAuthService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("session not found")
	}
	return &session, nil
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeAuthService) addSession(t *testing.T, id string, role domainauth.Role) domainauth.Session {
	t.Helper()
	session := domainauth.Session{
		ID:        id,
		UserID:    "user-" + id,
		Email:     id + "@example.com",
		Name:      "Test " + id,
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.sessions[id] = session
	return session
}

func newTestRequestStore(t *testing.T) *cookiereq.Store {
	t.Helper()
	store, err := cookiereq.New(cookiereq.Config{Secret: []byte("test-secret-test-secret-32bytes!")})
	require.NoError(t, err)
	return store
}
