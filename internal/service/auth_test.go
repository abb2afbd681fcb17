package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
	mockauth "github.com/smartsupplypro/inventory-api/internal/mocks/auth"
	"github.com/smartsupplypro/inventory-api/internal/ports"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockauth.MockAuthProvider, *mockauth.MemorySessionStore, *mockauth.MemoryUserStore) {
	t.Helper()

	provider := mockauth.NewMockAuthProvider()
	sessions := mockauth.NewMemorySessionStore()
	users := mockauth.NewMemoryUserStore()

	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Users:    users,
		Roles:    mockauth.StaticRoleMapper{AdminEmails: []string{"admin@example.com"}},
	})

	return svc, provider, sessions, users
}

func TestBeginLogin(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	result, err := svc.BeginLogin(context.Background(), "https://app.example.com/login/oauth2/code/google")
	require.NoError(t, err)

	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.NotEmpty(t, result.State)
	assert.NotEmpty(t, result.Nonce)
}

func TestBeginLoginRequiresRedirectURL(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.BeginLogin(context.Background(), "")
	require.Error(t, err)
}

func TestCompleteLoginProvisionsFirstTimeUser(t *testing.T) {
	svc, provider, sessions, users := newTestAuthService(t)
	provider.Identity = domainauth.Identity{
		Email:     "alice@example.com",
		Name:      "Alice Smith",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state", Nonce: "nonce",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, "Alice Smith", result.User.Name)
	assert.Equal(t, domainauth.RoleUser, result.User.Role)
	assert.NotEmpty(t, result.User.ID)

	// Session persisted and bound to the user.
	require.Equal(t, 1, sessions.Len())
	sess, err := sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, sess.UserID)
	assert.Equal(t, domainauth.RoleUser, sess.Role)

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCompleteLoginIsIdempotentAcrossLogins(t *testing.T) {
	svc, provider, _, users := newTestAuthService(t)
	provider.Identity = domainauth.Identity{
		Email:     "alice@example.com",
		Name:      "Alice Smith",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	first, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "s1", Nonce: "n1",
	})
	require.NoError(t, err)

	second, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "s2", Nonce: "n2",
	})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "repeat login must not create a second record")
}

func TestCompleteLoginMatchesEmailCaseInsensitively(t *testing.T) {
	svc, provider, _, users := newTestAuthService(t)
	provider.Identity = domainauth.Identity{
		Email:     "Alice@Example.com",
		Name:      "Alice Smith",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	first, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "s1", Nonce: "n1",
	})
	require.NoError(t, err)

	// The provider reports the same identity with different casing next time.
	provider.Identity.Email = "alice@example.com"

	second, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "s2", Nonce: "n2",
	})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "casing variants of one address must share one record")
}

func TestCompleteLoginGrantsAdminFromAllowList(t *testing.T) {
	svc, provider, _, _ := newTestAuthService(t)
	provider.Identity = domainauth.Identity{
		Email:     "admin@example.com",
		Name:      "Site Admin",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state", Nonce: "nonce",
	})
	require.NoError(t, err)

	assert.Equal(t, domainauth.RoleAdmin, result.User.Role)
	assert.Equal(t, domainauth.RoleAdmin, result.Session.Role)
}

func TestCompleteLoginRejectsMissingClaims(t *testing.T) {
	tests := []struct {
		name     string
		identity domainauth.Identity
	}{
		{"missing email", domainauth.Identity{Name: "No Email"}},
		{"missing name", domainauth.Identity{Email: "noname@example.com"}},
		{"missing both", domainauth.Identity{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, provider, sessions, users := newTestAuthService(t)
			provider.Identity = tt.identity

			_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
				Code: "code", State: "state", Nonce: "nonce",
			})
			require.ErrorIs(t, err, ErrMissingClaims)

			// Rejection must leave no trace.
			count, err := users.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
			assert.Zero(t, sessions.Len())
		})
	}
}

func TestCompleteLoginValidatesInput(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{State: "s", Nonce: "n"})
	require.Error(t, err)

	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", Nonce: "n"})
	require.Error(t, err)

	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s"})
	require.Error(t, err)
}

func TestCompleteLoginExchangeFailure(t *testing.T) {
	svc, provider, _, users := newTestAuthService(t)
	provider.ExchangeFunc = func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("token endpoint unavailable")
	}

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state", Nonce: "nonce",
	})
	require.Error(t, err)

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCompleteLoginConcurrentFirstLoginCreatesOneRecord(t *testing.T) {
	const workers = 16

	svc, provider, _, users := newTestAuthService(t)
	provider.Identity = domainauth.Identity{
		Email:     "alice@example.com",
		Name:      "Alice Smith",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	// Hold every worker at the lookup until all of them have arrived, so each
	// one observes "no record" and attempts the create.
	var barrier sync.WaitGroup
	barrier.Add(workers)
	users.FindBarrier = func() {
		barrier.Done()
		barrier.Wait()
	}

	var g errgroup.Group
	ids := make([]string, workers)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
				Code: "code", State: "state", Nonce: "nonce",
			})
			if err != nil {
				return err
			}
			ids[i] = result.User.ID
			return nil
		})
	}
	require.NoError(t, g.Wait(), "every concurrent login must succeed")

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "concurrent first logins must produce exactly one record")

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id, "every login must resolve to the same record")
	}
}

func TestCompleteLoginHealsRoleWhenAllowListChanges(t *testing.T) {
	provider := mockauth.NewMockAuthProvider()
	provider.Identity = domainauth.Identity{
		Email:     "alice@example.com",
		Name:      "Alice Smith",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	sessions := mockauth.NewMemorySessionStore()
	users := mockauth.NewMemoryUserStore()

	asUser := NewAuthService(AuthServiceOptions{
		Provider: provider, Sessions: sessions, Users: users,
		Roles: mockauth.StaticRoleMapper{},
	})
	first, err := asUser.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "s1", Nonce: "n1",
	})
	require.NoError(t, err)
	require.Equal(t, domainauth.RoleUser, first.User.Role)

	// Operator adds alice to the allow-list; her next login upgrades the
	// stored record in place.
	asAdmin := NewAuthService(AuthServiceOptions{
		Provider: provider, Sessions: sessions, Users: users,
		Roles: mockauth.StaticRoleMapper{AdminEmails: []string{"alice@example.com"}},
	})
	second, err := asAdmin.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "s2", Nonce: "n2",
	})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, domainauth.RoleAdmin, second.User.Role)

	stored, err := users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, stored.Role)
}

func TestSessionExpiryCappedByConfiguredTTL(t *testing.T) {
	provider := mockauth.NewMockAuthProvider()
	provider.Identity = domainauth.Identity{
		Email:     "alice@example.com",
		Name:      "Alice Smith",
		ExpiresAt: time.Now().Add(72 * time.Hour),
	}

	svc := NewAuthService(AuthServiceOptions{
		Provider:      provider,
		Sessions:      mockauth.NewMemorySessionStore(),
		Users:         mockauth.NewMemoryUserStore(),
		Roles:         mockauth.StaticRoleMapper{},
		SessionTTLCap: time.Hour,
	})

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state", Nonce: "nonce",
	})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(time.Hour), result.Session.ExpiresAt, 5*time.Second)
}

func TestGetSessionExpiredIsDeleted(t *testing.T) {
	svc, _, sessions, _ := newTestAuthService(t)

	sess := domainauth.Session{
		ID:        "expired-session",
		UserID:    "user-1",
		Email:     "alice@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, sessions.Save(context.Background(), sess))

	_, err := svc.GetSession(context.Background(), "expired-session")
	require.Error(t, err)

	assert.Zero(t, sessions.Len(), "expired session must be removed on read")
}

func TestLogout(t *testing.T) {
	svc, provider, sessions, _ := newTestAuthService(t)
	provider.Identity = domainauth.Identity{
		Email:     "alice@example.com",
		Name:      "Alice Smith",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state", Nonce: "nonce",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Session.ID))
	assert.Zero(t, sessions.Len())

	// Logging out with no session is a no-op.
	require.NoError(t, svc.Logout(context.Background(), ""))
}
