package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/smartsupplypro/inventory-api/config"
	"github.com/smartsupplypro/inventory-api/internal/adapters/authroles"
	"github.com/smartsupplypro/inventory-api/internal/adapters/cookiereq"
	"github.com/smartsupplypro/inventory-api/internal/adapters/oidc"
	redisadapter "github.com/smartsupplypro/inventory-api/internal/adapters/redis"
	"github.com/smartsupplypro/inventory-api/internal/data"
	"github.com/smartsupplypro/inventory-api/internal/service"
)

// AuthConfig contains configuration for building the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	HTTP        config.HTTPConfig
	RedisClient redis.UniversalClient
	DB          *sql.DB
	Logger      *slog.Logger
}

// BuildAuthService wires the OIDC provider, redis session store, user
// repository, and role mapper into the auth service.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	oauth := cfg.Auth.OAuth
	if oauth.ClientID == "" || oauth.ClientSecret == "" {
		return nil, fmt.Errorf("oauth client credentials are required")
	}

	redirectURL := strings.TrimRight(cfg.HTTP.BaseURL, "/") + "/login/oauth2/code/" + oauth.Provider
	provider, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  redirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build OIDC provider: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:      provider,
		Sessions:      redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:"),
		Users:         data.NewUserRepo(cfg.DB),
		Roles:         authroles.StaticRoleMapper{AdminEmails: cfg.Auth.AdminEmails},
		SessionTTLCap: cfg.Auth.SessionTTL,
	}), nil
}

// BuildRequestStore constructs the signed authorization-request cookie store.
func BuildRequestStore(cfg config.AuthConfig) (*cookiereq.Store, error) {
	store, err := cookiereq.New(cookiereq.Config{
		Secret: []byte(cfg.CookieSecret),
		TTL:    cfg.AuthRequestTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("build request store: %w", err)
	}
	return store, nil
}
