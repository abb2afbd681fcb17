package config

import "time"

// OAuthConfig contains OAuth/OIDC configuration for the identity provider.
type OAuthConfig struct {
	// Provider is the path name of the provider, e.g. "google" in
	// /oauth2/authorization/google.
	Provider     string `env:"PROVIDER"      envDefault:"google"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL" envDefault:"https://accounts.google.com"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// OAuth configuration for the external identity provider.
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// AdminEmails is the allow-list of emails that map to the ADMIN role.
	AdminEmails []string `env:"APP_ADMIN_EMAILS" envSeparator:","`

	// CookieSecret keys the HMAC over the authorization-request cookie.
	// Rotating it invalidates logins in flight, nothing else.
	CookieSecret string `env:"APP_COOKIE_SECRET,required"`

	// AuthRequestTTL bounds the provider round trip.
	AuthRequestTTL time.Duration `env:"APP_AUTH_REQUEST_TTL" envDefault:"3m"`

	// SessionTTL caps session lifetime regardless of provider token expiry.
	SessionTTL time.Duration `env:"APP_SESSION_TTL" envDefault:"8h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.AuthRequestTTL <= 0 {
		a.AuthRequestTTL = 3 * time.Minute
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
}
