package config

import "strings"

// AppBehaviorConfig controls frontend integration and application behavior.
// All fields carry the APP_ prefix.
type AppBehaviorConfig struct {
	// FrontendBaseURL is where the single-page frontend is served from;
	// post-login and error redirects land there.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:5173"`

	// FrontendLandingPath is appended to FrontendBaseURL after a successful
	// login when no explicit return target was requested.
	FrontendLandingPath string `env:"FRONTEND_LANDING_PATH" envDefault:"/dashboard"`

	// DemoReadonly opens the read-only API surface to anonymous visitors.
	// Mutations stay authenticated regardless.
	DemoReadonly bool `env:"DEMO_READONLY" envDefault:"false"`

	// AllowedReturnOrigins is the allow-list for ?return= post-login
	// redirect overrides.
	AllowedReturnOrigins []string `env:"ALLOWED_RETURN_ORIGINS" envSeparator:","`
}

// Sanitize applies guardrails to application behavior configuration.
func (a *AppBehaviorConfig) Sanitize() {
	a.FrontendBaseURL = strings.TrimRight(a.FrontendBaseURL, "/")
	if a.FrontendLandingPath == "" {
		a.FrontendLandingPath = "/"
	}
	if !strings.HasPrefix(a.FrontendLandingPath, "/") {
		a.FrontendLandingPath = "/" + a.FrontendLandingPath
	}
	// The frontend itself is always a valid return origin.
	if len(a.AllowedReturnOrigins) == 0 && a.FrontendBaseURL != "" {
		a.AllowedReturnOrigins = []string{a.FrontendBaseURL}
	}
}
