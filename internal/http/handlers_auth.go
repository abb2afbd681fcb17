package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/smartsupplypro/inventory-api/internal/adapters/cookiereq"
	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
	"github.com/smartsupplypro/inventory-api/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlersOptions groups configuration for AuthHandlers.
type AuthHandlersOptions struct {
	Svc      AuthServiceInterface
	Requests *cookiereq.Store

	// Provider is the only accepted {provider} path value, e.g. "google".
	Provider string

	// PublicBaseURL is this service's externally visible base URL, used to
	// build the OAuth redirect URL.
	PublicBaseURL string

	// FrontendBaseURL and FrontendLandingPath form the default post-login
	// destination and the target of error redirects.
	FrontendBaseURL     string
	FrontendLandingPath string

	// AllowedReturnOrigins is the allow-list for the optional ?return=
	// override of the post-login destination.
	AllowedReturnOrigins []string

	CookieDomain string
	Logger       *slog.Logger
}

// AuthHandlers provides HTTP handlers for the login round trip.
type AuthHandlers struct {
	opts AuthHandlersOptions
}

// NewAuthHandlers constructs AuthHandlers.
func NewAuthHandlers(opts AuthHandlersOptions) *AuthHandlers {
	if opts.FrontendLandingPath == "" {
		opts.FrontendLandingPath = "/"
	}
	return &AuthHandlers{opts: opts}
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.opts.Logger != nil {
		return h.opts.Logger
	}
	return slog.Default()
}

// Login handles login initiation.
// GET /oauth2/authorization/{provider}?return=<optional_absolute_url>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("provider") != h.opts.Provider {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "unknown_provider",
			Err:     errors.New("unknown identity provider"),
		})
		return
	}

	// An explicit return target overrides the configured landing page, but
	// only when its origin is on the allow-list. Anything else is dropped
	// silently; the login still proceeds.
	if target := r.URL.Query().Get("return"); target != "" {
		if h.returnTargetAllowed(target) {
			h.opts.Requests.SaveReturnTarget(w, target)
		} else {
			h.logger().Warn("rejected return target", slog.String("target", target))
		}
	}

	result, err := h.opts.Svc.BeginLogin(r.Context(), h.redirectURL())
	if err != nil {
		h.logger().Error("begin login", slog.Any("error", err))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	err = h.opts.Requests.Save(w, domainauth.AuthRequest{
		State:       result.State,
		Nonce:       result.Nonce,
		RedirectURI: h.redirectURL(),
	})
	if err != nil {
		h.logger().Error("save authorization request", slog.Any("error", err))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the provider redirect back.
// GET /login/oauth2/code/{provider}?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("provider") != h.opts.Provider {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "unknown_provider",
			Err:     errors.New("unknown identity provider"),
		})
		return
	}

	// Provider-reported errors (user cancelled consent, etc.) land on the
	// frontend login page, never on a bare API error.
	if provErr := r.URL.Query().Get("error"); provErr != "" {
		h.logger().Warn("provider returned error", slog.String("error", provErr))
		h.opts.Requests.Clear(w)
		h.redirectWithError(w, r, "oauth2_"+provErr)
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		h.redirectWithError(w, r, "invalid_callback")
		return
	}

	stored, err := h.opts.Requests.Load(r)
	if err != nil || stored.State != state {
		// Missing, expired, tampered, or mismatched: the flow cannot be
		// trusted, so it starts over.
		h.opts.Requests.Clear(w)
		h.redirectWithError(w, r, "invalid_state")
		return
	}
	h.opts.Requests.Clear(w)

	result, err := h.opts.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: stored.Nonce,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingClaims) {
			h.redirectWithError(w, r, "missing_claims")
			return
		}
		h.logger().Error("complete login", slog.Any("error", err))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	h.setSessionCookie(w, result.Session)

	http.Redirect(w, r, h.postLoginRedirect(w, r), http.StatusFound)
}

// Logout handles POST /auth/logout. API clients get 204; browsers get a 302
// to the frontend landing page.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if logoutErr := h.opts.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().Warn("logout failed", slog.Any("error", logoutErr))
		}
	}
	h.clearSessionCookie(w)

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, h.opts.FrontendBaseURL+"/", http.StatusFound)
}

// Me returns the authenticated principal.
// GET /api/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"userId": session.UserID,
		"email":  session.Email,
		"name":   session.Name,
		"role":   session.Role,
	})
}

func (h *AuthHandlers) redirectURL() string {
	return strings.TrimRight(h.opts.PublicBaseURL, "/") + "/login/oauth2/code/" + h.opts.Provider
}

// postLoginRedirect resolves the destination after a successful login: the
// one-shot return target when present, otherwise the configured frontend
// landing page. The return cookie is consumed either way.
func (h *AuthHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	if target, ok := h.opts.Requests.LoadReturnTarget(r); ok {
		h.opts.Requests.ClearReturnTarget(w)
		if h.returnTargetAllowed(target) {
			return target
		}
	}
	return strings.TrimRight(h.opts.FrontendBaseURL, "/") + h.opts.FrontendLandingPath
}

func (h *AuthHandlers) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	u := strings.TrimRight(h.opts.FrontendBaseURL, "/") + "/login?error=" + url.QueryEscape(code)
	http.Redirect(w, r, u, http.StatusFound)
}

// returnTargetAllowed accepts absolute URLs whose origin is allow-listed.
func (h *AuthHandlers) returnTargetAllowed(target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	origin := u.Scheme + "://" + u.Host
	return originAllowed(h.opts.AllowedReturnOrigins, origin)
}

// setSessionCookie writes the session cookie. Secure is always set: the
// cookie is SameSite=None for the cross-site frontend, and browsers drop
// SameSite=None cookies that are not Secure.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, session domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.opts.CookieDomain,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.opts.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
