package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/smartsupplypro/inventory-api/internal/authz"
	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
)

// SessionCookieName is the browser session cookie.
const SessionCookieName = "SESSION"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS returns a middleware that answers cross-origin requests from the
// configured frontend origins. Credentials are allowed because the session
// rides in a cookie.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(allowedOrigins, origin) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
				if r.Method == http.MethodOptions {
					h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, X-Requested-With")
					h.Set("Access-Control-Max-Age", "3600")
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimRight(a, "/"), strings.TrimRight(origin, "/")) {
			return true
		}
	}
	return false
}

// Authorize returns the middleware that gates every route through the rule
// table. It resolves the session cookie first, evaluates the table, and on
// Allow stores the session (when present) in the request context. Denials are
// answered by the entry point (unauthenticated) or with 403 (forbidden).
func Authorize(authSvc AuthServiceInterface, engine *authz.Engine, entry EntryPoint) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, authSvc)

			in := authz.Input{
				Path:   r.URL.Path,
				Method: r.Method,
			}
			if session != nil {
				in.Authenticated = true
				in.Role = session.Role
			}

			switch engine.Evaluate(in) {
			case authz.Allow:
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
			case authz.DenyUnauthenticated:
				entry.Dispatch(w, r)
			case authz.DenyForbidden:
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "forbidden",
					Err:     errors.New("insufficient permissions"),
				})
			}
		})
	}
}

// sessionFromRequest resolves the session cookie. Any failure (no cookie,
// unknown or expired session) yields nil; the rule table decides whether
// that matters for the route.
func sessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := authSvc.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}
