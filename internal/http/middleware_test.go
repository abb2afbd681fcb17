package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsupplypro/inventory-api/internal/authz"
	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
)

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testAuthorize(authSvc AuthServiceInterface, demo bool) func(http.Handler) http.Handler {
	engine := authz.NewEngine(authz.Options{DemoReadonly: demo})
	entry := EntryPoint{LoginPath: "/oauth2/authorization/google"}
	return Authorize(authSvc, engine, entry)
}

func TestAuthorizeAllowsPublicPath(t *testing.T) {
	handler := testAuthorize(newFakeAuthService(), false)(noopHandler())

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizeUnauthenticatedAPIGets401(t *testing.T) {
	handler := testAuthorize(newFakeAuthService(), false)(noopHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())
}

func TestAuthorizeUnauthenticatedBrowserRedirects(t *testing.T) {
	handler := testAuthorize(newFakeAuthService(), false)(noopHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/oauth2/authorization/google", w.Header().Get("Location"))
}

func TestAuthorizeSessionReachesHandler(t *testing.T) {
	authSvc := newFakeAuthService()
	authSvc.addSession(t, "s1", domainauth.RoleUser)

	var seen *domainauth.Session
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := testAuthorize(authSvc, false)(inner)

	r := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-s1", seen.UserID)
}

func TestAuthorizeMutationRequiresRole(t *testing.T) {
	authSvc := newFakeAuthService()
	authSvc.addSession(t, "u1", domainauth.RoleUser)

	handler := testAuthorize(authSvc, false)(noopHandler())

	r := httptest.NewRequest(http.MethodPost, "/api/inventory", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "u1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizeAdminPathForbiddenForUser(t *testing.T) {
	authSvc := newFakeAuthService()
	authSvc.addSession(t, "u1", domainauth.RoleUser)

	handler := testAuthorize(authSvc, false)(noopHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "u1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthorizeAdminPathAllowsAdmin(t *testing.T) {
	authSvc := newFakeAuthService()
	authSvc.addSession(t, "a1", domainauth.RoleAdmin)

	handler := testAuthorize(authSvc, false)(noopHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "a1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizeDemoModeOpensReads(t *testing.T) {
	handler := testAuthorize(newFakeAuthService(), true)(noopHandler())

	// Unauthenticated read passes in demo mode.
	r := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	// Mutations stay closed.
	r = httptest.NewRequest(http.MethodPost, "/api/inventory", nil)
	r.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorizeInvalidSessionCookieTreatedAsAnonymous(t *testing.T) {
	handler := testAuthorize(newFakeAuthService(), false)(noopHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "no-such-session"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflightAllowedOrigin(t *testing.T) {
	handler := CORS([]string{"https://app.example.com"})(noopHandler())

	r := httptest.NewRequest(http.MethodOptions, "/api/inventory", nil)
	r.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	handler := CORS([]string{"https://app.example.com"})(noopHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
