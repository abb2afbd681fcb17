package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsupplypro/inventory-api/internal/authz"
	"github.com/smartsupplypro/inventory-api/internal/devseed"
	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
)

func newTestRouter(t *testing.T, authSvc AuthServiceInterface, demo bool) http.Handler {
	t.Helper()
	catalog := devseed.NewCatalog()
	return NewRouter(RouterServices{
		Auth:                 authSvc,
		Requests:             newTestRequestStore(t),
		Engine:               authz.NewEngine(authz.Options{DemoReadonly: demo}),
		Inventory:            catalog,
		Suppliers:            catalog.Suppliers(),
		Analytics:            catalog,
		UserCount:            func(context.Context) (int64, error) { return 3, nil },
		Provider:             "google",
		PublicBaseURL:        "https://api.example.com",
		FrontendBaseURL:      "https://app.example.com",
		FrontendLandingPath:  "/dashboard",
		AllowedReturnOrigins: []string{"https://app.example.com"},
		CORSOrigins:          []string{"https://app.example.com"},
	})
}

func TestRouterPublicSurface(t *testing.T) {
	router := newTestRouter(t, newFakeAuthService(), false)

	for _, path := range []string{"/", "/healthz", "/api/health"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code, "GET %s must be public", path)
	}
}

func TestRouterGatesReadsWhenNotDemo(t *testing.T) {
	router := newTestRouter(t, newFakeAuthService(), false)

	r := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())
}

func TestRouterServesReadsToSession(t *testing.T) {
	authSvc := newFakeAuthService()
	authSvc.addSession(t, "s1", domainauth.RoleUser)
	router := newTestRouter(t, authSvc, false)

	for _, path := range []string{"/api/inventory", "/api/suppliers", "/api/analytics/summary"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.Header.Set("Accept", "application/json")
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code, "GET %s with session", path)
	}
}

func TestRouterDemoModeReadOnly(t *testing.T) {
	router := newTestRouter(t, newFakeAuthService(), true)

	r := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code, "anonymous read allowed in demo mode")

	r = httptest.NewRequest(http.MethodDelete, "/api/inventory/some-id", nil)
	r.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "anonymous mutation still rejected")
}

func TestRouterAdminStats(t *testing.T) {
	authSvc := newFakeAuthService()
	authSvc.addSession(t, "admin1", domainauth.RoleAdmin)
	authSvc.addSession(t, "user1", domainauth.RoleUser)
	router := newTestRouter(t, authSvc, false)

	r := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "admin1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"registered_users":3}`, w.Body.String())

	r = httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "user1"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterLoginFlowRoutes(t *testing.T) {
	router := newTestRouter(t, newFakeAuthService(), false)

	// Initiation redirects out to the provider.
	r := httptest.NewRequest(http.MethodGet, "/oauth2/authorization/google", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://idp.example.com/auth")

	// Callback with the flight cookie lands on the frontend.
	cb := httptest.NewRequest(http.MethodGet, "/login/oauth2/code/google?code=c&state=test-state", nil)
	for _, c := range w.Result().Cookies() {
		if c.Name == "SSP_AUTH_REQUEST" {
			cb.AddCookie(c)
		}
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, cb)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.example.com/dashboard", w.Header().Get("Location"))
}

func TestRouterLogout(t *testing.T) {
	authSvc := newFakeAuthService()
	authSvc.addSession(t, "s1", domainauth.RoleUser)
	router := newTestRouter(t, authSvc, false)

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
