package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/smartsupplypro/inventory-api/internal/adapters/cookiereq"
	"github.com/smartsupplypro/inventory-api/internal/authz"
	"github.com/smartsupplypro/inventory-api/internal/ports"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth      AuthServiceInterface
	Requests  *cookiereq.Store
	Engine    *authz.Engine
	Inventory ports.InventoryService
	Suppliers ports.SupplierService
	Analytics ports.AnalyticsService

	// UserCount backs /api/admin/stats; typically AuthService.UserCount.
	UserCount func(ctx context.Context) (int64, error)

	Provider             string
	PublicBaseURL        string
	FrontendBaseURL      string
	FrontendLandingPath  string
	AllowedReturnOrigins []string
	CORSOrigins          []string
	CookieDomain         string
	Logger               *slog.Logger
}

// NewRouter creates and configures the HTTP router. Every route passes
// through the authorization middleware; public access is a property of the
// rule table, not of route registration.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := NewAuthHandlers(AuthHandlersOptions{
		Svc:                  services.Auth,
		Requests:             services.Requests,
		Provider:             services.Provider,
		PublicBaseURL:        services.PublicBaseURL,
		FrontendBaseURL:      services.FrontendBaseURL,
		FrontendLandingPath:  services.FrontendLandingPath,
		AllowedReturnOrigins: services.AllowedReturnOrigins,
		CookieDomain:         services.CookieDomain,
		Logger:               services.Logger,
	})

	mux.HandleFunc("GET /oauth2/authorization/{provider}", authHandlers.Login)
	mux.HandleFunc("GET /login/oauth2/code/{provider}", authHandlers.Callback)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /api/me", authHandlers.Me)

	inventoryHandlers := &InventoryHandlers{Svc: services.Inventory}
	mux.HandleFunc("GET /api/inventory", inventoryHandlers.List)
	mux.HandleFunc("GET /api/inventory/{id}", inventoryHandlers.Get)
	mux.HandleFunc("POST /api/inventory", inventoryHandlers.Create)
	mux.HandleFunc("PUT /api/inventory/{id}", inventoryHandlers.Update)
	mux.HandleFunc("PATCH /api/inventory/{id}/price", inventoryHandlers.UpdatePrice)
	mux.HandleFunc("DELETE /api/inventory/{id}", inventoryHandlers.Delete)

	supplierHandlers := &SupplierHandlers{Svc: services.Suppliers}
	mux.HandleFunc("GET /api/suppliers", supplierHandlers.List)
	mux.HandleFunc("GET /api/suppliers/{id}", supplierHandlers.Get)
	mux.HandleFunc("POST /api/suppliers", supplierHandlers.Create)
	mux.HandleFunc("PUT /api/suppliers/{id}", supplierHandlers.Update)
	mux.HandleFunc("DELETE /api/suppliers/{id}", supplierHandlers.Delete)

	analyticsHandlers := &AnalyticsHandlers{Svc: services.Analytics}
	mux.HandleFunc("GET /api/analytics/summary", analyticsHandlers.Summary)

	adminHandlers := &AdminHandlers{UserCount: services.UserCount}
	mux.HandleFunc("GET /api/admin/ping", adminHandlers.Ping)
	mux.HandleFunc("GET /api/admin/stats", adminHandlers.Stats)

	mux.HandleFunc("GET /{$}", rootHandler)
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.HandleFunc("GET /api/health", healthHandler)

	entry := EntryPoint{LoginPath: "/oauth2/authorization/" + services.Provider}
	authorize := Authorize(services.Auth, services.Engine, entry)

	handler := authorize(mux)
	if len(services.CORSOrigins) > 0 {
		handler = CORS(services.CORSOrigins)(handler)
	}
	return handler
}
