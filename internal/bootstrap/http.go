package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/smartsupplypro/inventory-api/config"
	"github.com/smartsupplypro/inventory-api/internal/adapters/cookiereq"
	"github.com/smartsupplypro/inventory-api/internal/authz"
	"github.com/smartsupplypro/inventory-api/internal/devseed"
	httpx "github.com/smartsupplypro/inventory-api/internal/http"
	"github.com/smartsupplypro/inventory-api/internal/service"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Auth     *service.AuthService
	Requests *cookiereq.Store
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil || cfg.Config == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	// The inventory, supplier, and analytics collaborators are external
	// services. The seeded in-memory catalog stands in for them so the
	// gated API surface is exercisable in every deployment.
	catalog := devseed.NewCatalog()

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:                 cfg.Auth,
		Requests:             cfg.Requests,
		Engine:               authz.NewEngine(authz.Options{DemoReadonly: appCfg.App.DemoReadonly}),
		Inventory:            catalog,
		Suppliers:            catalog.Suppliers(),
		Analytics:            catalog,
		UserCount:            cfg.Auth.UserCount,
		Provider:             appCfg.Auth.OAuth.Provider,
		PublicBaseURL:        appCfg.HTTP.BaseURL,
		FrontendBaseURL:      appCfg.App.FrontendBaseURL,
		FrontendLandingPath:  appCfg.App.FrontendLandingPath,
		AllowedReturnOrigins: appCfg.App.AllowedReturnOrigins,
		CORSOrigins:          appCfg.HTTP.CORSOrigins,
		CookieDomain:         appCfg.HTTP.CookieDomain,
		Logger:               logger,
	})

	if appCfg.App.DemoReadonly {
		logger.Info("demo read-only mode enabled: unauthenticated reads are open")
	}

	// Order: Recover -> Logging -> Router
	handler := httpx.Logging(logger)(router)
	handler = httpx.Recover(logger)(handler)

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
