package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/larder/internal/auth"
	"github.com/mmynk/larder/internal/middleware"
	"github.com/mmynk/larder/internal/storage"
)

// Options wires the HTTP handler to its dependencies.
type Options struct {
	Store         storage.Store
	Authenticator auth.Authenticator
	JWTManager    *auth.JWTManager
	Logger        *slog.Logger

	// Registry receives the HTTP metrics and backs /metrics.
	// A fresh registry is created when nil.
	Registry *prometheus.Registry

	// AuthLimiter throttles login and register. Nil disables limiting.
	AuthLimiter *middleware.RateLimiter

	CORSOrigin string
}

// NewHandler builds the complete HTTP handler: routes plus middleware.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	corsOrigin := opts.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	metrics := middleware.NewMetrics(registry)
	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc, extra ...func(http.Handler) http.Handler) {
		mux.Handle(pattern, metrics.Instrument(pattern, middleware.Chain(h, extra...)))
	}

	food := NewFoodService(opts.Store, logger)
	recipes := NewRecipeService(opts.Store, logger)
	shopping := NewShoppingListService(opts.Store, logger)
	notifications := NewNotificationService(opts.Store, logger)
	sections := NewSectionOrderService(opts.Store, logger)
	authSvc := NewAuthService(opts.Authenticator, opts.JWTManager, logger)

	var limited []func(http.Handler) http.Handler
	if opts.AuthLimiter != nil {
		limited = append(limited, opts.AuthLimiter.Middleware)
	}

	handle("GET /api/food-items", food.List)
	handle("POST /api/food-items", food.Post)
	handle("GET /api/recipes", recipes.List)
	handle("GET /api/shopping-list", shopping.List)
	handle("GET /api/notifications", notifications.List)
	handle("POST /api/login", authSvc.Login, limited...)
	handle("POST /api/register", authSvc.Register, limited...)
	handle("GET /api/section-order", sections.Get)
	handle("POST /api/section-order", sections.Save)
	handle("GET /healthz", healthHandler(opts.Store, logger))

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.CORS(corsOrigin),
		middleware.OptionalAuth(opts.JWTManager),
	)
}

func healthHandler(store storage.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Error("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
