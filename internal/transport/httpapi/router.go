package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fugevet/fintrack/internal/transport/httpapi/handler"
	"github.com/fugevet/fintrack/internal/transport/httpapi/middleware"
	"github.com/fugevet/fintrack/pkg/logger"
)

// Config holds router configuration
type Config struct {
	// Context bounds background work started by middleware. Defaults to
	// context.Background().
	Context            context.Context
	Logger             *logger.Logger
	AllowedOrigins     []string
	RateLimitRPS       float64
	RateLimitBurst     int
	AuthHandler        *handler.AuthHandler
	TransactionHandler *handler.TransactionHandler
	HealthHandler      *handler.HealthHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Compress sits outside Logger so the access log reads plain bodies.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		ctx := cfg.Context
		if ctx == nil {
			ctx = context.Background()
		}
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.GetHealth)
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	if cfg.AuthHandler != nil {
		withSlash(r, http.MethodPost, "/users", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)
	}

	if cfg.TransactionHandler != nil {
		r.Group(func(r chi.Router) {
			if cfg.JWTMiddleware != nil {
				r.Use(cfg.JWTMiddleware)
			}
			withSlash(r, http.MethodGet, "/transactions", cfg.TransactionHandler.GetTransactions)
			withSlash(r, http.MethodPost, "/transactions", cfg.TransactionHandler.CreateTransaction)
			r.Delete("/transactions/{id}", cfg.TransactionHandler.DeleteTransaction)
		})
	}

	return r
}

// withSlash mounts h on both "/path" and "/path/"
func withSlash(r chi.Router, method, path string, h http.HandlerFunc) {
	r.Method(method, path, h)
	r.Method(method, path+"/", h)
}
