package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/config"
	"github.com/apiseclab/backend/internal/http/handlers"
	"github.com/apiseclab/backend/internal/middleware"
	"github.com/apiseclab/backend/internal/service"
	"github.com/apiseclab/backend/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires middleware, services, and routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) (*Server, error) {
	router, err := NewRouter(cfg, store, time.Now())
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// NewRouter builds the full handler chain. Split out from New so tests can
// drive the routes through httptest.
func NewRouter(cfg config.Config, store storage.Store, startedAt time.Time) (http.Handler, error) {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authSvc, err := service.NewAuthService(store, tokens)
	if err != nil {
		return nil, err
	}
	userSvc := service.NewUserService(store)
	accountSvc := service.NewAccountService(store, cfg.MaxTransfer)
	adminSvc := service.NewAdminService(startedAt)

	root := mux.NewRouter()
	handlers.NewHealthHandler(startedAt).Register(root)

	public := root.PathPrefix("/api").Subrouter()
	handlers.NewAuthHandler(authSvc, userSvc).Register(public)

	protected := root.PathPrefix("/api").Subrouter()
	protected.Use(func(next http.Handler) http.Handler {
		return middleware.Auth(tokens, store, next)
	})
	handlers.NewAccountHandler(accountSvc).Register(protected)
	handlers.NewUserHandler(userSvc).Register(protected)
	handlers.NewAdminHandler(adminSvc).Register(protected)

	// Per-client rate limiting sits in front of the API so neither
	// credential guessing on login nor transfer spam runs unmetered.
	limiter := middleware.NewClientLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	chain := middleware.RequestID(
		middleware.CORS(cfg.CORSOrigins,
			middleware.Logging(
				middleware.RateLimit(limiter,
					middleware.Recover(root)))))
	return chain, nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
