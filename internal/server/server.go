package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hongminglow/astra-console/internal/auth"
	"github.com/hongminglow/astra-console/internal/config"
	"github.com/hongminglow/astra-console/internal/editor"
	"github.com/hongminglow/astra-console/internal/gate"
	"github.com/hongminglow/astra-console/internal/http/handlers"
	"github.com/hongminglow/astra-console/internal/http/respond"
	"github.com/hongminglow/astra-console/internal/middleware"
	"github.com/hongminglow/astra-console/internal/readmodel"
	"github.com/hongminglow/astra-console/internal/storage"
)

// Store is everything the console needs from the relational backend.
type Store interface {
	storage.AccountStore
	storage.RoleChecker
	storage.ProfileStore
	Ping(ctx context.Context) error
}

// Deps are the backing services the server is wired to.
type Deps struct {
	Store    Store
	Sessions auth.SessionStore
	Edits    editor.Store
	Attempts middleware.Counter
	Views    respond.Renderer
	Checks   map[string]handlers.Pinger
	Logger   *zap.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// NewRouter builds the console's route tree.
func NewRouter(cfg config.Config, deps Deps) chi.Router {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	authService := auth.NewService(deps.Store, deps.Sessions, tokens)
	g := gate.New(authService, deps.Store, cfg.GateTimeout, deps.Logger)

	profiles := readmodel.NewProfiles(deps.Store, deps.Logger)
	edits := editor.NewManager(deps.Edits, deps.Store, deps.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(cfg.TrustedProxies))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
		MaxAge:           300,
	}))

	handlers.NewHealthHandler(time.Now(), deps.Checks).Register(r)

	loginLimit := middleware.RateLimit(deps.Attempts, "login", cfg.LoginRateLimit, cfg.LoginRateWindow, deps.Logger)
	handlers.NewAuthHandler(authService, g, deps.Views, cfg.CookieSecure, deps.Logger).Register(r, loginLimit)
	handlers.NewDashboardHandler(profiles, deps.Views).Register(r, g)
	handlers.NewAdminHandler(profiles, edits, deps.Views, deps.Logger).Register(r, g)
	handlers.NewAPIHandler(profiles).Register(r, g)

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

func allowsAnyOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
