package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lmfernandez/tastify/internal/auth"
	"github.com/lmfernandez/tastify/internal/repositories"
	"github.com/lmfernandez/tastify/internal/services"
	"github.com/lmfernandez/tastify/internal/shared"
)

// App assembles the router, middleware stack and handlers into a runnable
// HTTP server.
type App struct {
	router *BasicRouter
	server *http.Server
	logger *log.Logger
}

// AppOpts carries the dependencies for [NewApp].
type AppOpts struct {
	Addr    string
	Broker  *auth.Broker
	Users   *repositories.UserRepository
	Cache   *repositories.SearchCacheRepository
	Spotify services.Service
	Logger  *log.Logger

	// RateLimitRPS <= 0 disables the inbound rate limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewApp wires the full service surface: auth endpoints, user CRUD and
// catalog queries, behind logging, panic recovery and rate limiting.
func NewApp(opts AppOpts) *App {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(Recover(opts.Logger), Logging(opts.Logger))
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = int(opts.RateLimitRPS)
		}
		router.Use(RateLimit(opts.RateLimitRPS, burst))
	}

	router.Handle("GET /health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	if opts.Broker != nil {
		router.Handler(NewAuthHandler(opts.Broker, opts.Logger))
	}
	if opts.Users != nil {
		router.Handler(NewUsersHandler(opts.Users, opts.Cache, opts.Spotify, opts.Broker, opts.Logger))
	}
	if opts.Spotify != nil {
		router.Handler(NewSpotifyHandler(opts.Spotify, opts.Broker, opts.Logger))
	}

	return &App{
		router: router,
		logger: opts.Logger,
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the assembled router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.server.Shutdown(shutdownCtx)
}
