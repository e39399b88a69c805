package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mannuking/Project-Radius/internal/auth"
	"github.com/mannuking/Project-Radius/internal/dashboard"
	"github.com/mannuking/Project-Radius/internal/importer"
	"github.com/mannuking/Project-Radius/internal/invoice"
	"github.com/mannuking/Project-Radius/internal/platform/cache"
	"github.com/mannuking/Project-Radius/internal/platform/db"
	"github.com/mannuking/Project-Radius/internal/shared"
	"github.com/mannuking/Project-Radius/internal/users"
	"github.com/mannuking/Project-Radius/jobs"
)

// Runtime owns the wired application and its connections.
type Runtime struct {
	cfg      Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	redis    *redis.Client
	enqueuer *jobs.Enqueuer
	server   *http.Server
}

// NewRuntime wires every component from configuration.
func NewRuntime(ctx context.Context, cfg Config, logger *slog.Logger) (*Runtime, error) {
	pool, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	redisClient, err := cache.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		pool.Close()
		return nil, err
	}

	sessions := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
	csrf := shared.NewCSRFManager(cfg.SessionSecret)

	invoiceRepo := invoice.NewRepository(pool)
	userRepo := users.NewRepository(pool)
	authRepo := auth.NewRepository(pool)

	invoiceService := invoice.NewService(invoiceRepo, logger)
	userService := users.NewService(userRepo, logger)
	authService := auth.NewService(userRepo, authRepo, logger)
	dashboardService := dashboard.NewService(
		invoiceRepo, userRepo, dashboard.NewCache(redisClient, cfg.DashboardCacheTTL), logger)
	importService := importer.NewService(invoiceRepo, logger)

	enqueuer := jobs.NewEnqueuer(cfg.RedisAddr)

	router := NewRouter(RouterParams{
		Config:      cfg,
		Sessions:    sessions,
		CSRF:        csrf,
		AuthService: authService,
		Auth:        auth.NewHandler(authService, sessions, csrf),
		Invoices:    invoice.NewHandler(invoiceService),
		Dashboards:  dashboard.NewHandler(dashboardService),
		Imports:     importer.NewHandler(importService, dashboardService, enqueuer, logger),
		Users:       users.NewHandler(userService),
		Logger:      logger,
	})

	return &Runtime{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		enqueuer: enqueuer,
		server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves HTTP until the context is canceled or a signal arrives, then
// shuts down gracefully.
func (rt *Runtime) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rt.logger.Info("http server listening", "addr", rt.cfg.HTTPAddr, "env", rt.cfg.Env)
		if err := rt.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		rt.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownTimeout)
		defer cancel()
		return rt.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	rt.close()
	return err
}

func (rt *Runtime) close() {
	if err := rt.enqueuer.Close(); err != nil {
		rt.logger.Warn("enqueuer close failed", "error", err)
	}
	if err := rt.redis.Close(); err != nil {
		rt.logger.Warn("redis close failed", "error", err)
	}
	rt.pool.Close()
}
