package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mannuking/Project-Radius/internal/app"
	"github.com/mannuking/Project-Radius/internal/dashboard"
	"github.com/mannuking/Project-Radius/internal/invoice"
	"github.com/mannuking/Project-Radius/internal/platform/cache"
	"github.com/mannuking/Project-Radius/internal/platform/db"
	"github.com/mannuking/Project-Radius/internal/users"
	"github.com/mannuking/Project-Radius/jobs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "radius-worker:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg).With("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	invoiceRepo := invoice.NewRepository(pool)
	userRepo := users.NewRepository(pool)
	dashboards := dashboard.NewService(
		invoiceRepo, userRepo, dashboard.NewCache(redisClient, cfg.DashboardCacheTTL), logger)

	handlers := jobs.NewHandlers(invoiceRepo, dashboards, logger)
	server, mux := jobs.NewServer(cfg.RedisAddr, handlers, logger)
	scheduler, err := jobs.NewScheduler(cfg.RedisAddr, logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("worker starting")
		return server.Run(mux)
	})
	g.Go(func() error {
		return scheduler.Run()
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("worker shutting down")
		scheduler.Shutdown()
		server.Shutdown()
		return nil
	})
	return g.Wait()
}
