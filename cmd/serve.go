package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/lmfernandez/tastify/internal/repositories"
	"github.com/lmfernandez/tastify/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP service until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	broker, err := r.ensureBroker()
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	app := server.NewApp(server.AppOpts{
		Addr:           addr,
		Broker:         broker,
		Users:          repositories.NewUserRepository(db),
		Cache:          repositories.NewSearchCacheRepository(db),
		Spotify:        r.spotify,
		Logger:         r.logger,
		RateLimitRPS:   r.config.Server.RateLimitRPS,
		RateLimitBurst: r.config.Server.RateLimitBurst,
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting server", "addr", addr)
	return app.Run(runCtx)
}

// Token runs the full authorization flow and prints the resulting token.
func (r *Runner) Token(ctx context.Context, cmd *cli.Command) error {
	token, err := r.acquireToken(ctx)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("%s\n", token)
	return nil
}
