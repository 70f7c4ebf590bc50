package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/riffvalley/riffvalley-app-back/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	svc, db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	api := server.NewAPI(svc, server.Options{
		Logger:    r.logger,
		RateLimit: r.config.Server.RateLimit,
		Burst:     r.config.Server.Burst,
		Ping:      db.PingContext,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, addr, api, r.logger)
}
