package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/uno/pkg/games/uno"
	"github.com/fadedpez/uno/pkg/scheduler"
)

type ServeCmd struct {
	NoMaintenance bool `help:"Do not run periodic session cleanup and pruning"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.load("")
	if err != nil {
		return err
	}

	// Wait for interrupt signal to gracefully shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, appOptions{discord: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if !c.NoMaintenance {
		maintenance := scheduler.NewMaintenance(a.manager, a.repo, cfg, a.clock, logger)
		maintenance.Start(ctx)
		defer maintenance.Stop()
	}

	logger.Info("Serving JSON commands on stdin (%s environment)", cfg.Environment)
	// Scanning stdin does not observe ctx, so a signal must not wait for the next line
	errc := make(chan error, 1)
	go func() {
		errc <- uno.NewDispatcher(a.manager).Serve(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case err = <-errc:
	case <-ctx.Done():
	}
	logger.Info("Shutting down...")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
