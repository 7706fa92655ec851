package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/vidhi/internal/server"
	"github.com/desertthunder/vidhi/internal/shared"
	"github.com/desertthunder/vidhi/internal/ui"
	"github.com/desertthunder/vidhi/internal/web"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if err := ui.Run(ctx, ui.Options{
		Store:    r.store,
		Executor: r.exec,
		Limit:    r.limit(),
		Logger:   fileLogger,
	}); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// Serve runs the local web shell until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	handler, err := web.NewHandler(web.Options{
		Store:    r.store,
		Executor: r.exec,
		Limit:    r.limit(),
		Logger:   r.logger,
	})
	if err != nil {
		return err
	}

	ready := func(url string) {
		r.writePlain("Serving on %s (ctrl+c to stop)\n", url)
		if !cmd.Bool("open") {
			return
		}
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return server.Serve(ctx, cfg.Addr(), web.NewRouter(handler, r.logger), r.logger, ready)
}
