package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/vidhi/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := rootCommand(runner).Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrAborted) {
			logger.Warn("aborted")
			os.Exit(0)
		}
		logger.Errorf("application error: %v", err)
		stop()
		os.Exit(1)
	}
}
