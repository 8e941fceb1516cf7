package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/suture-cli/cmd"
	"github.com/xkilldash9x/suture-cli/internal/observability"
)

func main() {
	// Graceful shutdown on SIGINT/SIGTERM; long-running commands like serve
	// stop when this context is cancelled.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
