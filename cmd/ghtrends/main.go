package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github-trends/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		slog.Error("Pipeline stage failed", "error", err)
		os.Exit(1)
	}
}
