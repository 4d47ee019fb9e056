// Package cli wires the pipeline stages into a cobra command tree. Each
// subcommand is one stage; they share configuration and a structured logger.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github-trends/internal/config"
)

// Execute runs the ghtrends CLI.
func Execute(ctx context.Context) error {
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel, logLevel)

	root := &cobra.Command{
		Use:   "ghtrends",
		Short: "Scrapes, cleans, and charts GitHub repository and user trends",
		Long: `ghtrends is a three-stage batch pipeline: collect scrapes repository and
owner metadata from the GitHub search API, clean normalizes the raw tables and
geocodes user locations, and report renders a fixed catalog of charts. The
stages exchange data through CSV files, so each can be re-run independently.`,
		SilenceUsage: true,
	}

	root.AddCommand(newCollectCmd(cfg, logger))
	root.AddCommand(newCleanCmd(cfg, logger))
	root.AddCommand(newReportCmd(cfg, logger))
	root.AddCommand(newServeCmd(cfg, logger))

	return root.ExecuteContext(ctx)
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
