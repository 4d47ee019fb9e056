package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github-trends/internal/api"
	"github-trends/internal/config"
)

func newServeCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var (
		tablesDir string
		chartsDir string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cleaned tables and rendered charts over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			srv := &http.Server{
				Addr:    addr,
				Handler: api.NewRouter(tablesDir, chartsDir, logger),
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutdown signal received, draining connections")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tablesDir, "tables", cfg.CleanedDir,
		"directory holding the cleaned tables")
	cmd.Flags().StringVar(&chartsDir, "charts", cfg.ResultsDir,
		"directory holding the rendered charts")
	cmd.Flags().StringVar(&addr, "addr", cfg.Addr,
		"listen address")

	return cmd
}
