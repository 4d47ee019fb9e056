package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github-trends/internal/config"
	"github-trends/internal/reporter"
)

func newReportCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var (
		inDir         string
		outDir        string
		largeDatasets bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the chart catalog from the cleaned tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger.Info("Data visualization starting", "in", inDir, "out", outDir)

			if err := ensureWorldBoundaries(cfg, logger); err != nil {
				return err
			}

			r := reporter.New(reporter.Options{
				InputDir:        inDir,
				OutputDir:       outDir,
				WorldBoundaries: cfg.WorldBoundaries,
				WordcloudFont:   cfg.WordcloudFont,
				LargeDatasets:   largeDatasets,
			}, logger)

			if err := r.Run(ctx); err != nil {
				return err
			}

			logger.Info("Data visualization complete", "out", outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inDir, "in", "i", cfg.CleanedDir,
		"input directory holding the cleaned tables")
	cmd.Flags().StringVarP(&outDir, "out", "o", cfg.ResultsDir,
		"output directory for the rendered charts")
	cmd.Flags().BoolVar(&largeDatasets, "large-datasets", cfg.LargeDatasets,
		"render dense charts from full tables instead of a sample")

	return cmd
}

// ensureWorldBoundaries downloads the world-boundary dataset on first use so
// the map chart has something to draw.
func ensureWorldBoundaries(cfg *config.Config, logger *slog.Logger) error {
	if _, err := os.Stat(cfg.WorldBoundaries); err == nil {
		return nil
	}
	if cfg.WorldBoundariesURL == "" {
		return fmt.Errorf("world boundary dataset %s not found and no download URL configured", cfg.WorldBoundaries)
	}

	logger.Info("Downloading world boundary dataset", "url", cfg.WorldBoundariesURL)
	resp, err := http.Get(cfg.WorldBoundariesURL)
	if err != nil {
		return fmt.Errorf("downloading world boundaries: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading world boundaries: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.WorldBoundaries), 0o755); err != nil {
		return err
	}
	f, err := os.Create(cfg.WorldBoundaries)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, resp.Body)
	return err
}
