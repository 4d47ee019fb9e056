package cli

import (
	"log/slog"

	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/spf13/cobra"

	"github-trends/internal/cleaner"
	"github-trends/internal/config"
	"github-trends/internal/geocode"
)

func newCleanCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var inDir, outDir string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the raw scraped tables and geocode user locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger.Info("Data cleaning starting", "in", inDir, "out", outDir)

			continents, err := geocode.LoadContinentTable(ctx, cfg.ContinentTableURL)
			if err != nil {
				return err
			}

			resolver := geocode.NewResolver(
				openstreetmap.GeocoderWithURL(cfg.NominatimURL),
				continents,
				logger,
			)

			if err := cleaner.Run(ctx, inDir, outDir, resolver, logger); err != nil {
				return err
			}

			logger.Info("Data cleaning complete", "out", outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inDir, "in", "i", cfg.ScrapedDir,
		"input directory holding the raw scraped tables")
	cmd.Flags().StringVarP(&outDir, "out", "o", cfg.CleanedDir,
		"output directory for the cleaned tables")

	return cmd
}
