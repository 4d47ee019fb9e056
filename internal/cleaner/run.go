package cleaner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github-trends/internal/model"
	"github-trends/internal/table"
)

// LocationResolver turns cleaned user rows into geocoded location rows.
// Implemented by *geocode.Resolver; mocked in tests.
type LocationResolver interface {
	ResolveLocations(ctx context.Context, users []model.User) []model.UserLocation
}

// Run cleans every CSV file found in inDir and writes the results under
// outDir. Files carrying user data additionally produce a derived location
// table. A missing expected column is fatal and aborts the stage.
func Run(ctx context.Context, inDir, outDir string, resolver LocationResolver, logger *slog.Logger) error {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return fmt.Errorf("reading input directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		in := filepath.Join(inDir, name)
		out := filepath.Join(outDir, name)

		if strings.Contains(name, "user-data") {
			if err := cleanUserFile(ctx, in, out, resolver, logger); err != nil {
				return err
			}
			continue
		}
		if err := cleanRepoFile(in, out, logger); err != nil {
			return err
		}
	}
	return nil
}

func cleanRepoFile(in, out string, logger *slog.Logger) error {
	repos, err := table.Read[model.Repository](in)
	if err != nil {
		return err
	}

	cleaned := CleanRepositories(repos)
	logger.Info("Cleaned repository table", "file", filepath.Base(in), "rows_in", len(repos), "rows_out", len(cleaned))
	return table.Write(out, cleaned)
}

func cleanUserFile(ctx context.Context, in, out string, resolver LocationResolver, logger *slog.Logger) error {
	users, err := table.Read[model.User](in)
	if err != nil {
		return err
	}

	cleaned := CleanUsers(users)
	logger.Info("Cleaned user table", "file", filepath.Base(in), "rows_in", len(users), "rows_out", len(cleaned))
	if err := table.Write(out, cleaned); err != nil {
		return err
	}

	locations := resolver.ResolveLocations(ctx, cleaned)
	logger.Info("Resolved user locations", "rows", len(locations))

	locFile := strings.Replace(filepath.Base(in), "user-data", "user-location-data", 1)
	return table.Write(filepath.Join(filepath.Dir(out), locFile), locations)
}
