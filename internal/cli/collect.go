package cli

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github-trends/internal/collector"
	"github-trends/internal/config"
	"github-trends/internal/github"
	"github-trends/internal/store"
)

func newCollectCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var (
		queries string
		sortKey string
		order   string
		limit   int
		outDir  string
		dbURL   string
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Scrape repository and owner metadata from the GitHub search API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.GithubToken == "" {
				return errors.New("GITHUB_TOKEN is required for collect")
			}
			if err := config.ValidateSearch(sortKey, order, limit); err != nil {
				return err
			}

			ctx := cmd.Context()
			logger.Info("Scrape starting", "queries", queries, "sort", sortKey, "order", order, "limit", limit)

			client := github.NewClient(cfg.GithubToken, logger)

			var archive collector.Archiver
			if dbURL != "" {
				st, err := store.Open(ctx, dbURL, logger)
				if err != nil {
					return err
				}
				defer st.Close()
				archive = st
			}

			c := collector.New(client, archive, logger)
			if err := c.Run(ctx, collector.Options{
				Queries: splitQueries(queries),
				Sort:    sortKey,
				Order:   order,
				Limit:   limit,
				OutDir:  outDir,
			}); err != nil {
				return err
			}

			logger.Info("Scrape complete", "out", outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&queries, "queries", "q", cfg.Queries,
		"comma-separated search queries to scrape")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", cfg.Sort,
		`search result sort key: "stars", "forks", or "updated"`)
	cmd.Flags().StringVarP(&order, "order", "o", cfg.Order,
		`search result order: "asc" or "desc"`)
	cmd.Flags().IntVarP(&limit, "limit", "n", cfg.Limit,
		"number of repositories to scrape per query (max 1000)")
	cmd.Flags().StringVarP(&outDir, "out", "p", cfg.ScrapedDir,
		"output directory for the raw scraped tables")
	cmd.Flags().StringVar(&dbURL, "db-url", cfg.DBURL,
		"optional Postgres URL for archiving raw scrape batches")

	return cmd
}

func splitQueries(queries string) []string {
	parts := strings.Split(queries, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
