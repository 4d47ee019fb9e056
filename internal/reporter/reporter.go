// Package reporter renders the chart catalog from the cleaned tables. Every
// chart is an independent, stateless transformation of one or two tables, so
// rendering is fanned out over a bounded errgroup.
package reporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github-trends/internal/collector"
	"github-trends/internal/model"
	"github-trends/internal/table"
)

const (
	topRepoCount     = 10
	topLanguageCount = 10
	topTopicCount    = 10
	topUserCount     = 25
	topOrgCount      = 25
	orgLanguageCount = 5

	// Without the large-dataset toggle, dense charts are computed from a
	// sample of at most this many rows.
	sampleCap = 5000

	defaultParallelism = 4
)

// Options configures a single reporter run. There is no package-level state;
// everything the charts need is passed in here.
type Options struct {
	InputDir        string
	OutputDir       string
	WorldBoundaries string
	WordcloudFont   string
	LargeDatasets   bool
	Parallelism     int
}

// Reporter runs the report stage.
type Reporter struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Reporter.
func New(opts Options, logger *slog.Logger) *Reporter {
	if opts.Parallelism <= 0 {
		opts.Parallelism = defaultParallelism
	}
	return &Reporter{opts: opts, logger: logger}
}

// Run loads the cleaned tables and renders every chart in the catalog.
func (r *Reporter) Run(ctx context.Context) error {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return err
	}

	repos, err := table.Read[model.Repository](filepath.Join(r.opts.InputDir, collector.TopReposFile))
	if err != nil {
		return err
	}
	users, err := table.Read[model.User](filepath.Join(r.opts.InputDir, collector.UserDataFile))
	if err != nil {
		return err
	}
	locations, err := table.Read[model.UserLocation](filepath.Join(r.opts.InputDir, "user-location-data.csv"))
	if err != nil {
		return err
	}
	userRepos, err := table.Read[model.Repository](filepath.Join(r.opts.InputDir, collector.TopUserReposFile))
	if err != nil {
		return err
	}
	orgRepos, err := table.Read[model.Repository](filepath.Join(r.opts.InputDir, collector.TopOrgReposFile))
	if err != nil {
		return err
	}

	repos = r.capRows(repos, collector.TopReposFile)
	userRepos = r.capRows(userRepos, collector.TopUserReposFile)
	orgRepos = r.capRows(orgRepos, collector.TopOrgReposFile)

	orgLanguages := OrgLanguageCounts(orgRepos, orgLanguageCount)
	languageNames := make([]string, len(orgLanguages))
	for i, b := range orgLanguages {
		languageNames[i] = b.Language
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)

	charts := []struct {
		file   string
		render func(path string) error
	}{
		{"top_repos_by_stars.png", func(p string) error {
			return topReposChart(repos, topRepoCount, p)
		}},
		{"language_stars.png", func(p string) error {
			languages, bySubject := LanguageBuckets(repos, topLanguageCount)
			return languageStarsChart(languages, bySubject, p)
		}},
		{"star_distribution.png", func(p string) error {
			return starDistributionChart(LogStarSamples(repos), p)
		}},
		{"yearly_repo_counts.png", func(p string) error {
			return yearlyReposChart(YearlyRepoCounts(repos), p)
		}},
		{"yearly_median_stars.png", func(p string) error {
			return yearlyMedianStarsChart(YearlyMedianStars(repos), p)
		}},
		{"yearly_topics.png", func(p string) error {
			return yearlyTopicsChart(TopTopicsByYear(repos, topTopicCount), p)
		}},
		{"most_followed_users.png", func(p string) error {
			return mostFollowedUsersChart(users, topUserCount, p)
		}},
		{"org_total_stars.png", func(p string) error {
			return orgStarsChart(OwnerStarTotals(orgRepos), topOrgCount, p)
		}},
		{"org_top_languages.png", func(p string) error {
			return orgLanguagesChart(orgLanguages, p)
		}},
		{"org_language_years.png", func(p string) error {
			return orgLanguageYearsChart(OrgLanguageYears(orgRepos, languageNames), p)
		}},
		{"user_map.png", func(p string) error {
			return userMapChart(r.opts.WorldBoundaries, CountryAggregates(locations), p)
		}},
		{"repo_description_wordcloud.png", func(p string) error {
			return wordcloudChart(WordCounts(repoDescriptions(repos)), r.opts.WordcloudFont, p)
		}},
		{"user_bio_wordcloud.png", func(p string) error {
			return wordcloudChart(WordCounts(userBios(users)), r.opts.WordcloudFont, p)
		}},
	}

	for _, chart := range charts {
		g.Go(func() error {
			path := filepath.Join(r.opts.OutputDir, chart.file)
			r.logger.Info("Rendering chart", "file", chart.file)
			return chart.render(path)
		})
	}

	return g.Wait()
}

// capRows samples oversized tables down to the cap unless large-dataset
// rendering was explicitly enabled at startup. The tables arrive star-sorted,
// so the sample strides uniformly across the whole table rather than taking
// the head.
func (r *Reporter) capRows(repos []model.Repository, name string) []model.Repository {
	if r.opts.LargeDatasets || len(repos) <= sampleCap {
		return repos
	}
	r.logger.Warn("Table exceeds sample cap, sampling rows for rendering",
		"table", name, "rows", len(repos), "cap", sampleCap)

	step := float64(len(repos)) / float64(sampleCap)
	sampled := make([]model.Repository, sampleCap)
	for i := range sampled {
		sampled[i] = repos[int(float64(i)*step)]
	}
	return sampled
}

func repoDescriptions(repos []model.Repository) []model.NullString {
	texts := make([]model.NullString, len(repos))
	for i, r := range repos {
		texts[i] = r.Description
	}
	return texts
}

func userBios(users []model.User) []model.NullString {
	texts := make([]model.NullString, len(users))
	for i, u := range users {
		texts[i] = u.Bio
	}
	return texts
}
