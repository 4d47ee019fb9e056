// Package collector orchestrates the scrape: repository search, owner
// profiles, and full repository listings for the top owners, written out as
// raw CSV tables for the cleaner.
package collector

import (
	"context"
	"log/slog"
	"path/filepath"

	"github-trends/internal/cleaner"
	"github-trends/internal/model"
	"github-trends/internal/table"
)

// Output file names, one per raw table.
const (
	TopReposFile      = "top-repos.csv"
	UserDataFile      = "user-data.csv"
	TopUserReposFile  = "top-user-repos.csv"
	TopOrgReposFile   = "top-org-repos.csv"
	topOwnerSelection = 25
)

// API is the platform capability the collector consumes. Implemented by
// *github.Client; mocked in tests.
type API interface {
	SearchTopRepositories(ctx context.Context, query, sort, order string, limit int) ([]model.Repository, error)
	GetUser(ctx context.Context, login string) (model.User, error)
	ListOwnerRepositories(ctx context.Context, login string) ([]model.Repository, error)
}

// Archiver optionally persists raw scrape batches alongside the CSV output.
// Implemented by *store.Store; nil disables archiving.
type Archiver interface {
	ArchiveRepositories(ctx context.Context, repos []model.Repository) (int64, error)
	ArchiveUsers(ctx context.Context, users []model.User) (int64, error)
}

// Options are the scrape parameters, all with documented CLI defaults.
type Options struct {
	Queries []string
	Sort    string
	Order   string
	Limit   int
	OutDir  string
}

// Collector runs the scrape stage.
type Collector struct {
	api     API
	archive Archiver
	logger  *slog.Logger
}

// New creates a Collector. archive may be nil.
func New(api API, archive Archiver, logger *slog.Logger) *Collector {
	return &Collector{api: api, archive: archive, logger: logger}
}

// Run scrapes every configured query sequentially and writes the four raw
// tables. The only recovered failure is a per-owner listing error, which
// skips that owner and continues.
func (c *Collector) Run(ctx context.Context, opts Options) error {
	var (
		allRepos []model.Repository
		allUsers []model.User
	)

	for _, query := range opts.Queries {
		logger := c.logger.With("query", query)
		logger.Info("Scraping top repositories", "sort", opts.Sort, "order", opts.Order, "limit", opts.Limit)

		repos, err := c.api.SearchTopRepositories(ctx, query, opts.Sort, opts.Order, opts.Limit)
		if err != nil {
			return err
		}
		for i := range repos {
			repos[i].Subject = query
		}
		logger.Info("Scraped repositories", "count", len(repos))

		users, err := c.fetchOwnerProfiles(ctx, repos, query)
		if err != nil {
			return err
		}
		logger.Info("Scraped owner profiles", "count", len(users))

		allRepos = append(allRepos, repos...)
		allUsers = append(allUsers, users...)
	}

	if err := table.Write(filepath.Join(opts.OutDir, TopReposFile), allRepos); err != nil {
		return err
	}
	if err := table.Write(filepath.Join(opts.OutDir, UserDataFile), allUsers); err != nil {
		return err
	}

	// Top-owner selection works on cleaned tables so scrape duplicates can't
	// skew the rankings.
	topUsers, topOrgs := TopOwners(
		cleaner.CleanUsers(allUsers),
		cleaner.CleanRepositories(allRepos),
		topOwnerSelection,
	)
	subjects := subjectByOwner(allUsers)

	userRepos := c.fetchAllRepositoriesForOwners(ctx, topUsers, subjects)
	if err := table.Write(filepath.Join(opts.OutDir, TopUserReposFile), userRepos); err != nil {
		return err
	}

	orgRepos := c.fetchAllRepositoriesForOwners(ctx, topOrgs, subjects)
	if err := table.Write(filepath.Join(opts.OutDir, TopOrgReposFile), orgRepos); err != nil {
		return err
	}

	if c.archive != nil {
		if err := c.archiveBatch(ctx, allRepos, allUsers); err != nil {
			return err
		}
	}

	return nil
}

// fetchOwnerProfiles fetches one profile per distinct owner referenced by the
// input repositories, in first-seen order.
func (c *Collector) fetchOwnerProfiles(ctx context.Context, repos []model.Repository, subject string) ([]model.User, error) {
	seen := make(map[string]bool, len(repos))
	var users []model.User

	for _, repo := range repos {
		if seen[repo.Username] {
			continue
		}
		seen[repo.Username] = true

		user, err := c.api.GetUser(ctx, repo.Username)
		if err != nil {
			return nil, err
		}
		user.Subject = subject
		users = append(users, user)
	}
	return users, nil
}

// fetchAllRepositoriesForOwners fetches every repository owned by each owner.
// Owners whose listing fails (platform-side access exception) are skipped and
// scraping continues with the next owner.
func (c *Collector) fetchAllRepositoriesForOwners(ctx context.Context, owners []string, subjects map[string]string) []model.Repository {
	var all []model.Repository

	for _, owner := range owners {
		repos, err := c.api.ListOwnerRepositories(ctx, owner)
		if err != nil {
			c.logger.Warn("Skipping owner, repository listing failed", "owner", owner, "error", err)
			continue
		}
		for i := range repos {
			repos[i].Subject = subjects[owner]
		}
		all = append(all, repos...)
	}
	return all
}

func (c *Collector) archiveBatch(ctx context.Context, repos []model.Repository, users []model.User) error {
	n, err := c.archive.ArchiveRepositories(ctx, repos)
	if err != nil {
		return err
	}
	c.logger.Info("Archived repositories", "count", n)

	n, err = c.archive.ArchiveUsers(ctx, users)
	if err != nil {
		return err
	}
	c.logger.Info("Archived users", "count", n)
	return nil
}

func subjectByOwner(users []model.User) map[string]string {
	subjects := make(map[string]string, len(users))
	for _, u := range users {
		if _, ok := subjects[u.Username]; !ok {
			subjects[u.Username] = u.Subject
		}
	}
	return subjects
}
