// Package github wraps the go-github client with the scrape operations the
// collector needs: repository search, owner profiles, and per-owner
// repository listings, all behind a fixed-window quota gate.
package github

import (
	"context"
	"log/slog"
	"time"

	"github-trends/internal/model"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

const (
	// The search API returns at most 1000 results per query. This is an API
	// ceiling, not a tunable.
	maxSearchResults = 1000

	perPage = 100

	// Suspend when this many requests remain on a quota window.
	quotaFloor = 3

	// The search quota resets every minute, the core quota every hour. A
	// blocking sleep matching the window is sufficient; no backoff needed.
	searchPause = time.Minute
	corePause   = time.Hour
)

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger

	// sleep is swapped out in tests so quota pauses don't stall the suite.
	sleep func(time.Duration)
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client.
func NewClient(token string, logger *slog.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
		sleep:  time.Sleep,
	}
}

// SearchTopRepositories returns up to limit repositories matching query,
// ranked by the platform's native sort. Search pages omit the subscriber
// count and inline no topics, so each result costs one additional
// full-repository fetch.
func (c *Client) SearchTopRepositories(ctx context.Context, query, sort, order string, limit int) ([]model.Repository, error) {
	if limit > maxSearchResults {
		limit = maxSearchResults
	}

	opts := &github.SearchOptions{
		Sort:  sort,
		Order: order,
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	var found []*github.Repository
	for len(found) < limit {
		c.waitForQuota(ctx)
		c.logger.Debug("Fetching search page", "query", query, "page", opts.Page)

		result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
		if err != nil {
			return nil, err
		}
		found = append(found, result.Repositories...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	if len(found) > limit {
		found = found[:limit]
	}

	repos := make([]model.Repository, 0, len(found))
	for _, r := range found {
		full, err := c.getFullRepository(ctx, r.GetOwner().GetLogin(), r.GetName())
		if err != nil {
			return nil, err
		}
		repos = append(repos, toRepository(full))
	}
	return repos, nil
}

// GetUser fetches a single owner profile.
func (c *Client) GetUser(ctx context.Context, login string) (model.User, error) {
	c.waitForQuota(ctx)

	u, _, err := c.gh.Users.Get(ctx, login)
	if err != nil {
		return model.User{}, err
	}
	return toUser(u), nil
}

// ListOwnerRepositories fetches every repository owned by login. List pages
// have the same gaps as search pages, so each repository is fetched in full.
func (c *Client) ListOwnerRepositories(ctx context.Context, login string) ([]model.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var found []*github.Repository
	for {
		c.waitForQuota(ctx)
		c.logger.Debug("Fetching owner repositories page", "owner", login, "page", opts.Page)

		repos, resp, err := c.gh.Repositories.ListByUser(ctx, login, opts)
		if err != nil {
			return nil, err
		}
		found = append(found, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	repos := make([]model.Repository, 0, len(found))
	for _, r := range found {
		full, err := c.getFullRepository(ctx, login, r.GetName())
		if err != nil {
			return nil, err
		}
		repos = append(repos, toRepository(full))
	}
	return repos, nil
}

// getFullRepository fetches the complete repository object. Search and list
// endpoints leave subscribers_count zero and topics empty; only this endpoint
// reports both.
func (c *Client) getFullRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	c.waitForQuota(ctx)
	full, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	return full, err
}

// waitForQuota checks the remaining quota on the search and core API tiers
// and blocks until the fixed window has passed when either is nearly spent.
// Quota exhaustion is recovered here, never surfaced as an error; a failed
// quota lookup is logged and ignored so a transient hiccup can't stall the
// scrape.
func (c *Client) waitForQuota(ctx context.Context) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		c.logger.Warn("Rate limit check failed, continuing", "error", err)
		return
	}

	if search := limits.GetSearch(); search != nil && search.Remaining <= quotaFloor {
		c.logger.Info("Search API quota nearly spent, sleeping", "pause", searchPause.String())
		c.sleep(searchPause)
		c.logger.Info("Sleep completed, resuming scrape")
	}

	if core := limits.GetCore(); core != nil && core.Remaining <= quotaFloor {
		c.logger.Info("Core API quota nearly spent, sleeping",
			"pause", corePause.String(),
			"resume_at", time.Now().Add(corePause).Format(time.Kitchen))
		c.sleep(corePause)
		c.logger.Info("Sleep completed, resuming scrape")
	}
}
