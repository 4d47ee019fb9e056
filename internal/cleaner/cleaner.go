// Package cleaner normalizes the raw scraped tables: type coercion, newline
// stripping, and identifier deduplication. Location resolution for user
// records lives in internal/geocode and is driven from this stage.
package cleaner

import (
	"strings"

	"github-trends/internal/model"
)

// CleanRepositories normalizes raw repository rows and drops every row whose
// identifier appears more than once. Duplication here indicates a scrape
// anomaly rather than a legitimate repeat, so the whole group is removed, not
// reduced to one row.
func CleanRepositories(repos []model.Repository) []model.Repository {
	counts := make(map[int64]int, len(repos))
	for _, r := range repos {
		counts[r.ID]++
	}

	cleaned := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if counts[r.ID] > 1 {
			continue
		}
		r.Description = stripNewlines(r.Description)
		cleaned = append(cleaned, r)
	}
	return cleaned
}

// CleanUsers normalizes raw user rows and deduplicates by identifier keeping
// the first occurrence. Profiles are expected to appear once per owner, so
// first-seen is a safe disambiguation.
func CleanUsers(users []model.User) []model.User {
	seen := make(map[int64]bool, len(users))

	cleaned := make([]model.User, 0, len(users))
	for _, u := range users {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		u.Bio = stripNewlines(u.Bio)
		cleaned = append(cleaned, u)
	}
	return cleaned
}

// stripNewlines removes embedded line breaks so free text stays on one CSV
// row.
func stripNewlines(s model.NullString) model.NullString {
	if !s.Valid {
		return s
	}
	replaced := strings.NewReplacer("\r", "", "\n", "").Replace(s.String)
	return model.StringOf(replaced)
}
