package collector

import (
	"sort"

	"github-trends/internal/model"
)

// TopOwners selects the owners whose full repository lists are worth
// scraping: the n individual users with the highest follower counts, and the
// n organizations whose repositories in this batch sum to the highest
// aggregate star count. Both sorts are stable, so ties keep insertion order.
func TopOwners(users []model.User, repos []model.Repository, n int) (topUsers, topOrgs []string) {
	return topUsersByFollowers(users, n), topOrgsByStars(repos, n)
}

func topUsersByFollowers(users []model.User, n int) []string {
	individuals := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.Type == model.OwnerTypeUser {
			individuals = append(individuals, u)
		}
	}

	sort.SliceStable(individuals, func(i, j int) bool {
		return individuals[i].Followers > individuals[j].Followers
	})

	if len(individuals) > n {
		individuals = individuals[:n]
	}
	logins := make([]string, len(individuals))
	for i, u := range individuals {
		logins[i] = u.Username
	}
	return logins
}

func topOrgsByStars(repos []model.Repository, n int) []string {
	stars := make(map[string]int)
	var order []string

	for _, r := range repos {
		if r.OwnerType != model.OwnerTypeOrganization {
			continue
		}
		if _, ok := stars[r.Username]; !ok {
			order = append(order, r.Username)
		}
		stars[r.Username] += r.Stars
	}

	sort.SliceStable(order, func(i, j int) bool {
		return stars[order[i]] > stars[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}
