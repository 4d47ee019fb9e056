package github

import (
	"github-trends/internal/model"

	"github.com/google/go-github/v62/github"
)

// toRepository translates a full github.Repository object to our internal
// model.Repository. The subject tag is attached later by the collector.
func toRepository(r *github.Repository) model.Repository {
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: model.StringPtr(r.Description),
		Created:     model.Timestamp{Time: r.GetCreatedAt().Time},
		Language:    model.StringPtr(r.Language),
		OwnerType:   r.GetOwner().GetType(),
		Username:    r.GetOwner().GetLogin(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Subscribers: r.GetSubscribersCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
		Topics:      model.TopicList(r.Topics),
	}
}

// toUser translates a github.User object to our internal model.User.
func toUser(u *github.User) model.User {
	return model.User{
		ID:          u.GetID(),
		Username:    u.GetLogin(),
		Name:        model.StringPtr(u.Name),
		Type:        u.GetType(),
		Bio:         model.StringPtr(u.Bio),
		Created:     model.Timestamp{Time: u.GetCreatedAt().Time},
		Company:     model.StringPtr(u.Company),
		Email:       model.StringPtr(u.Email),
		Location:    model.StringPtr(u.Location),
		Hireable:    model.BoolPtr(u.Hireable),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		PublicGists: u.GetPublicGists(),
		PublicRepos: u.GetPublicRepos(),
	}
}
