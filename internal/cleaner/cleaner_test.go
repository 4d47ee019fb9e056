package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github-trends/internal/model"
)

func TestCleanRepositories(t *testing.T) {
	t.Run("drops every row of a duplicated identifier", func(t *testing.T) {
		repos := []model.Repository{
			{ID: 1, Name: "a"},
			{ID: 2, Name: "b"},
			{ID: 1, Name: "a-again"},
			{ID: 3, Name: "c"},
		}

		cleaned := CleanRepositories(repos)

		ids := make([]int64, len(cleaned))
		for i, r := range cleaned {
			ids[i] = r.ID
		}
		assert.Equal(t, []int64{2, 3}, ids, "both copies of id 1 should be removed")
	})

	t.Run("strips embedded line breaks from descriptions", func(t *testing.T) {
		repos := []model.Repository{
			{ID: 1, Description: model.StringOf("line one\r\nline two\nline three")},
		}

		cleaned := CleanRepositories(repos)
		assert.Equal(t, "line oneline twoline three", cleaned[0].Description.String)
	})

	t.Run("null descriptions stay null", func(t *testing.T) {
		cleaned := CleanRepositories([]model.Repository{{ID: 1}})
		assert.False(t, cleaned[0].Description.Valid)
	})
}

func TestCleanUsers(t *testing.T) {
	t.Run("keeps the first occurrence of a duplicated identifier", func(t *testing.T) {
		users := []model.User{
			{ID: 1, Username: "first", Followers: 10},
			{ID: 2, Username: "other"},
			{ID: 1, Username: "second", Followers: 99},
		}

		cleaned := CleanUsers(users)

		assert.Len(t, cleaned, 2)
		assert.Equal(t, "first", cleaned[0].Username)
		assert.Equal(t, 10, cleaned[0].Followers)
		assert.Equal(t, "other", cleaned[1].Username)
	})

	t.Run("strips embedded line breaks from bios", func(t *testing.T) {
		users := []model.User{
			{ID: 1, Bio: model.StringOf("I build\nthings\r\n")},
		}

		cleaned := CleanUsers(users)
		assert.Equal(t, "I buildthings", cleaned[0].Bio.String)
	})
}
