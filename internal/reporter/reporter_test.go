package reporter

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-trends/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCapRows(t *testing.T) {
	repos := make([]model.Repository, 2*sampleCap)
	for i := range repos {
		repos[i] = model.Repository{ID: int64(i), Stars: len(repos) - i}
	}

	t.Run("samples uniformly across a star-sorted table", func(t *testing.T) {
		r := New(Options{}, testLogger())

		sampled := r.capRows(repos, "top-repos.csv")
		require.Len(t, sampled, sampleCap)
		assert.Equal(t, int64(0), sampled[0].ID)
		assert.Equal(t, int64(2*sampleCap-2), sampled[len(sampled)-1].ID)

		var fromTail int
		for _, rec := range sampled {
			if rec.ID >= int64(sampleCap) {
				fromTail++
			}
		}
		assert.Equal(t, sampleCap/2, fromTail, "half the sample comes from the low-star half")
	})

	t.Run("large-dataset toggle disables sampling", func(t *testing.T) {
		r := New(Options{LargeDatasets: true}, testLogger())
		assert.Len(t, r.capRows(repos, "top-repos.csv"), len(repos))
	})

	t.Run("small tables pass through untouched", func(t *testing.T) {
		r := New(Options{}, testLogger())
		small := repos[:10]
		assert.Equal(t, small, r.capRows(small, "top-repos.csv"))
	})
}
