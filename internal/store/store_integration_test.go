//go:build integration

package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github-trends/internal/model"
)

func setupTestStore(ctx context.Context, t *testing.T) *Store {
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Migrations applied from the repo-relative path; Open resolves them from
	// the working directory instead, which is the repo root in production.
	m, err := migrate.New("file://../../migrations", connStr)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &Store{pool: pool, logger: logger}
}

func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	store := setupTestStore(ctx, t)

	repos := []model.Repository{
		{
			ID:        1,
			Name:      "ml-lib",
			FullName:  "org/ml-lib",
			Created:   model.Timestamp{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
			Language:  model.StringOf("Python"),
			Username:  "org",
			OwnerType: model.OwnerTypeOrganization,
			Stars:     50,
			Topics:    model.TopicList{"machine-learning"},
			Subject:   "Machine Learning",
		},
		{
			ID:        2,
			Name:      "tool",
			FullName:  "alice/tool",
			Username:  "alice",
			OwnerType: model.OwnerTypeUser,
			Subject:   "Machine Learning",
		},
	}

	inserted, err := store.ArchiveRepositories(ctx, repos)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	// A re-run of the same batch must not duplicate rows.
	inserted, err = store.ArchiveRepositories(ctx, repos)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	// The same repository under a different subject is a distinct archive row.
	repos[0].Subject = "Deep Learning"
	inserted, err = store.ArchiveRepositories(ctx, repos[:1])
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	var count int
	require.NoError(t, store.pool.QueryRow(ctx, "SELECT count(*) FROM repositories").Scan(&count))
	assert.Equal(t, 3, count)

	var language *string
	require.NoError(t, store.pool.QueryRow(ctx,
		"SELECT language FROM repositories WHERE github_id = 2").Scan(&language))
	assert.Nil(t, language, "null columns round-trip as NULL")

	users := []model.User{
		{
			ID:        11,
			Username:  "alice",
			Name:      model.StringOf("Alice"),
			Type:      model.OwnerTypeUser,
			Location:  model.StringOf("Toronto, Canada"),
			Hireable:  model.NullBool{Bool: true, Valid: true},
			Followers: 42,
			Subject:   "Machine Learning",
		},
	}

	inserted, err = store.ArchiveUsers(ctx, users)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	inserted, err = store.ArchiveUsers(ctx, users)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}
