// Package store archives raw scrape batches in Postgres. Archiving is
// optional; the pipeline's stages still exchange data through CSV files, the
// database is a durable record of what each run collected.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github-trends/internal/model"
)

// Store holds the database connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to the database, applies pending migrations, and returns a
// ready Store.
func Open(ctx context.Context, dbURL string, logger *slog.Logger) (*Store, error) {
	if err := runMigrations(dbURL); err != nil {
		return nil, fmt.Errorf("running database migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("Database connection established")

	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// ArchiveRepositories inserts a scrape batch of repositories. Rows already
// archived from a previous run are left untouched.
func (s *Store) ArchiveRepositories(ctx context.Context, repos []model.Repository) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // Rollback is a no-op once committed.

	batch := &pgx.Batch{}
	for _, r := range repos {
		batch.Queue(`
			INSERT INTO repositories
				(github_id, repo_name, full_name, description, created, language,
				 owner_type, username, stars, forks, subscribers, open_issues, topics, subject)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (github_id, subject) DO NOTHING`,
			r.ID, r.Name, r.FullName, nullable(r.Description), r.Created.Time,
			nullable(r.Language), r.OwnerType, r.Username, r.Stars, r.Forks,
			r.Subscribers, r.OpenIssues, []string(r.Topics), r.Subject)
	}

	inserted, err := sendBatch(ctx, tx, batch)
	if err != nil {
		return 0, err
	}
	return inserted, tx.Commit(ctx)
}

// ArchiveUsers inserts a scrape batch of owner profiles.
func (s *Store) ArchiveUsers(ctx context.Context, users []model.User) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(`
			INSERT INTO users
				(github_id, username, name, user_type, bio, created, company, email,
				 location, hireable, followers, following, public_gists, public_repos, subject)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (github_id, subject) DO NOTHING`,
			u.ID, u.Username, nullable(u.Name), u.Type, nullable(u.Bio),
			u.Created.Time, nullable(u.Company), nullable(u.Email),
			nullable(u.Location), nullableBool(u.Hireable), u.Followers,
			u.Following, u.PublicGists, u.PublicRepos, u.Subject)
	}

	inserted, err := sendBatch(ctx, tx, batch)
	if err != nil {
		return 0, err
	}
	return inserted, tx.Commit(ctx)
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) (int64, error) {
	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return 0, err
		}
		inserted += tag.RowsAffected()
	}
	return inserted, results.Close()
}

func runMigrations(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func nullable(s model.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullableBool(b model.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	return &b.Bool
}
