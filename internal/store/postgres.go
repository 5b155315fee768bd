package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS match_results (
    id BIGSERIAL PRIMARY KEY,
    session_id TEXT NOT NULL,
    code TEXT NOT NULL,
    outcome TEXT NOT NULL,
    turns INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    obstacle_count INTEGER NOT NULL,
    zombie_count INTEGER NOT NULL,
    zombies_at_end INTEGER NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_match_results_finished_at ON match_results(finished_at DESC);
`

// defaultResultLimit caps RecentResults when the caller passes no limit.
const defaultResultLimit = 100

// PostgresStore implements ResultStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// SaveResult inserts a finished game.
func (s *PostgresStore) SaveResult(ctx context.Context, r MatchResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO match_results
		 (session_id, code, outcome, turns, width, height, obstacle_count, zombie_count, zombies_at_end, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.SessionID, r.Code, r.Outcome, r.Turns, r.Width, r.Height,
		r.ObstacleCount, r.ZombieCount, r.ZombiesAtEnd, r.FinishedAt)
	return err
}

// RecentResults returns the newest results first.
func (s *PostgresStore) RecentResults(ctx context.Context, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = defaultResultLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, code, outcome, turns, width, height, obstacle_count, zombie_count, zombies_at_end, finished_at
		 FROM match_results ORDER BY finished_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanResult)
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanResult(row pgx.CollectableRow) (MatchResult, error) {
	var r MatchResult
	err := row.Scan(&r.SessionID, &r.Code, &r.Outcome, &r.Turns, &r.Width, &r.Height,
		&r.ObstacleCount, &r.ZombieCount, &r.ZombiesAtEnd, &r.FinishedAt)
	return r, err
}
