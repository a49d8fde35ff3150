// ABOUTME: Postgres storage implementation for layers and features
// ABOUTME: Shares its queries with SQLite through placeholder rebinding

package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresDB implements Repository on a Postgres server.
type PostgresDB struct {
	sqlStore
}

// Compile-time check that PostgresDB implements Repository.
var _ Repository = (*PostgresDB)(nil)

// NewPostgresDB connects to dsn and creates the schema if needed.
func NewPostgresDB(dsn string) (*PostgresDB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	s := &PostgresDB{sqlStore: sqlStore{db: db, dollarParams: true}}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *PostgresDB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS layers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			editable BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS features (
			id TEXT PRIMARY KEY,
			layer_id TEXT NOT NULL REFERENCES layers(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			points TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_features_layer_id ON features(layer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_features_created_at ON features(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
