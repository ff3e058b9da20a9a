package uploadstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// SQLStore persists entries in an "uploads" table. The queries work on both SQLite and PostgreSQL.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenSQLite opens (creating if needed) the SQLite index at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := runMigrations("sqlite3://" + path); err != nil {
		db.Close()
		return nil, err
	}

	return NewSQLStore(db), nil
}

// OpenPostgres connects through the pgx stdlib driver and migrates the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*SQLStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runMigrations(pgxMigrateURL(databaseURL)); err != nil {
		db.Close()
		return nil, err
	}

	return NewSQLStore(db), nil
}

func pgxMigrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, scheme)
		}
	}
	return databaseURL
}

func (s *SQLStore) Put(ctx context.Context, documentID, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (document_id, local_path) VALUES ($1, $2)
		 ON CONFLICT (document_id) DO UPDATE SET local_path = excluded.local_path`,
		documentID, path,
	)
	if err != nil {
		return fmt.Errorf("put upload: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, documentID string) (string, error) {
	var path string
	err := s.db.QueryRowContext(ctx,
		`SELECT local_path FROM uploads WHERE document_id = $1`,
		documentID,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get upload: %w", err)
	}
	return path, nil
}

func (s *SQLStore) Remove(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
