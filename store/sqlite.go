package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/gruntwork-io/go-commons/errors"
	"k8s.io/utils/clock"

	_ "modernc.org/sqlite"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS tracks (
	name TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLiteStore keeps one row per track in a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	clock clock.PassiveClock
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string, cl clock.PassiveClock) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.WithStackTrace(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	// persistence goroutines share a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.WithStackTrace(err)
	}
	return &SQLiteStore{db: db, clock: cl}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracks (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, string(data), s.clock.Now().UnixMilli())
	if err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}

// LoadAll returns the entries sorted by name.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, data FROM tracks ORDER BY name`)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return nil, errors.WithStackTrace(err)
		}
		out = append(out, Entry{Name: name, Data: []byte(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tracks WHERE name = ?`, name); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
