package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS seen_incidents (
	stream  TEXT    NOT NULL,
	id      TEXT    NOT NULL,
	seen_at INTEGER NOT NULL,
	PRIMARY KEY (stream, id)
)`

// SQLiteStore persists seen IDs in a local database so dedup survives
// restarts. Several streams can share one file.
type SQLiteStore struct {
	db     *sql.DB
	stream string
	ttl    time.Duration
	now    func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at dsn.
func NewSQLiteStore(config SQLiteConfig, stream string, ttl time.Duration) (*SQLiteStore, error) {
	dsn := strings.TrimSpace(config.Path)
	if dsn == "" {
		dsn = defaultSQLiteDSN
	}
	if err := ensureSQLiteDir(dsn); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		stream: stream,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *SQLiteStore) Contains(ctx context.Context, id string) (bool, error) {
	var seenAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT seen_at FROM seen_incidents WHERE stream = ? AND id = ?", s.stream, id,
	).Scan(&seenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query seen incident: %w", err)
	}
	if s.ttl > 0 && seenAt <= s.cutoff() {
		if _, err := s.db.ExecContext(ctx,
			"DELETE FROM seen_incidents WHERE stream = ? AND id = ?", s.stream, id,
		); err != nil {
			return false, fmt.Errorf("expire seen incident: %w", err)
		}
		return false, nil
	}
	return true, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seen_incidents (stream, id, seen_at) VALUES (?, ?, ?)
		 ON CONFLICT(stream, id) DO UPDATE SET seen_at = excluded.seen_at`,
		s.stream, id, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert seen incident: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	var err error
	if s.ttl > 0 {
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM seen_incidents WHERE stream = ? AND seen_at > ?", s.stream, s.cutoff(),
		).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM seen_incidents WHERE stream = ?", s.stream,
		).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count seen incidents: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// cutoff is the newest insert time, in unix nanoseconds, that has expired.
func (s *SQLiteStore) cutoff() int64 {
	return s.now().Add(-s.ttl).UnixNano()
}

func ensureSQLiteDir(dsn string) error {
	if strings.HasPrefix(dsn, "file:") {
		dsn = strings.TrimPrefix(dsn, "file:")
		if idx := strings.IndexRune(dsn, '?'); idx >= 0 {
			dsn = dsn[:idx]
		}
	}
	if dsn == "" || dsn == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
