package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/randalmurphal/njector/pkg/njector/event"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists the journal to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens or creates a journal database.
// The path should be a file path (e.g., "./njector.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS journal (
			sequence INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			revision INTEGER NOT NULL DEFAULT 0,
			kind TEXT NOT NULL,
			service_key TEXT NOT NULL,
			service_type TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_journal_service_key
		ON journal(service_key)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(e Entry) (Entry, error) {
	if !e.Kind.Valid() {
		return Entry{}, fmt.Errorf("%w: kind %q", ErrInvalidEntry, e.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	res, err := s.db.Exec(`
		INSERT INTO journal (event_id, run_id, revision, kind, service_key, service_type, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.EventID, e.RunID, int64(e.Revision), string(e.Kind), e.Key, e.ServiceType, e.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("read sequence: %w", err)
	}
	e.Sequence = seq
	return e, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Entry, error) {
	return s.query(`
		SELECT sequence, event_id, run_id, revision, kind, service_key, service_type, timestamp
		FROM journal
		ORDER BY sequence
	`)
}

// ListByKey implements Store.
func (s *SQLiteStore) ListByKey(key string) ([]Entry, error) {
	return s.query(`
		SELECT sequence, event_id, run_id, revision, kind, service_key, service_type, timestamp
		FROM journal
		WHERE service_key = ?
		ORDER BY sequence
	`, key)
}

func (s *SQLiteStore) query(q string, args ...any) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var revision int64
		var kind, timestamp string
		if err := rows.Scan(&e.Sequence, &e.EventID, &e.RunID, &revision, &kind, &e.Key, &e.ServiceType, &timestamp); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp of entry %d: %w", e.Sequence, err)
		}
		e.Revision = uint64(revision)
		e.Kind = event.Kind(kind)
		e.Timestamp = ts
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
