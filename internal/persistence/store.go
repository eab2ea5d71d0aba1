// Package persistence provides SQLite-backed save storage. The session
// snapshot is kept as a single JSON document in a one-row table; a
// missing or unreadable save simply means starting fresh.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/acreage/internal/session"
)

// Store wraps a SQLite connection holding the save slot.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the save database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// SaveSnapshot writes the snapshot document, replacing any previous
// save.
func (st *Store) SaveSnapshot(snap *session.Snapshot) error {
	data, err := session.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = st.conn.Exec(
		"INSERT OR REPLACE INTO saves (id, data, saved_at) VALUES (1, ?, ?)",
		string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// LoadSnapshot reads the saved snapshot. Returns ok=false when no save
// exists or the stored document is corrupt; both mean a fresh session,
// never a failure. The error return is reserved for real I/O trouble.
func (st *Store) LoadSnapshot() (*session.Snapshot, bool, error) {
	var data string
	err := st.conn.Get(&data, "SELECT data FROM saves WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read save: %w", err)
	}

	snap, err := session.DecodeSnapshot([]byte(data))
	if err != nil {
		slog.Warn("discarding corrupt save", "error", err)
		return nil, false, nil
	}
	return snap, true, nil
}

// Clear deletes the save slot. Used on session reset.
func (st *Store) Clear() error {
	_, err := st.conn.Exec("DELETE FROM saves WHERE id = 1")
	return err
}
