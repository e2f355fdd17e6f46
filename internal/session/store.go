// Package session holds the persisted client session and the guard that
// gates access to protected operations.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"example.com/fitcoach/internal/domain"
)

// Persisted keys. All four are written together at login; the guard requires
// isLoggedIn and authToken to agree before admitting access.
const (
	keyLoggedIn = "isLoggedIn"
	keyToken    = "authToken"
	keyUserID   = "userId"
	keyRole     = "userRole"
)

// Session is the authenticated identity as persisted by the store. The
// persisted copy is authoritative; callers should reload rather than cache.
type Session struct {
	LoggedIn bool
	Token    string
	UserID   string
	Role     domain.Role
}

// Store persists the session as key/value rows in a local SQLite file. It is
// the only shared mutable resource between components, so writes are
// serialized; reads may run concurrently.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens (creating if needed) the session database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the persisted session. Missing keys load as zero values, so a
// fresh store yields an unauthenticated session rather than an error.
func (s *Store) Load(ctx context.Context) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session`)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	var sess Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Session{}, fmt.Errorf("load session: %w", err)
		}
		switch key {
		case keyLoggedIn:
			sess.LoggedIn = value == "true"
		case keyToken:
			sess.Token = value
		case keyUserID:
			sess.UserID = value
		case keyRole:
			sess.Role = domain.Role(value)
		}
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// Save overwrites the persisted session in a single transaction.
func (s *Store) Save(ctx context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	defer tx.Rollback()

	loggedIn := "false"
	if sess.LoggedIn {
		loggedIn = "true"
	}
	pairs := [][2]string{
		{keyLoggedIn, loggedIn},
		{keyToken, sess.Token},
		{keyUserID, sess.UserID},
		{keyRole, string(sess.Role)},
	}
	for _, pair := range pairs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			pair[0], pair[1]); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes every persisted key, returning the store to the
// unauthenticated state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or "" when none is persisted. It
// satisfies the API client's token source; a read failure is treated as an
// absent token so the request proceeds unauthenticated.
func (s *Store) Token() string {
	sess, err := s.Load(context.Background())
	if err != nil {
		return ""
	}
	return sess.Token
}
