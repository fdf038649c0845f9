package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS profiles (
	profile_id TEXT PRIMARY KEY,
	player_name TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// ProfileStore persists player names in a local SQLite file.
type ProfileStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the profile database at path.
func Open(path string) (*ProfileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create profiles table: %w", err)
	}
	return &ProfileStore{db: db, now: time.Now}, nil
}

func (s *ProfileStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *ProfileStore) PlayerName(ctx context.Context, profileID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT player_name FROM profiles WHERE profile_id = ?`, profileID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get player name: %w", err)
	}
	return name, nil
}

func (s *ProfileStore) SetPlayerName(ctx context.Context, profileID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (profile_id, player_name, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET player_name = excluded.player_name, updated_at = excluded.updated_at`,
		profileID, name, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put player name: %w", err)
	}
	return nil
}
