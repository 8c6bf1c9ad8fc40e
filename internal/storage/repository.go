// Package storage is the SQLite persistence backend: a key→document table
// for per-user record streams plus the users table for accounts.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"naildash/internal/auth"
	"naildash/internal/persist"
)

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ persist.Documents   = (*SQLiteRepository)(nil)
	_ auth.UserRepository = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements persist.Documents.
func (r *SQLiteRepository) Load(ctx context.Context, owner, stream string) ([]byte, bool, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT body FROM documents WHERE owner = ? AND stream = ?
	`, owner, stream).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load document %s/%s: %w", owner, stream, err)
	}
	return body, true, nil
}

// Save implements persist.Documents. The whole document is replaced in one
// statement; there is no partial write to interrupt.
func (r *SQLiteRepository) Save(ctx context.Context, owner, stream string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (owner, stream, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner, stream) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, owner, stream, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save document %s/%s: %w", owner, stream, err)
	}

	slog.DebugContext(ctx, "Document saved", "owner", owner, "stream", stream, "bytes", len(data))
	return nil
}

// CreateUser implements auth.UserRepository.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u auth.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Username, u.PasswordHash, u.CreatedAt.UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return auth.ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", u.ID, "username", u.Username)
	return nil
}

// UserByUsername implements auth.UserRepository. Lookups are
// case-insensitive.
func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (auth.User, bool, error) {
	var u auth.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE LOWER(username) = LOWER(?)
	`, strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, false, nil
	}
	if err != nil {
		return auth.User{}, false, fmt.Errorf("get user by username: %w", err)
	}
	return u, true, nil
}
