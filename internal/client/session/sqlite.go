package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/pitchview/client/internal/client/migrations"
	"github.com/pitchview/client/internal/client/models"
	"github.com/pitchview/client/internal/dbx"
)

// SQLiteStore keeps the token pair in a local sqlite key/value table and the
// scratch values in memory.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	scratch map[string]string
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, scratch: make(map[string]string)}
}

// Open opens (creating if needed) the session database at path and applies
// pending migrations. The caller owns closing the returned handle.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Set stores both tokens in a single transaction so the pair is replaced
// atomically.
func (s *SQLiteStore) Set(ctx context.Context, pair models.TokenPair) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := put(ctx, tx, AccessTokenKey, pair.Access); err != nil {
			return err
		}
		return put(ctx, tx, RefreshTokenKey, pair.Refresh)
	})
}

// Clear removes both tokens.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session WHERE key IN (?, ?)`, AccessTokenKey, RefreshTokenKey)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Tokens returns the stored pair; missing keys read as empty strings.
func (s *SQLiteStore) Tokens(ctx context.Context) (models.TokenPair, error) {
	var pair models.TokenPair
	var err error
	if pair.Access, err = s.get(ctx, AccessTokenKey); err != nil {
		return models.TokenPair{}, err
	}
	if pair.Refresh, err = s.get(ctx, RefreshTokenKey); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

func (s *SQLiteStore) PutScratch(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scratch[key] = value
}

// TakeScratch returns the value and removes it, mirroring the
// read-and-clear consumption of session-scoped storage.
func (s *SQLiteStore) TakeScratch(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.scratch[key]
	delete(s.scratch, key)
	return v
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func put(ctx context.Context, tx dbx.DBTX, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO session(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}
