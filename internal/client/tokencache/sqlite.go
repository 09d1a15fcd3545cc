package tokencache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/healthrocket/app/internal/client/models"
	"github.com/healthrocket/app/internal/dbx"
)

const sessionKey = "session"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// InitDatabase opens (creating if needed) the local cache database and
// ensures the schema exists.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS token_cache (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to init cache schema: %w", err)
	}
	return db, nil
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.Session, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM token_cache WHERE key = ?`, sessionKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, fmt.Errorf("failed to decode cached session: %w", err)
	}
	return &s, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, session *models.Session) error {
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO token_cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, sessionKey, value)
	if err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM token_cache WHERE key = ?`, sessionKey)
	if err != nil {
		return fmt.Errorf("failed to clear cached session: %w", err)
	}
	return nil
}
