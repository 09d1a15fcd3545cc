// Package identities provides a PostgreSQL-backed repository for
// authentication records.
package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/dbx"
	"github.com/healthrocket/app/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	query := `
		INSERT INTO identities (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		identity.ID, identity.Email, identity.PasswordHash).Scan(&identity.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return identity, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM identities
		WHERE lower(email) = lower($1)
	`
	identity := &models.Identity{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return identity, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM identities
		WHERE id = $1
	`
	identity := &models.Identity{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return identity, nil
}
