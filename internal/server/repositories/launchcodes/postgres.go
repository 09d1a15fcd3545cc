// Package launchcodes provides a PostgreSQL-backed repository for referral
// codes and their usage records.
package launchcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/dbx"
	"github.com/healthrocket/app/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindActive looks up an active code case-insensitively. Inactive or unknown
// codes both map to common.ErrNotFound; callers cannot tell them apart.
func (r *PostgresRepository) FindActive(ctx context.Context, code string) (*models.LaunchCode, error) {
	query := `
		SELECT id, code, is_active
		FROM launch_codes
		WHERE upper(code) = upper($1) AND is_active
	`
	lc := &models.LaunchCode{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(&lc.ID, &lc.Code, &lc.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return lc, nil
}

// RecordUsage inserts a usage row. Repeat usage of the same code by the same
// user is idempotent.
func (r *PostgresRepository) RecordUsage(ctx context.Context, userID, codeID string) error {
	query := `
		INSERT INTO launch_code_usages (user_id, code_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, code_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, codeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
