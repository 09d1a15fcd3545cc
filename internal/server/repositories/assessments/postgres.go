// Package assessments provides a PostgreSQL-backed repository for the
// append-only health assessment history.
package assessments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthrocket/app/internal/dbx"
	"github.com/healthrocket/app/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Assessment) (*models.Assessment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `
		INSERT INTO health_assessments
			(id, user_id, mindset, sleep, exercise, nutrition, biohacking, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.Mindset, a.Sleep, a.Exercise, a.Nutrition, a.Biohacking, a.Score).
		Scan(&a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]*models.Assessment, error) {
	query := `
		SELECT id, user_id, mindset, sleep, exercise, nutrition, biohacking, score, created_at
		FROM health_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Assessment
	for rows.Next() {
		a := &models.Assessment{}
		err := rows.Scan(&a.ID, &a.UserID, &a.Mindset, &a.Sleep, &a.Exercise,
			&a.Nutrition, &a.Biohacking, &a.Score, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
