// Package profiles provides a PostgreSQL-backed repository for the per-user
// application records.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/dbx"
	"github.com/healthrocket/app/internal/server/models"
)

const profileColumns = `
	id, email, name, fuel_points, level, burn_streak,
	health_score, healthspan_years, health_assessments_completed,
	onboarding_completed, onboarding_step, created_at, updated_at
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.Email, &p.Name, &p.FuelPoints, &p.Level, &p.BurnStreak,
		&p.HealthScore, &p.HealthspanYears, &p.HealthAssessmentsCompleted,
		&p.OnboardingCompleted, &p.OnboardingStep, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO users (id, email, name, level, onboarding_completed, onboarding_step)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + profileColumns
	row := r.db.QueryRowContext(ctx, query,
		profile.ID, profile.Email, profile.Name, profile.Level,
		profile.OnboardingCompleted, profile.OnboardingStep)
	p, err := scanProfile(row)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

// Patch updates only the fields present in patch, in a single statement, and
// returns the resulting row. An empty patch is a no-op read.
func (r *PostgresRepository) Patch(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error) {
	set := make([]string, 0, 7)
	args := make([]any, 0, 8)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.HealthScore != nil {
		add("health_score", *patch.HealthScore)
	}
	if patch.HealthspanYears != nil {
		add("healthspan_years", *patch.HealthspanYears)
	}
	if patch.HealthAssessmentsCompleted != nil {
		add("health_assessments_completed", *patch.HealthAssessmentsCompleted)
	}
	if patch.OnboardingCompleted != nil {
		add("onboarding_completed", *patch.OnboardingCompleted)
	}
	if patch.OnboardingStep != nil {
		add("onboarding_step", *patch.OnboardingStep)
	}

	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	set = append(set, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(set, ", "), len(args), profileColumns)

	return scanProfile(r.db.QueryRowContext(ctx, query, args...))
}
