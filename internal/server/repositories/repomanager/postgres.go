// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/healthrocket/app/internal/dbx"
	"github.com/healthrocket/app/internal/server/migrations"
	"github.com/healthrocket/app/internal/server/repositories/assessments"
	"github.com/healthrocket/app/internal/server/repositories/identities"
	"github.com/healthrocket/app/internal/server/repositories/launchcodes"
	"github.com/healthrocket/app/internal/server/repositories/profiles"
	"github.com/healthrocket/app/internal/server/repositories/refreshtokens"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Identities(db dbx.DBTX) identities.Repository {
	return identities.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Assessments(db dbx.DBTX) assessments.Repository {
	return assessments.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) LaunchCodes(db dbx.DBTX) launchcodes.Repository {
	return launchcodes.NewPostgresRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Open connects to the PostgreSQL instance at dsn using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}
