package repomanager

import (
	"context"
	"database/sql"

	"github.com/healthrocket/app/internal/dbx"
	"github.com/healthrocket/app/internal/server/repositories/assessments"
	"github.com/healthrocket/app/internal/server/repositories/identities"
	"github.com/healthrocket/app/internal/server/repositories/launchcodes"
	"github.com/healthrocket/app/internal/server/repositories/profiles"
	"github.com/healthrocket/app/internal/server/repositories/refreshtokens"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can run several repos inside one transaction.
type RepositoryManager interface {
	Identities(db dbx.DBTX) identities.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Assessments(db dbx.DBTX) assessments.Repository
	LaunchCodes(db dbx.DBTX) launchcodes.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
