package launchcodes

import (
	"context"

	"github.com/healthrocket/app/internal/server/models"
)

type Repository interface {
	FindActive(ctx context.Context, code string) (*models.LaunchCode, error)
	RecordUsage(ctx context.Context, userID, codeID string) error
}
