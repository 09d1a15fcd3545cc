package profiles

import (
	"context"

	"github.com/healthrocket/app/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	Get(ctx context.Context, id string) (*models.Profile, error)
	Patch(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error)
}
