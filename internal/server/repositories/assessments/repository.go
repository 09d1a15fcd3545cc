package assessments

import (
	"context"

	"github.com/healthrocket/app/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Assessment) (*models.Assessment, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Assessment, error)
}
