// Package tokencache persists the auth session locally so the client can
// restore it across restarts. This is the only state the app keeps on disk.
package tokencache

import (
	"context"

	"github.com/healthrocket/app/internal/client/models"
)

type Repository interface {
	// Get returns the cached session, or nil when none is stored.
	Get(ctx context.Context) (*models.Session, error)
	Set(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context) error
}
