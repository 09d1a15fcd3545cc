package tokencache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/healthrocket/app/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDatabase(context.Background(), "file:tokencache?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`DELETE FROM token_cache`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_GetEmpty(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	s, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestSQLiteRepository_SetGetRoundtrip(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := &models.Session{
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UserID:       "u-1",
		Email:        "a@b.c",
	}
	require.NoError(t, repo.Set(ctx, want))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSQLiteRepository_SetOverwrites(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, &models.Session{AccessToken: "one", UserID: "u-1"}))
	require.NoError(t, repo.Set(ctx, &models.Session{AccessToken: "two", UserID: "u-1"}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "two", got.AccessToken)
}

func TestSQLiteRepository_Clear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, &models.Session{AccessToken: "at", UserID: "u-1"}))
	require.NoError(t, repo.Clear(ctx))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}
