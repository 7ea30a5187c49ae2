package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/pkg/database"
)

func newTestRepo(t *testing.T) *GormItemRepository {
	t.Helper()

	db, err := database.New(&database.Config{
		Driver:   "sqlite",
		FilePath: filepath.Join(t.TempDir(), "items.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.AutoMigrate(db, &domain.ItemModel{}))
	return NewGormItemRepository(db)
}

func TestGormItemRepository_CreateAssignsMonotonicIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := &domain.Item{Title: "first", CreatedAt: now}
	second := &domain.Item{Title: "second", CreatedAt: now}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
}

func TestGormItemRepository_GetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	desc := "demo"
	img := "uploads/abc.png"
	created := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	item := &domain.Item{Title: "pytest", Description: &desc, ImagePath: &img, CreatedAt: created}
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "pytest", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "demo", *got.Description)
	require.NotNil(t, got.ImagePath)
	assert.Equal(t, img, *got.ImagePath)
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = repo.GetByID(ctx, item.ID+100)
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestGormItemRepository_NullableColumns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item := &domain.Item{Title: "bare", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.ImagePath)
}
