package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	software := `
CREATE TABLE IF NOT EXISTS software (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  category_id TEXT,
  name TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(software).Error)
	return db
}

func seedListing(t *testing.T, db *gorm.DB, name string, categoryID *uuid.UUID, published bool, created time.Time) *models.Software {
	t.Helper()

	sw := &models.Software{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Price:      decimal.RequireFromString("29.99"),
		Published:  published,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(sw).Error)
	return sw
}

func TestCatalogListOnlyPublished(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	published := seedListing(t, db, "Visible", nil, true, now.Add(-time.Hour))
	seedListing(t, db, "Hidden", nil, false, now)

	rows, _, err := repo.List(context.Background(), ListFilters{}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, published.ID, rows[0].ID)
}

func TestCatalogListCategoryAndSearch(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := &models.Category{ID: uuid.New(), Name: "Design"}
	require.NoError(t, db.Create(category).Error)

	now := time.Now().UTC().Truncate(time.Second)
	match := seedListing(t, db, "PhotoForge Pro", &category.ID, true, now.Add(-time.Hour))
	seedListing(t, db, "CodePilot IDE", nil, true, now)

	rows, _, err := repo.List(context.Background(), ListFilters{CategoryID: &category.ID}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, match.ID, rows[0].ID)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "Design", rows[0].Category.Name)

	bySearch, _, err := repo.List(context.Background(), ListFilters{Search: "photoforge"}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, match.ID, bySearch[0].ID)
}

func TestCatalogListPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	older := seedListing(t, db, "Older", nil, true, now.Add(-2*time.Hour))
	newer := seedListing(t, db, "Newer", nil, true, now.Add(-time.Hour))

	first, cursor, err := repo.List(context.Background(), ListFilters{}, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, newer.ID, first[0].ID)
	require.NotEmpty(t, cursor)

	second, next, err := repo.List(context.Background(), ListFilters{}, pagination.Params{Limit: 1, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, older.ID, second[0].ID)
	assert.Empty(t, next)
}

func TestCatalogFindByIDMissing(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
