package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/pagination"
)

// ListFilters narrow the public software catalog query.
type ListFilters struct {
	CategoryID *uuid.UUID
	Search     string
}

// Repository handles software catalog persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Software, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Software, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Software, string, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("published = ?", true)

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Software
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return rows, nextCursor, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Software, error) {
	var software models.Software
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&software).Error
	if err != nil {
		return nil, err
	}
	return &software, nil
}
