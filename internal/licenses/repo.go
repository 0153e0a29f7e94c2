package licenses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
)

// Repository handles license-key persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateKeys(ctx context.Context, keys []models.LicenseKey) error
	ListForOrderItems(ctx context.Context, itemIDs []uuid.UUID) ([]models.LicenseKey, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.LicenseKey, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a license repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateKeys(ctx context.Context, keys []models.LicenseKey) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&keys).Error
}

func (r *repository) ListForOrderItems(ctx context.Context, itemIDs []uuid.UUID) ([]models.LicenseKey, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var keys []models.LicenseKey
	if err := r.db.WithContext(ctx).
		Where("order_item_id IN ?", itemIDs).
		Order("issued_at ASC").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.LicenseKey, error) {
	var keys []models.LicenseKey
	if err := r.db.WithContext(ctx).
		Joins("JOIN order_items ON order_items.id = license_keys.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ?", userID).
		Order("license_keys.issued_at DESC").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
