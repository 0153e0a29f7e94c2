package models

import (
	"time"

	"github.com/google/uuid"
)

// LicenseKey is a software activation key issued when the owning order
// completes. Keys never exist for orders in any other status.
type LicenseKey struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderItemID uuid.UUID `gorm:"column:order_item_id;type:uuid;not null" json:"orderItemId"`
	Key         string    `gorm:"column:key;not null;uniqueIndex" json:"key"`
	IssuedAt    time.Time `gorm:"column:issued_at;autoCreateTime" json:"issuedAt"`
}
