package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem captures the snapshot of a purchased software product.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"orderId"`
	SoftwareID  uuid.UUID       `gorm:"column:software_id;type:uuid;not null" json:"softwareId"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Software    *Software       `gorm:"foreignKey:SoftwareID" json:"software,omitempty"`
	LicenseKeys []LicenseKey    `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"licenseKeys,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
