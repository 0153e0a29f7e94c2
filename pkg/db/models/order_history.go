package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dariosuarez/softmart-backend/pkg/enums"
)

// OrderHistory is an immutable record of a single status transition. Rows are
// append-only; an order always carries at least its PENDING creation entry.
type OrderHistory struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null" json:"orderId"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null" json:"userId"`
	Status    enums.OrderStatus `gorm:"column:status;type:order_status;not null" json:"status"`
	Note      *string           `gorm:"column:note" json:"note,omitempty"`
	User      *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
