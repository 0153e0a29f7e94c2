package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dariosuarez/softmart-backend/pkg/enums"
)

// Order is a customer's purchase record for one or more software items.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null" json:"userId"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'PENDING'" json:"status"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	User        *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payment     *Payment          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
	History     []OrderHistory    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"history"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// LatestHistory returns the most recent history entry, or nil when the order
// carries no history (which only happens on malformed input).
func (o *Order) LatestHistory() *OrderHistory {
	if len(o.History) == 0 {
		return nil
	}
	return &o.History[len(o.History)-1]
}
