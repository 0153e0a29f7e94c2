package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dariosuarez/softmart-backend/pkg/enums"
)

// Payment records the gateway capture tied to an order. Amount mirrors the
// order total at capture time.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex" json:"orderId"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Method        enums.PaymentMethod `gorm:"column:method;type:payment_method;not null" json:"method"`
	Status        enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'" json:"status"`
	TransactionID string              `gorm:"column:transaction_id;not null" json:"transactionId"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
