package payloads

import (
	"time"

	"github.com/dariosuarez/softmart-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreatedEvent signals a new order was placed.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID       `json:"orderId"`
	UserID      uuid.UUID       `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
}

// OrderStatusChangedEvent is emitted whenever an order moves between statuses.
type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID         `json:"orderId"`
	UserID     uuid.UUID         `json:"userId"`
	FromStatus enums.OrderStatus `json:"fromStatus"`
	ToStatus   enums.OrderStatus `json:"toStatus"`
	Note       string            `json:"note,omitempty"`
	ChangedAt  time.Time         `json:"changedAt"`
}

// OrderExpiredEvent describes the payload when stale pending orders are cancelled.
type OrderExpiredEvent struct {
	OrderID     uuid.UUID `json:"orderId"`
	UserID      uuid.UUID `json:"userId"`
	ExpiredAt   time.Time `json:"expiredAt"`
	PendingDays int       `json:"pendingDays"`
}

// LicenseIssuedEvent is emitted when license keys are generated for a completed order.
type LicenseIssuedEvent struct {
	OrderID    uuid.UUID   `json:"orderId"`
	UserID     uuid.UUID   `json:"userId"`
	LicenseIDs []uuid.UUID `json:"licenseIds"`
	IssuedAt   time.Time   `json:"issuedAt"`
}
