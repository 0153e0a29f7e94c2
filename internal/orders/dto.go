package orders

import (
	"github.com/google/uuid"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
)

// ListFilters describe the repository-level inputs for the order list.
type ListFilters struct {
	UserID *uuid.UUID
	Status *enums.OrderStatus
}

// ListInput carries the full order-list request from the API layer.
type ListInput struct {
	UserID *uuid.UUID
	Limit  int
	Cursor string
	Query  QueryParams
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// UpdateStatusInput captures a status-change request against one order.
type UpdateStatusInput struct {
	OrderID      uuid.UUID
	TargetStatus enums.OrderStatus
	Note         *string
	ActorUserID  uuid.UUID
	ActorRole    enums.UserRole
}
