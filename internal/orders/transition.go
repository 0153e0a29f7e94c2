package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
)

// ApplyTransition moves an order to the target status and returns the updated
// order value. The input order is never mutated: history, items, and payment
// are copied before any change. Exactly one history entry is appended per
// applied transition, and moving to REFUNDED flips the payment to refunded.
//
// Rejections:
//   - missing order id
//   - unknown target status
//   - target equals the current status (self-transition)
//   - current status is terminal (CANCELLED, REFUNDED)
func ApplyTransition(order models.Order, target enums.OrderStatus, actorID uuid.UUID, note *string, now time.Time) (models.Order, error) {
	if order.ID == uuid.Nil {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !target.IsValid() {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", target))
	}
	if target == order.Status {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order already has status %s", target))
	}
	if order.Status.IsTerminal() {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order status %s is terminal", order.Status))
	}

	next := copyOrder(order)
	next.Status = target
	next.UpdatedAt = now

	entry := models.OrderHistory{
		OrderID:   order.ID,
		UserID:    actorID,
		Status:    target,
		Note:      transitionNote(target, note),
		CreatedAt: now,
	}
	next.History = append(next.History, entry)

	if target == enums.OrderStatusRefunded && next.Payment != nil {
		next.Payment.Status = enums.PaymentStatusRefunded
		next.Payment.UpdatedAt = now
	}

	return next, nil
}

func transitionNote(target enums.OrderStatus, note *string) *string {
	if note != nil && *note != "" {
		copied := *note
		return &copied
	}
	generated := "Status changed to " + string(target)
	return &generated
}

func copyOrder(order models.Order) models.Order {
	next := order

	if order.History != nil {
		next.History = make([]models.OrderHistory, len(order.History))
		copy(next.History, order.History)
	}
	if order.Items != nil {
		next.Items = make([]models.OrderItem, len(order.Items))
		copy(next.Items, order.Items)
	}
	if order.Payment != nil {
		payment := *order.Payment
		next.Payment = &payment
	}

	return next
}
