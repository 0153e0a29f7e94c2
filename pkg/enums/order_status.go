package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// terminalOrderStatuses lists states no order may transition out of.
var terminalOrderStatuses = map[OrderStatus]bool{
	OrderStatusCancelled: true,
	OrderStatusRefunded:  true,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return terminalOrderStatuses[s]
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatuses returns the closed set of statuses in declaration order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}

// OrderStatusDisplay carries the presentation metadata for a status.
type OrderStatusDisplay struct {
	Label string `json:"label"`
	Badge string `json:"badge"`
}

var orderStatusDisplayByStatus = map[OrderStatus]OrderStatusDisplay{
	OrderStatusPending:   {Label: "Pending", Badge: "warning"},
	OrderStatusCompleted: {Label: "Completed", Badge: "success"},
	OrderStatusCancelled: {Label: "Cancelled", Badge: "neutral"},
	OrderStatusRefunded:  {Label: "Refunded", Badge: "danger"},
}

// Display returns the presentation metadata for the status. Unknown values
// fall back to the raw string with a neutral badge.
func (s OrderStatus) Display() OrderStatusDisplay {
	if meta, ok := orderStatusDisplayByStatus[s]; ok {
		return meta
	}
	return OrderStatusDisplay{Label: string(s), Badge: "neutral"}
}
