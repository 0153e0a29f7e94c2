package enums

// OrderSortField names the columns the order list can be sorted on.
type OrderSortField string

const (
	OrderSortID          OrderSortField = "id"
	OrderSortUserID      OrderSortField = "userId"
	OrderSortTotalAmount OrderSortField = "totalAmount"
	OrderSortStatus      OrderSortField = "status"
	OrderSortCreatedAt   OrderSortField = "createdAt"
	OrderSortUpdatedAt   OrderSortField = "updatedAt"
)

var validOrderSortFields = []OrderSortField{
	OrderSortID,
	OrderSortUserID,
	OrderSortTotalAmount,
	OrderSortStatus,
	OrderSortCreatedAt,
	OrderSortUpdatedAt,
}

// String implements fmt.Stringer.
func (f OrderSortField) String() string {
	return string(f)
}

// IsValid reports whether the value is a known OrderSortField.
func (f OrderSortField) IsValid() bool {
	for _, candidate := range validOrderSortFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseOrderSortField converts raw input into an OrderSortField. Malformed
// input falls back to createdAt rather than erroring, matching the query
// service's default-over-reject policy.
func ParseOrderSortField(value string) OrderSortField {
	for _, candidate := range validOrderSortFields {
		if string(candidate) == value {
			return candidate
		}
	}
	return OrderSortCreatedAt
}

// SortDirection orders results ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection converts raw input into a SortDirection, defaulting to
// descending (newest first) on malformed input.
func ParseSortDirection(value string) SortDirection {
	if value == string(SortAsc) {
		return SortAsc
	}
	return SortDesc
}
