package orders

import (
	"sort"
	"strings"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
)

// StatusFilterAll disables status filtering in QueryOrders.
const StatusFilterAll = "ALL"

// QueryParams carry the presentation-side filter/sort inputs. Malformed
// values never error: unknown statuses behave like ALL, unknown sort fields
// fall back to createdAt, unknown directions to desc.
type QueryParams struct {
	Search        string
	Status        string
	SortField     enums.OrderSortField
	SortDirection enums.SortDirection
}

// QueryOrders returns the filtered, sorted view of the order collection.
// The input slice is never mutated or reordered; the result is a fresh slice.
// Sorting is stable, so orders with equal keys keep their input order.
func QueryOrders(orders []models.Order, params QueryParams) []models.Order {
	statusFilter, filterByStatus := parseStatusFilter(params.Status)
	query := strings.ToLower(strings.TrimSpace(params.Search))

	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if filterByStatus && order.Status != statusFilter {
			continue
		}
		if query != "" && !matchesQuery(order, query) {
			continue
		}
		result = append(result, order)
	}

	less := comparatorFor(params.SortField)
	if params.SortDirection != enums.SortAsc {
		inner := less
		less = func(a, b models.Order) bool { return inner(b, a) }
	}
	sort.SliceStable(result, func(i, j int) bool {
		return less(result[i], result[j])
	})

	return result
}

func parseStatusFilter(value string) (enums.OrderStatus, bool) {
	if value == "" || value == StatusFilterAll {
		return "", false
	}
	status, err := enums.ParseOrderStatus(value)
	if err != nil {
		return "", false
	}
	return status, true
}

func matchesQuery(order models.Order, query string) bool {
	if strings.Contains(strings.ToLower(order.ID.String()), query) {
		return true
	}
	if order.User != nil {
		if strings.Contains(strings.ToLower(order.User.Name), query) {
			return true
		}
		if strings.Contains(strings.ToLower(order.User.Email), query) {
			return true
		}
	}
	for _, item := range order.Items {
		if item.Software != nil && strings.Contains(strings.ToLower(item.Software.Name), query) {
			return true
		}
	}
	return false
}

func comparatorFor(field enums.OrderSortField) func(a, b models.Order) bool {
	switch field {
	case enums.OrderSortID:
		return func(a, b models.Order) bool { return a.ID.String() < b.ID.String() }
	case enums.OrderSortUserID:
		return func(a, b models.Order) bool { return a.UserID.String() < b.UserID.String() }
	case enums.OrderSortTotalAmount:
		return func(a, b models.Order) bool { return a.TotalAmount.LessThan(b.TotalAmount) }
	case enums.OrderSortStatus:
		return func(a, b models.Order) bool { return a.Status < b.Status }
	case enums.OrderSortUpdatedAt:
		return func(a, b models.Order) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}
