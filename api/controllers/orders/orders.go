package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dariosuarez/softmart-backend/api/middleware"
	"github.com/dariosuarez/softmart-backend/api/responses"
	"github.com/dariosuarez/softmart-backend/api/validators"
	internalorders "github.com/dariosuarez/softmart-backend/internal/orders"
	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/logger"
	"github.com/dariosuarez/softmart-backend/pkg/pagination"
)

type updateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note" validate:"omitempty,max=500"`
}

// orderView decorates an order with the presentation metadata clients render
// as status badges.
type orderView struct {
	*models.Order
	StatusDisplay enums.OrderStatusDisplay `json:"statusDisplay"`
}

func newOrderView(order *models.Order) orderView {
	return orderView{Order: order, StatusDisplay: order.Status.Display()}
}

type orderListView struct {
	Orders     []orderView `json:"orders"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

func newOrderListView(list *internalorders.OrderList) orderListView {
	view := orderListView{
		Orders:     make([]orderView, 0, len(list.Orders)),
		NextCursor: list.NextCursor,
	}
	for i := range list.Orders {
		view.Orders = append(view.Orders, newOrderView(&list.Orders[i]))
	}
	return view
}

// List returns an order page scoped to the caller. Admins see every order
// and may narrow by userId; everyone else only sees their own.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		input := internalorders.ListInput{
			Limit:  limit,
			Cursor: strings.TrimSpace(query.Get("cursor")),
			Query: internalorders.QueryParams{
				Search:        strings.TrimSpace(query.Get("q")),
				Status:        strings.TrimSpace(query.Get("status")),
				SortField:     enums.ParseOrderSortField(query.Get("sort")),
				SortDirection: enums.ParseSortDirection(query.Get("dir")),
			},
		}

		if middleware.RoleFromContext(r.Context()) == string(enums.UserRoleAdmin) {
			if raw := strings.TrimSpace(query.Get("userId")); raw != "" {
				userID, parseErr := uuid.Parse(raw)
				if parseErr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid user id"))
					return
				}
				input.UserID = &userID
			}
		} else {
			input.UserID = &actorID
		}

		list, err := svc.ListOrders(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderListView(list))
	}
}

// Detail returns one order with items, payment, and full history.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if middleware.RoleFromContext(r.Context()) != string(enums.UserRoleAdmin) && order.UserID != actorID {
			// Hide existence of other users' orders.
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		responses.WriteSuccess(w, newOrderView(order))
	}
}

// UpdateStatus applies a lifecycle transition and returns the canonical
// order, history included, so clients can reconcile their local copy.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if role != enums.UserRoleAdmin {
			// Non-admins may only cancel, and only their own orders.
			if target != enums.OrderStatusCancelled {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can apply this status"))
				return
			}
			order, getErr := svc.GetOrder(r.Context(), orderID)
			if getErr != nil {
				responses.WriteError(r.Context(), logg, w, getErr)
				return
			}
			if order.UserID != actorID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
		}

		order, err := svc.UpdateStatus(r.Context(), internalorders.UpdateStatusInput{
			OrderID:      orderID,
			TargetStatus: target,
			Note:         body.Note,
			ActorUserID:  actorID,
			ActorRole:    role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderView(order))
	}
}

func actorUserID(r *http.Request) (uuid.UUID, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return userID, nil
}

func actorRole(r *http.Request) (enums.UserRole, error) {
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "actor role missing")
	}
	return role, nil
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}
