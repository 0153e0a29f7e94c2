package orders

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dariosuarez/softmart-backend/api/middleware"
	internalorders "github.com/dariosuarez/softmart-backend/internal/orders"
	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/logger"
)

type stubOrderService struct {
	order      *models.Order
	list       *internalorders.OrderList
	listInput  internalorders.ListInput
	updated    *models.Order
	updateIn   internalorders.UpdateStatusInput
	updateErr  error
	getErr     error
	updateRuns int
}

func (s *stubOrderService) GetOrder(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.order == nil || s.order.ID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s *stubOrderService) ListOrders(_ context.Context, input internalorders.ListInput) (*internalorders.OrderList, error) {
	s.listInput = input
	if s.list == nil {
		return &internalorders.OrderList{}, nil
	}
	return s.list, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, input internalorders.UpdateStatusInput) (*models.Order, error) {
	s.updateRuns++
	s.updateIn = input
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.updated != nil {
		return s.updated, nil
	}
	return s.order, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func authedContext(userID uuid.UUID, role enums.UserRole) context.Context {
	ctx := middleware.WithUserID(context.Background(), userID.String())
	return middleware.WithRole(ctx, string(role))
}

func withOrderParam(ctx context.Context, orderID string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func TestListScopesNonAdminToOwnOrders(t *testing.T) {
	userID := uuid.New()
	stub := &stubOrderService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=PENDING&sort=totalAmount&dir=asc&q=photo", nil)
	req = req.WithContext(authedContext(userID, enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	List(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.listInput.UserID == nil || *stub.listInput.UserID != userID {
		t.Fatalf("expected list scoped to caller, got %v", stub.listInput.UserID)
	}
	if stub.listInput.Query.Status != "PENDING" || stub.listInput.Query.Search != "photo" {
		t.Fatalf("query params not forwarded: %+v", stub.listInput.Query)
	}
	if stub.listInput.Query.SortField != enums.OrderSortTotalAmount || stub.listInput.Query.SortDirection != enums.SortAsc {
		t.Fatalf("sort params not forwarded: %+v", stub.listInput.Query)
	}
}

func TestListAdminMayFilterByUser(t *testing.T) {
	adminID := uuid.New()
	targetID := uuid.New()
	stub := &stubOrderService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?userId="+targetID.String(), nil)
	req = req.WithContext(authedContext(adminID, enums.UserRoleAdmin))
	rec := httptest.NewRecorder()
	List(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.listInput.UserID == nil || *stub.listInput.UserID != targetID {
		t.Fatalf("expected admin filter %s, got %v", targetID, stub.listInput.UserID)
	}
}

func TestListRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=9999", nil)
	req = req.WithContext(authedContext(uuid.New(), enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	List(&stubOrderService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range limit, got %d", rec.Code)
	}
}

func TestDetailHidesForeignOrders(t *testing.T) {
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: owner, Status: enums.OrderStatusPending}
	stub := &stubOrderService{order: order}

	ctx := withOrderParam(authedContext(uuid.New(), enums.UserRoleCustomer), order.ID.String())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+order.ID.String(), nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	Detail(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", rec.Code)
	}
}

func TestDetailReturnsOwnOrder(t *testing.T) {
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: owner, Status: enums.OrderStatusCompleted}
	stub := &stubOrderService{order: order}

	ctx := withOrderParam(authedContext(owner, enums.UserRoleCustomer), order.ID.String())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+order.ID.String(), nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	Detail(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), order.ID.String()) {
		t.Fatalf("response missing order id: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"statusDisplay"`) {
		t.Fatalf("response missing status display metadata: %s", rec.Body.String())
	}
}

func TestUpdateStatusAdminHappyPath(t *testing.T) {
	adminID := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: enums.OrderStatusCompleted}
	stub := &stubOrderService{order: order, updated: order}

	ctx := withOrderParam(authedContext(adminID, enums.UserRoleAdmin), order.ID.String())
	body := strings.NewReader(`{"status":"COMPLETED","note":"payment cleared"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String()+"/status", body).WithContext(ctx)
	rec := httptest.NewRecorder()
	UpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.updateIn.TargetStatus != enums.OrderStatusCompleted {
		t.Fatalf("unexpected target status %s", stub.updateIn.TargetStatus)
	}
	if stub.updateIn.ActorUserID != adminID || stub.updateIn.ActorRole != enums.UserRoleAdmin {
		t.Fatalf("actor not forwarded: %+v", stub.updateIn)
	}
	if stub.updateIn.Note == nil || *stub.updateIn.Note != "payment cleared" {
		t.Fatalf("note not forwarded: %v", stub.updateIn.Note)
	}
}

func TestUpdateStatusCustomerMayOnlyCancelOwn(t *testing.T) {
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: owner, Status: enums.OrderStatusPending}

	t.Run("refund forbidden", func(t *testing.T) {
		stub := &stubOrderService{order: order}
		ctx := withOrderParam(authedContext(owner, enums.UserRoleCustomer), order.ID.String())
		body := strings.NewReader(`{"status":"REFUNDED"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String()+"/status", body).WithContext(ctx)
		rec := httptest.NewRecorder()
		UpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if stub.updateRuns != 0 {
			t.Fatal("service should not be called")
		}
	})

	t.Run("cancel own order", func(t *testing.T) {
		stub := &stubOrderService{order: order, updated: order}
		ctx := withOrderParam(authedContext(owner, enums.UserRoleCustomer), order.ID.String())
		body := strings.NewReader(`{"status":"CANCELLED"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String()+"/status", body).WithContext(ctx)
		rec := httptest.NewRecorder()
		UpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("cancel foreign order", func(t *testing.T) {
		stub := &stubOrderService{order: order}
		ctx := withOrderParam(authedContext(uuid.New(), enums.UserRoleCustomer), order.ID.String())
		body := strings.NewReader(`{"status":"CANCELLED"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String()+"/status", body).WithContext(ctx)
		rec := httptest.NewRecorder()
		UpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if stub.updateRuns != 0 {
			t.Fatal("service should not be called")
		}
	})
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New()}
	stub := &stubOrderService{order: order}

	ctx := withOrderParam(authedContext(uuid.New(), enums.UserRoleAdmin), order.ID.String())
	body := strings.NewReader(`{"status":"SHIPPED"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String()+"/status", body).WithContext(ctx)
	rec := httptest.NewRecorder()
	UpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateStatusInFlightConflict(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New()}
	stub := &stubOrderService{
		order:     order,
		updateErr: pkgerrors.New(pkgerrors.CodeInFlight, "a status change for this order is already in flight"),
	}

	ctx := withOrderParam(authedContext(uuid.New(), enums.UserRoleAdmin), order.ID.String())
	body := strings.NewReader(`{"status":"COMPLETED"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String()+"/status", body).WithContext(ctx)
	rec := httptest.NewRecorder()
	UpdateStatus(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), string(pkgerrors.CodeInFlight)) {
		t.Fatalf("expected %s in body: %s", pkgerrors.CodeInFlight, rec.Body.String())
	}
}

func TestUpdateStatusMissingIdentity(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New()}
	ctx := withOrderParam(context.Background(), order.ID.String())
	body := strings.NewReader(`{"status":"COMPLETED"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String()+"/status", body).WithContext(ctx)
	rec := httptest.NewRecorder()
	UpdateStatus(&stubOrderService{order: order}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
