package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/outbox"
	"github.com/dariosuarez/softmart-backend/pkg/pagination"
)

type stubRepo struct {
	order *models.Order

	listRows    []models.Order
	listCursor  string
	listFilters *ListFilters

	statusUpdates  int
	historyAppends int
	paymentUpdates int

	findErr error
}

func (r *stubRepo) WithTx(_ *gorm.DB) Repository { return r }

func (r *stubRepo) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	r.order = order
	return order, nil
}

func (r *stubRepo) FindOrder(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.order == nil || r.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *r.order
	clone.History = append([]models.OrderHistory(nil), r.order.History...)
	if r.order.Payment != nil {
		payment := *r.order.Payment
		clone.Payment = &payment
	}
	return &clone, nil
}

func (r *stubRepo) ListOrders(_ context.Context, filters ListFilters, _ pagination.Params) ([]models.Order, string, error) {
	r.listFilters = &filters
	return r.listRows, r.listCursor, nil
}

func (r *stubRepo) FindPendingOrdersBefore(_ context.Context, _ time.Time) ([]models.Order, error) {
	return nil, nil
}

func (r *stubRepo) UpdateOrderStatus(_ context.Context, _ uuid.UUID, status enums.OrderStatus, updatedAt time.Time) error {
	r.statusUpdates++
	r.order.Status = status
	r.order.UpdatedAt = updatedAt
	return nil
}

func (r *stubRepo) AppendHistory(_ context.Context, entry *models.OrderHistory) error {
	r.historyAppends++
	r.order.History = append(r.order.History, *entry)
	return nil
}

func (r *stubRepo) UpdatePaymentStatus(_ context.Context, _ uuid.UUID, status enums.PaymentStatus, updatedAt time.Time) error {
	r.paymentUpdates++
	if r.order.Payment != nil {
		r.order.Payment.Status = status
		r.order.Payment.UpdatedAt = updatedAt
	}
	return nil
}

type stubTx struct{ runs int }

func (t *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.runs++
	return fn(nil)
}

type stubGuard struct {
	acquired   bool
	acquireErr error
	acquires   int
	releases   int
}

func (g *stubGuard) Acquire(_ context.Context, _ uuid.UUID) (bool, error) {
	g.acquires++
	return g.acquired, g.acquireErr
}

func (g *stubGuard) Release(_ context.Context, _ uuid.UUID) error {
	g.releases++
	return nil
}

type stubOutbox struct{ events []outbox.DomainEvent }

func (o *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	o.events = append(o.events, event)
	return nil
}

type stubLicenses struct {
	keys  []models.LicenseKey
	calls int
}

func (l *stubLicenses) IssueForOrder(_ context.Context, _ *gorm.DB, _ models.Order, _ time.Time) ([]models.LicenseKey, error) {
	l.calls++
	return l.keys, nil
}

type serviceFixture struct {
	svc      Service
	repo     *stubRepo
	tx       *stubTx
	guard    *stubGuard
	outbox   *stubOutbox
	licenses *stubLicenses
}

func newServiceFixture(t *testing.T, order *models.Order) *serviceFixture {
	t.Helper()
	fix := &serviceFixture{
		repo:     &stubRepo{order: order},
		tx:       &stubTx{},
		guard:    &stubGuard{acquired: true},
		outbox:   &stubOutbox{},
		licenses: &stubLicenses{},
	}
	svc, err := NewService(ServiceParams{
		Repo:     fix.repo,
		Tx:       fix.tx,
		Guard:    fix.guard,
		Outbox:   fix.outbox,
		Licenses: fix.licenses,
		Now:      func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fix.svc = svc
	return fix
}

func TestUpdateStatusCompletedIssuesLicenses(t *testing.T) {
	order := pendingOrder(t)
	fix := newServiceFixture(t, &order)
	fix.licenses.keys = []models.LicenseKey{{ID: uuid.New(), OrderItemID: order.Items[0].ID}}

	updated, err := fix.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:      order.ID,
		TargetStatus: enums.OrderStatusCompleted,
		ActorUserID:  uuid.New(),
		ActorRole:    enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	if updated.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", updated.Status)
	}
	if len(updated.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(updated.History))
	}
	if fix.licenses.calls != 1 {
		t.Fatalf("expected 1 license issuance, got %d", fix.licenses.calls)
	}
	if fix.repo.statusUpdates != 1 || fix.repo.historyAppends != 1 {
		t.Fatalf("unexpected repo writes: %d status, %d history", fix.repo.statusUpdates, fix.repo.historyAppends)
	}
	if len(fix.outbox.events) != 2 {
		t.Fatalf("expected license + status events, got %d", len(fix.outbox.events))
	}
	if fix.outbox.events[0].EventType != enums.EventLicenseIssued {
		t.Fatalf("expected license event first, got %s", fix.outbox.events[0].EventType)
	}
	if fix.outbox.events[1].EventType != enums.EventOrderStatusChanged {
		t.Fatalf("expected status event, got %s", fix.outbox.events[1].EventType)
	}
	if fix.guard.releases != 1 {
		t.Fatalf("expected guard released once, got %d", fix.guard.releases)
	}
}

func TestUpdateStatusInFlightRejected(t *testing.T) {
	order := pendingOrder(t)
	fix := newServiceFixture(t, &order)
	fix.guard.acquired = false

	_, err := fix.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:      order.ID,
		TargetStatus: enums.OrderStatusCompleted,
		ActorUserID:  uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInFlight {
		t.Fatalf("expected REQUEST_IN_FLIGHT, got %v", err)
	}
	if fix.tx.runs != 0 {
		t.Fatal("transaction must not run while another change is in flight")
	}
	if fix.guard.releases != 0 {
		t.Fatal("guard released without being held")
	}
	if len(fix.outbox.events) != 0 {
		t.Fatal("no events expected on rejection")
	}
}

func TestUpdateStatusGuardReleasedOnConflict(t *testing.T) {
	order := pendingOrder(t)
	order.Status = enums.OrderStatusCancelled
	fix := newServiceFixture(t, &order)

	_, err := fix.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:      order.ID,
		TargetStatus: enums.OrderStatusCompleted,
		ActorUserID:  uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
	if fix.guard.releases != 1 {
		t.Fatalf("guard must be released on failure, got %d releases", fix.guard.releases)
	}
	if fix.repo.statusUpdates != 0 || fix.repo.historyAppends != 0 {
		t.Fatal("no writes expected on conflict")
	}
	if len(fix.outbox.events) != 0 {
		t.Fatal("no events expected on conflict")
	}
}

func TestUpdateStatusRefundedFlipsPayment(t *testing.T) {
	order := withPayment(pendingOrder(t))
	fix := newServiceFixture(t, &order)

	updated, err := fix.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:      order.ID,
		TargetStatus: enums.OrderStatusRefunded,
		ActorUserID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if fix.repo.paymentUpdates != 1 {
		t.Fatalf("expected payment update, got %d", fix.repo.paymentUpdates)
	}
	if updated.Payment == nil || updated.Payment.Status != enums.PaymentStatusRefunded {
		t.Fatalf("expected refunded payment, got %+v", updated.Payment)
	}
	if fix.licenses.calls != 0 {
		t.Fatal("licenses must only be issued on completion")
	}
	if len(fix.outbox.events) != 1 || fix.outbox.events[0].EventType != enums.EventOrderStatusChanged {
		t.Fatalf("expected single status event, got %d", len(fix.outbox.events))
	}
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	order := pendingOrder(t)
	fix := newServiceFixture(t, &order)

	_, err := fix.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:      uuid.New(),
		TargetStatus: enums.OrderStatusCompleted,
		ActorUserID:  uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if fix.guard.releases != 1 {
		t.Fatal("guard must be released after a missing order")
	}
}

func TestUpdateStatusInputValidation(t *testing.T) {
	order := pendingOrder(t)
	fix := newServiceFixture(t, &order)

	cases := []struct {
		name  string
		input UpdateStatusInput
		code  pkgerrors.Code
	}{
		{
			name:  "missing order id",
			input: UpdateStatusInput{TargetStatus: enums.OrderStatusCompleted, ActorUserID: uuid.New()},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "missing actor",
			input: UpdateStatusInput{OrderID: order.ID, TargetStatus: enums.OrderStatusCompleted},
			code:  pkgerrors.CodeUnauthorized,
		},
		{
			name:  "unknown status",
			input: UpdateStatusInput{OrderID: order.ID, TargetStatus: enums.OrderStatus("SHIPPED"), ActorUserID: uuid.New()},
			code:  pkgerrors.CodeValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fix.svc.UpdateStatus(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
	if fix.guard.acquires != 0 {
		t.Fatal("guard must not be touched on invalid input")
	}
}

func TestUpdateStatusGuardDependencyFailure(t *testing.T) {
	order := pendingOrder(t)
	fix := newServiceFixture(t, &order)
	fix.guard.acquireErr = errors.New("redis down")

	_, err := fix.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:      order.ID,
		TargetStatus: enums.OrderStatusCompleted,
		ActorUserID:  uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	fix := newServiceFixture(t, nil)

	_, err := fix.svc.GetOrder(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListOrdersAppliesQueryToPage(t *testing.T) {
	fixture := queryFixture()
	fix := newServiceFixture(t, nil)
	fix.repo.listRows = fixture
	fix.repo.listCursor = "next-page"

	result, err := fix.svc.ListOrders(context.Background(), ListInput{
		Limit: 20,
		Query: QueryParams{Status: "COMPLETED"},
	})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(result.Orders) != 1 || result.Orders[0].Status != enums.OrderStatusCompleted {
		t.Fatalf("query not applied to page: %d results", len(result.Orders))
	}
	if result.NextCursor != "next-page" {
		t.Fatalf("cursor not passed through: %q", result.NextCursor)
	}
	if fix.repo.listFilters == nil || fix.repo.listFilters.Status == nil || *fix.repo.listFilters.Status != enums.OrderStatusCompleted {
		t.Fatal("status filter not pushed down to repository")
	}
}

func TestListOrdersRejectsMalformedCursor(t *testing.T) {
	fix := newServiceFixture(t, nil)

	_, err := fix.svc.ListOrders(context.Background(), ListInput{Cursor: "not-base64!!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if fix.repo.listFilters != nil {
		t.Fatal("repository must not be queried with a bad cursor")
	}
}
