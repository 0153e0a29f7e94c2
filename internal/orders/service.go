package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/logger"
	"github.com/dariosuarez/softmart-backend/pkg/metrics"
	"github.com/dariosuarez/softmart-backend/pkg/outbox"
	"github.com/dariosuarez/softmart-backend/pkg/outbox/payloads"
	"github.com/dariosuarez/softmart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// LicenseIssuer generates license keys for a completed order inside the
// transition transaction.
type LicenseIssuer interface {
	IssueForOrder(ctx context.Context, tx *gorm.DB, order models.Order, now time.Time) ([]models.LicenseKey, error)
}

// Service defines the order lifecycle operations.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, input ListInput) (*OrderList, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
}

// ServiceParams bundle the service dependencies.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Guard    InFlightGuard
	Outbox   outboxPublisher
	Licenses LicenseIssuer
	Metrics  *metrics.OrderMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	repo     Repository
	tx       txRunner
	guard    InFlightGuard
	outbox   outboxPublisher
	licenses LicenseIssuer
	metrics  *metrics.OrderMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the order lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("in-flight guard required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Licenses == nil {
		return nil, fmt.Errorf("license issuer required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		guard:    params.Guard,
		outbox:   params.Outbox,
		licenses: params.Licenses,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// ListOrders pages orders out of storage, then applies the presentation
// filter/sort (search, status, sort field/direction) to the fetched page.
func (s *service) ListOrders(ctx context.Context, input ListInput) (*OrderList, error) {
	filters := ListFilters{UserID: input.UserID}
	if status, ok := parseStatusFilterValue(input.Query.Status); ok {
		filters.Status = &status
	}

	if _, err := pagination.ParseCursor(input.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, nextCursor, err := s.repo.ListOrders(ctx, filters, pagination.Params{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	return &OrderList{
		Orders:     QueryOrders(rows, input.Query),
		NextCursor: nextCursor,
	}, nil
}

func parseStatusFilterValue(value string) (enums.OrderStatus, bool) {
	return parseStatusFilter(value)
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.TargetStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.TargetStatus))
	}

	acquired, err := s.guard.Acquire(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire in-flight guard")
	}
	if !acquired {
		s.metrics.IncRejection("in_flight")
		return nil, pkgerrors.New(pkgerrors.CodeInFlight, "a status change for this order is already in flight")
	}
	// The guard must be cleared no matter how the transition ends.
	defer func() {
		if releaseErr := s.guard.Release(ctx, input.OrderID); releaseErr != nil && s.logg != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, input.OrderID.String()), "release in-flight guard", releaseErr)
		}
	}()

	releaseInFlight := s.metrics.TrackInFlight()
	defer releaseInFlight()
	started := s.now()

	var fromStatus enums.OrderStatus
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		fromStatus = current.Status

		now := s.now().UTC()
		updated, err := ApplyTransition(*current, input.TargetStatus, input.ActorUserID, input.Note, now)
		if err != nil {
			return err
		}

		if err := repo.UpdateOrderStatus(ctx, updated.ID, updated.Status, updated.UpdatedAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		entry := updated.History[len(updated.History)-1]
		if err := repo.AppendHistory(ctx, &entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append order history")
		}

		if updated.Status == enums.OrderStatusRefunded && updated.Payment != nil {
			if err := repo.UpdatePaymentStatus(ctx, updated.ID, enums.PaymentStatusRefunded, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
			}
		}

		if updated.Status == enums.OrderStatusCompleted {
			keys, err := s.licenses.IssueForOrder(ctx, tx, updated, now)
			if err != nil {
				return err
			}
			if len(keys) > 0 {
				licenseIDs := make([]uuid.UUID, 0, len(keys))
				for _, key := range keys {
					licenseIDs = append(licenseIDs, key.ID)
				}
				event := outbox.DomainEvent{
					EventType:     enums.EventLicenseIssued,
					AggregateType: enums.AggregateLicense,
					AggregateID:   updated.ID,
					Version:       1,
					OccurredAt:    now,
					Actor:         buildActor(input.ActorUserID, input.ActorRole),
					Data: payloads.LicenseIssuedEvent{
						OrderID:    updated.ID,
						UserID:     updated.UserID,
						LicenseIDs: licenseIDs,
						IssuedAt:   now,
					},
				}
				if err := s.outbox.Emit(ctx, tx, event); err != nil {
					return err
				}
			}
		}

		note := ""
		if entry.Note != nil {
			note = *entry.Note
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   updated.ID,
			Version:       1,
			OccurredAt:    now,
			Actor:         buildActor(input.ActorUserID, input.ActorRole),
			Data: payloads.OrderStatusChangedEvent{
				OrderID:    updated.ID,
				UserID:     updated.UserID,
				FromStatus: fromStatus,
				ToStatus:   updated.Status,
				Note:       note,
				ChangedAt:  now,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
			s.metrics.IncRejection("state_conflict")
		}
		return nil, err
	}

	s.metrics.IncTransition(string(fromStatus), string(input.TargetStatus))
	s.metrics.ObserveTransition(string(input.TargetStatus), s.now().Sub(started))

	// Reload so the caller gets the canonical history back for reconciliation.
	order, err := s.repo.FindOrder(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return order, nil
}

func buildActor(userID uuid.UUID, role enums.UserRole) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: userID,
		Role:   string(role),
	}
}
