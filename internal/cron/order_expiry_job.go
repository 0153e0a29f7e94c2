package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/internal/orders"
	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	"github.com/dariosuarez/softmart-backend/pkg/logger"
	"github.com/dariosuarez/softmart-backend/pkg/outbox"
	"github.com/dariosuarez/softmart-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type pendingOrderReader interface {
	FindPendingOrdersBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

type transactionalOrderRepo interface {
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, updatedAt time.Time) error
	AppendHistory(ctx context.Context, entry *models.OrderHistory) error
}

type transactionalRepoFactory func(tx *gorm.DB) transactionalOrderRepo

func defaultTransactionalRepo(tx *gorm.DB) transactionalOrderRepo {
	return orders.NewRepository(tx)
}

// OrderExpiryJobParams configure the stale-pending-order scheduler.
type OrderExpiryJobParams struct {
	Logger                   *logger.Logger
	DB                       txRunner
	PendingReader            pendingOrderReader
	Outbox                   outboxEmitter
	PendingExpiryDays        int
	SystemUserID             uuid.UUID
	TransactionalRepoFactory transactionalRepoFactory
}

// NewOrderExpiryJob builds the cron job that cancels stale pending orders.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.PendingReader == nil {
		return nil, fmt.Errorf("pending orders reader required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if params.PendingExpiryDays <= 0 {
		return nil, fmt.Errorf("pending expiry days must be positive")
	}
	if params.SystemUserID == uuid.Nil {
		return nil, fmt.Errorf("system user id required")
	}
	repoFactory := params.TransactionalRepoFactory
	if repoFactory == nil {
		repoFactory = defaultTransactionalRepo
	}
	return &orderExpiryJob{
		logg:          params.Logger,
		db:            params.DB,
		pendingReader: params.PendingReader,
		outbox:        params.Outbox,
		expiryDays:    params.PendingExpiryDays,
		systemUserID:  params.SystemUserID,
		repoFactory:   repoFactory,
		now:           time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg          *logger.Logger
	db            txRunner
	pendingReader pendingOrderReader
	outbox        outboxEmitter
	expiryDays    int
	systemUserID  uuid.UUID
	repoFactory   transactionalRepoFactory
	now           func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.expiryDays) * 24 * time.Hour)
	stale, err := j.pendingReader.FindPendingOrdersBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	var errs []error
	count := 0
	for _, order := range stale {
		if err := j.expireOrder(ctx, order); err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", order.ID, err))
			continue
		}
		count++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count, "failed": len(errs)})
	j.logg.Info(logCtx, "order expiry loop complete")
	return multierr.Combine(errs...)
}

func (j *orderExpiryJob) expireOrder(ctx context.Context, order models.Order) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repoFactory(tx)
		current, err := repo.FindOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		// Another actor may have moved the order since the scan.
		if current.Status != enums.OrderStatusPending {
			return nil
		}

		now := j.now().UTC()
		note := fmt.Sprintf("Order expired after %d days pending", j.expiryDays)
		updated, err := orders.ApplyTransition(*current, enums.OrderStatusCancelled, j.systemUserID, &note, now)
		if err != nil {
			return err
		}

		if err := repo.UpdateOrderStatus(ctx, updated.ID, updated.Status, updated.UpdatedAt); err != nil {
			return err
		}
		entry := updated.History[len(updated.History)-1]
		if err := repo.AppendHistory(ctx, &entry); err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderExpired,
			AggregateType: enums.AggregateOrder,
			AggregateID:   updated.ID,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderExpiredEvent{
				OrderID:     updated.ID,
				UserID:      updated.UserID,
				ExpiredAt:   now,
				PendingDays: j.expiryDays,
			},
		}
		return j.outbox.Emit(ctx, tx, event)
	})
}
