package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
)

// Summary is the admin dashboard rollup read straight from the orders table.
type Summary struct {
	TotalOrders    int64                       `json:"totalOrders"`
	OrdersByStatus map[enums.OrderStatus]int64 `json:"ordersByStatus"`
	// CompletedRevenue sums total_amount across COMPLETED orders only;
	// refunded money never counts toward revenue.
	CompletedRevenue decimal.Decimal `json:"completedRevenue"`
	RefundedAmount   decimal.Decimal `json:"refundedAmount"`
	OrdersLast30Days int64           `json:"ordersLast30Days"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}

// Service computes dashboard rollups.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService builds the analytics service.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &Service{db: db, now: time.Now}, nil
}

type statusCount struct {
	Status enums.OrderStatus
	Count  int64
}

type statusSum struct {
	Status enums.OrderStatus
	Total  decimal.Decimal
}

// Summarize aggregates order counts and revenue for the admin dashboard.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	now := s.now().UTC()
	summary := &Summary{
		OrdersByStatus:   make(map[enums.OrderStatus]int64),
		CompletedRevenue: decimal.Zero,
		RefundedAmount:   decimal.Zero,
		GeneratedAt:      now,
	}

	var counts []statusCount
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}
	for _, row := range counts {
		summary.OrdersByStatus[row.Status] = row.Count
		summary.TotalOrders += row.Count
	}

	var sums []statusSum
	err = s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COALESCE(SUM(total_amount), 0) AS total").
		Where("status IN ?", []enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusRefunded}).
		Group("status").
		Scan(&sums).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum order amounts")
	}
	for _, row := range sums {
		switch row.Status {
		case enums.OrderStatusCompleted:
			summary.CompletedRevenue = row.Total
		case enums.OrderStatusRefunded:
			summary.RefundedAmount = row.Total
		}
	}

	cutoff := now.Add(-30 * 24 * time.Hour)
	err = s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ?", cutoff).
		Count(&summary.OrdersLast30Days).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recent orders")
	}

	return summary, nil
}
