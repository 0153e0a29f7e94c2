package licenses

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/logger"
)

// keyAlphabet excludes ambiguous glyphs (0/O, 1/I/L) so keys survive being
// read over the phone.
const keyAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	keyGroups    = 4
	keyGroupSize = 5
)

// Service issues and lists license keys. Keys only ever exist for items of
// completed orders.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the license service.
func NewService(repo Repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("license repository required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// IssueForOrder generates one key per order item that does not already hold
// one, inside the caller's transaction. Items that already carry keys are
// skipped so a replayed completion cannot double-issue.
func (s *Service) IssueForOrder(ctx context.Context, tx *gorm.DB, order models.Order, now time.Time) ([]models.LicenseKey, error) {
	if order.Status != enums.OrderStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "license keys require a completed order")
	}

	repo := s.repo.WithTx(tx)

	itemIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		itemIDs = append(itemIDs, item.ID)
	}
	existing, err := repo.ListForOrderItems(ctx, itemIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing license keys")
	}
	covered := make(map[uuid.UUID]bool, len(existing))
	for _, key := range existing {
		covered[key.OrderItemID] = true
	}

	keys := make([]models.LicenseKey, 0, len(order.Items))
	for _, item := range order.Items {
		if covered[item.ID] {
			continue
		}
		raw, err := generateKey()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate license key")
		}
		keys = append(keys, models.LicenseKey{
			ID:          uuid.New(),
			OrderItemID: item.ID,
			Key:         raw,
			IssuedAt:    now,
		})
	}
	if len(keys) == 0 {
		return nil, nil
	}

	if err := repo.CreateKeys(ctx, keys); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist license keys")
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"count":    len(keys),
		})
		s.logg.Info(logCtx, "license keys issued")
	}
	return keys, nil
}

// ListForUser returns every key issued for the user's completed orders.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.LicenseKey, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	keys, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list license keys")
	}
	return keys, nil
}

func generateKey() (string, error) {
	buff := make([]byte, keyGroups*keyGroupSize)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	groups := make([]string, 0, keyGroups)
	for g := 0; g < keyGroups; g++ {
		var sb strings.Builder
		for i := 0; i < keyGroupSize; i++ {
			sb.WriteByte(keyAlphabet[int(buff[g*keyGroupSize+i])%len(keyAlphabet)])
		}
		groups = append(groups, sb.String())
	}
	return strings.Join(groups, "-"), nil
}
