package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/pagination"
)

// ProductList wraps the paginated catalog page plus the next cursor.
type ProductList struct {
	Products   []models.Software `json:"products"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// Service exposes the public software catalog.
type Service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &Service{repo: repo}, nil
}

// List returns published software, newest first.
func (s *Service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*ProductList, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, nextCursor, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ProductList{Products: rows, NextCursor: nextCursor}, nil
}

// Get loads one published listing by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Software, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	software, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return software, nil
}
