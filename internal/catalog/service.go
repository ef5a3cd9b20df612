package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the storefront's product catalog.
type Service interface {
	List(ctx context.Context, query string) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// List returns products whose names match the query, case-insensitively.
// An empty query returns the whole catalog.
func (s *service) List(ctx context.Context, query string) ([]models.Product, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	products, err := s.repo.List(ctx, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return products, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}
