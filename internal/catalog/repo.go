package catalog

import (
	"context"

	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines read access to the seeded product catalog.
type Repository interface {
	List(ctx context.Context, query string) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	stmt := r.db.WithContext(ctx).Order("name ASC")
	if query != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+query+"%")
	}
	if err := stmt.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
