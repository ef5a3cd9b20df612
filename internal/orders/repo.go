package orders

import (
	"context"

	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the device's latest submitted order. Only one order is
// retained: a new successful submission replaces the previous snapshot and
// its line items wholesale.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ReplaceLatest(ctx context.Context, order *models.Order) error
	FindByCode(ctx context.Context, code string) (*models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ReplaceLatest(ctx context.Context, order *models.Order) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("1 = 1").Delete(&models.OrderLineItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&models.Order{}).Error; err != nil {
		return err
	}

	items := order.Items
	order.Items = nil
	if err := db.Create(order).Error; err != nil {
		return err
	}
	order.Items = items
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("order_code = ?", code).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
