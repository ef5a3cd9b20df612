package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry (a product card on the storefront page).
// IDs are human-readable slugs ("rice1"), matching what the cart stores.
type Product struct {
	ID        string          `gorm:"column:id;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Category  string          `gorm:"column:category;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric;not null"`
	InStock   bool            `gorm:"column:in_stock;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
