package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of the single device-local cart. The item ID doubles
// as the product ID, so uniqueness per cart falls out of the primary key.
// Quantity is always >= 1 for a stored row; a quantity dropping to zero or
// below deletes the row instead.
type CartItem struct {
	ID        string          `gorm:"column:id;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Position  int             `gorm:"column:position;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotal is unit price times quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
