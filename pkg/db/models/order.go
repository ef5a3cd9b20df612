package models

import (
	"time"

	"github.com/rajagrocer/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is the snapshot of a submitted checkout. Only the latest successful
// submission is retained locally; a new submission replaces it wholesale.
// The total is computed once at submission time and never recomputed.
type Order struct {
	OrderCode     string              `gorm:"column:order_code;primaryKey"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric;not null"`
	UserEmail     string              `gorm:"column:user_email;not null"`
	SubmittedAt   time.Time           `gorm:"column:submitted_at;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`

	Items []OrderLineItem `gorm:"foreignKey:OrderCode;references:OrderCode"`
}
