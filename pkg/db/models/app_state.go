package models

import "time"

// StateKeyOrderCode holds the order code for the in-progress (unsubmitted)
// cart. It rotates after every successful submission.
const StateKeyOrderCode = "currentOrderCode"

// AppState is a small key/value table for the storefront's scalar state.
type AppState struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AppState) TableName() string {
	return "app_state"
}
