package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry that order items may reference by code.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Code         string          `gorm:"column:code;type:text;not null;uniqueIndex"`
	Name         string          `gorm:"column:name;not null"`
	Description  *string         `gorm:"column:description"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	PriceWithVat decimal.Decimal `gorm:"column:price_with_vat;type:numeric(12,2);not null"`
	Photo        *string         `gorm:"column:photo"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
