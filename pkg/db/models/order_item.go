package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a line within an order. Prices are captured on the item at
// creation time and may be NULL for rows imported without pricing.
type OrderItem struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    *uuid.UUID          `gorm:"column:product_id;type:uuid"`
	Product      *Product            `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	Quantity     int                 `gorm:"column:quantity;not null"`
	Price        decimal.NullDecimal `gorm:"column:price;type:numeric(12,2)"`
	PriceWithVat decimal.NullDecimal `gorm:"column:price_with_vat;type:numeric(12,2)"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
