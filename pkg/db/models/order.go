package models

import (
	"time"

	"github.com/google/uuid"
)

// Order belongs to a customer and aggregates its items.
type Order struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID uuid.UUID   `gorm:"column:customer_id;type:uuid;not null;index"`
	IssuedAt   time.Time   `gorm:"column:issued_at;not null"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
