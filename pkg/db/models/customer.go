package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer owns zero or more orders.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Email     string    `gorm:"column:email;type:text;not null"`
	Phone     *string   `gorm:"column:phone"`
	Photo     *string   `gorm:"column:photo"`
	Orders    []Order   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
