package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is an authenticated operator of the API. Salt, Hash and Iterations
// hold the derived credential; the plaintext password is never stored.
type Account struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Fullname   string    `gorm:"column:fullname;not null"`
	Email      string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Salt       string    `gorm:"column:salt;not null"`
	Hash       string    `gorm:"column:hash;not null"`
	Iterations int       `gorm:"column:iterations;not null;default:10000"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
