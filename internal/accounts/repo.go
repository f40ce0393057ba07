package accounts

import (
	"context"

	"github.com/angelmondragon/ordermanagement-api/pkg/db"
	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unique email constraint, as named by the Postgres migration and as
// reported by SQLite.
const (
	emailConstraintPostgres = "accounts_email_key"
	emailConstraintSQLite   = "accounts.email"
)

// Repository exposes account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(account).Error
}

// FindByEmail retrieves the account matching the provided email exactly.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByID loads an account by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Update persists the mutable profile and credential columns.
func (r *Repository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).
		Model(account).
		Select("fullname", "email", "salt", "hash", "iterations", "updated_at").
		Updates(account).Error
}

func isDuplicateEmail(err error) bool {
	return db.IsUniqueViolation(err, emailConstraintPostgres) ||
		db.IsUniqueViolation(err, emailConstraintSQLite)
}
