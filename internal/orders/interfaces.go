package orders

import (
	"context"

	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence for orders and their items. WithTx rebinds
// it to a transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error)
	FindProductByCode(ctx context.Context, code string) (*models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
	FindOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, order *models.Order) error
	FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, item *models.OrderItem) error
	DeleteItem(ctx context.Context, item *models.OrderItem) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
