package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the order and order item operations nested under a customer.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input OrderInput) (*DetailView, error)
	Get(ctx context.Context, customerID, orderID uuid.UUID) (*DetailView, error)
	List(ctx context.Context, customerID uuid.UUID, input ListInput) ([]View, error)
	Update(ctx context.Context, customerID, orderID uuid.UUID, input UpdateInput) (*DetailView, error)
	Delete(ctx context.Context, customerID, orderID uuid.UUID) error
	AddItem(ctx context.Context, customerID, orderID uuid.UUID, input ItemInput) (*ItemView, error)
	UpdateItem(ctx context.Context, customerID, orderID, itemID uuid.UUID, input ItemUpdateInput) (*ItemView, error)
	DeleteItem(ctx context.Context, customerID, orderID, itemID uuid.UUID) error
}

type service struct {
	repo    Repository
	builder *Builder
}

// NewService constructs an order service around the aggregate builder.
func NewService(repo Repository, builder *Builder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if builder == nil {
		return nil, fmt.Errorf("order builder required")
	}
	return &service{repo: repo, builder: builder}, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input OrderInput) (*DetailView, error) {
	order, err := s.builder.CreateOrder(ctx, customerID, input)
	if err != nil {
		return nil, err
	}
	return NewDetailView(order), nil
}

func (s *service) Get(ctx context.Context, customerID, orderID uuid.UUID) (*DetailView, error) {
	order, err := s.loadOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	return NewDetailView(order), nil
}

// List returns the customer's orders, keeping only those whose total price
// satisfies the search comparison when one is given.
func (s *service) List(ctx context.Context, customerID uuid.UUID, input ListInput) ([]View, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListOrders(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	views := make([]View, 0, len(rows))
	for i := range rows {
		view := NewView(&rows[i])
		if input.Search != nil {
			total, err := decimal.NewFromString(view.TotalPrice)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse total")
			}
			if !input.Method.matches(total, *input.Search) {
				continue
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *service) Update(ctx context.Context, customerID, orderID uuid.UUID, input UpdateInput) (*DetailView, error) {
	order, err := s.loadOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if input.IssuedAt != nil {
		if input.IssuedAt.IsZero() {
			return nil, pkgerrors.Field(pkgerrors.CodeValidation, "issuedAt", "can't be blank")
		}
		order.IssuedAt = input.IssuedAt.UTC()
	}
	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
	}
	return NewDetailView(order), nil
}

func (s *service) Delete(ctx context.Context, customerID, orderID uuid.UUID) error {
	order, err := s.loadOrder(ctx, customerID, orderID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, customerID, orderID uuid.UUID, input ItemInput) (*ItemView, error) {
	order, err := s.loadOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	item, err := s.builder.CreateOrderItem(ctx, order.ID, input)
	if err != nil {
		return nil, err
	}
	view := NewItemView(item)
	return &view, nil
}

func (s *service) UpdateItem(ctx context.Context, customerID, orderID, itemID uuid.UUID, input ItemUpdateInput) (*ItemView, error) {
	item, err := s.loadItem(ctx, customerID, orderID, itemID)
	if err != nil {
		return nil, err
	}
	details := map[string]string{}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			details["quantity"] = "must be greater than or equal to 0"
		}
		item.Quantity = *input.Quantity
	}
	checkAmount(details, "price", input.Price)
	checkAmount(details, "priceWithVat", input.PriceWithVat)
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	if input.Price != nil {
		item.Price = decimal.NewNullDecimal(*input.Price)
	}
	if input.PriceWithVat != nil {
		item.PriceWithVat = decimal.NewNullDecimal(*input.PriceWithVat)
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order item")
	}
	view := NewItemView(item)
	return &view, nil
}

func (s *service) DeleteItem(ctx context.Context, customerID, orderID, itemID uuid.UUID) error {
	item, err := s.loadItem(ctx, customerID, orderID, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order item")
	}
	return nil
}

func (s *service) requireCustomer(ctx context.Context, customerID uuid.UUID) error {
	exists, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

func (s *service) loadOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, customerID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) loadItem(ctx context.Context, customerID, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	if _, err := s.loadOrder(ctx, customerID, orderID); err != nil {
		return nil, err
	}
	item, err := s.repo.FindItem(ctx, orderID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order item")
	}
	return item, nil
}
