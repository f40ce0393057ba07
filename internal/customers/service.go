package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/ordermanagement-api/internal/orders"
	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/angelmondragon/ordermanagement-api/pkg/logger"
	"github.com/angelmondragon/ordermanagement-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const blankMessage = "can't be blank"

// Service exposes customer management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*DetailView, error)
	Get(ctx context.Context, id uuid.UUID) (*DetailView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*DetailView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

type orderBuilder interface {
	BuildInTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, input orders.OrderInput) (*models.Order, error)
	RecordCreated(orders ...*models.Order)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups the customer service dependencies.
type ServiceParams struct {
	Repo    *Repository
	Builder orderBuilder
	Tx      txRunner
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	builder orderBuilder
	tx      txRunner
	logg    *logger.Logger
}

// NewService constructs a customer service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if params.Builder == nil {
		return nil, fmt.Errorf("order builder required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    params.Repo,
		builder: params.Builder,
		tx:      params.Tx,
		logg:    params.Logger,
	}, nil
}

// Create writes the customer and any embedded orders in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*DetailView, error) {
	customer := &models.Customer{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     input.Phone,
		Photo:     input.Photo,
	}
	details := map[string]string{}
	if customer.FirstName == "" {
		details["firstName"] = blankMessage
	}
	if customer.LastName == "" {
		details["lastName"] = blankMessage
	}
	if customer.Email == "" {
		details["email"] = blankMessage
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	for i, order := range input.Orders {
		if err := orders.ValidateOrder(order, fmt.Sprintf("orders[%d]", i)); err != nil {
			return nil, err
		}
	}

	built := make([]*models.Order, 0, len(input.Orders))
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, customer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
		}
		for i, orderInput := range input.Orders {
			order, err := s.builder.BuildInTx(ctx, tx, customer.ID, orderInput)
			if err != nil {
				if pkgerrors.As(err) != nil {
					return err
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("create order %d", i))
			}
			built = append(built, order)
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
		}
		return nil, err
	}
	s.builder.RecordCreated(built...)

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"customer_id": customer.ID.String(), "orders": len(built)})
		s.logg.Info(ctx, "customer.created")
	}
	return s.Get(ctx, customer.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DetailView, error) {
	customer, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load customer")
	}
	return NewDetailView(customer), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*DetailView, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load customer")
	}

	details := map[string]string{}
	assignRequired(details, "firstName", input.FirstName, &customer.FirstName)
	assignRequired(details, "lastName", input.LastName, &customer.LastName)
	assignRequired(details, "email", input.Email, &customer.Email)
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Photo != nil {
		customer.Photo = input.Photo
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "delete customer")
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	rows, next, err := s.repo.List(ctx, listQuery{
		Search:     input.Search,
		Pagination: pagination.Params{Limit: input.Limit, Cursor: input.Cursor},
	})
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.Field(pkgerrors.CodeValidation, "cursor", "is invalid")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}

	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, NewView(&rows[i]))
	}
	return &ListResult{Customers: views, NextCursor: next}, nil
}

func assignRequired(details map[string]string, field string, value *string, target *string) {
	if value == nil {
		return
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		details[field] = blankMessage
		return
	}
	*target = v
}

func notFoundOr(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
