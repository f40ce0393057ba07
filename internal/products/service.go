package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/angelmondragon/ordermanagement-api/pkg/pagination"
	"github.com/angelmondragon/ordermanagement-api/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	blankMessage     = "can't be blank"
	negativeMessage  = "must be greater than or equal to 0"
	codeTakenMessage = "is already taken"
)

// Service exposes catalog management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	details := map[string]string{}
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" {
		details["code"] = blankMessage
	}
	if name == "" {
		details["name"] = blankMessage
	}
	requirePrice(details, "price", input.Price)
	requirePrice(details, "priceWithVat", input.PriceWithVat)
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	product := &models.Product{
		Code:         code,
		Name:         name,
		Description:  input.Description,
		Price:        *input.Price,
		PriceWithVat: *input.PriceWithVat,
		Photo:        input.Photo,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if isDuplicateCode(err) {
			return nil, pkgerrors.Field(pkgerrors.CodeConflict, "code", codeTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return NewView(product), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewView(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	details := map[string]string{}
	if input.Code != nil {
		if v := strings.TrimSpace(*input.Code); v != "" {
			product.Code = v
		} else {
			details["code"] = blankMessage
		}
	}
	if input.Name != nil {
		if v := strings.TrimSpace(*input.Name); v != "" {
			product.Name = v
		} else {
			details["name"] = blankMessage
		}
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		checkPrice(details, "price", input.Price)
		product.Price = *input.Price
	}
	if input.PriceWithVat != nil {
		checkPrice(details, "priceWithVat", input.PriceWithVat)
		product.PriceWithVat = *input.PriceWithVat
	}
	if input.Photo != nil {
		product.Photo = input.Photo
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if isDuplicateCode(err) {
			return nil, pkgerrors.Field(pkgerrors.CodeConflict, "code", codeTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return NewView(product), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, *NewView(&rows[i]))
	}
	return &ListResult{Products: views, NextCursor: next}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func requirePrice(details map[string]string, field string, value *decimal.Decimal) {
	if value == nil {
		details[field] = blankMessage
		return
	}
	checkPrice(details, field, value)
}

func checkPrice(details map[string]string, field string, value *decimal.Decimal) {
	if value.IsNegative() {
		details[field] = negativeMessage
		return
	}
	if msg := pricing.CheckAmount(*value); msg != "" {
		details[field] = msg
	}
}
