package products

import (
	"time"

	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// View is the transport shape of a product.
type View struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price"`
	PriceWithVat decimal.Decimal `json:"priceWithVat"`
	Photo        *string         `json:"photo"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewView projects a product model.
func NewView(p *models.Product) *View {
	if p == nil {
		return nil
	}
	return &View{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		PriceWithVat: p.PriceWithVat,
		Photo:        p.Photo,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ListResult is one page of products.
type ListResult struct {
	Products   []View `json:"products"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// CreateInput carries a product payload. Both prices are required.
type CreateInput struct {
	Code         string
	Name         string
	Description  *string
	Price        *decimal.Decimal
	PriceWithVat *decimal.Decimal
	Photo        *string
}

// UpdateInput holds optional product mutations; nil fields are untouched.
type UpdateInput struct {
	Code         *string
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	PriceWithVat *decimal.Decimal
	Photo        *string
}

// ListInput filters and paginates the catalog.
type ListInput struct {
	Search string
	Limit  int
	Cursor string
}
