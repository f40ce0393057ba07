package orders

import (
	"time"

	"github.com/angelmondragon/ordermanagement-api/internal/products"
	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	"github.com/angelmondragon/ordermanagement-api/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is one requested line item. Absent quantity defaults to 1 and
// absent prices to 0. A product code that matches nothing leaves the item
// without a product.
type ItemInput struct {
	ProductCode  *string
	Quantity     *int
	Price        *decimal.Decimal
	PriceWithVat *decimal.Decimal
}

// OrderInput describes an order to build. IssuedAt defaults to now.
type OrderInput struct {
	IssuedAt *time.Time
	Items    []ItemInput
}

// UpdateInput changes the mutable order fields.
type UpdateInput struct {
	IssuedAt *time.Time
}

// ItemUpdateInput changes the snapshot of an existing item.
type ItemUpdateInput struct {
	Quantity     *int
	Price        *decimal.Decimal
	PriceWithVat *decimal.Decimal
}

// Comparison selects how ListInput.Search is matched against totalPrice.
type Comparison string

const (
	CompareEq  Comparison = "eq"
	CompareGt  Comparison = "gt"
	CompareGte Comparison = "gte"
	CompareLt  Comparison = "lt"
	CompareLte Comparison = "lte"
)

// ListInput filters a customer's orders by total price.
type ListInput struct {
	Search *decimal.Decimal
	Method Comparison
}

func (c Comparison) matches(total, search decimal.Decimal) bool {
	cmp := total.Cmp(search)
	switch c {
	case CompareGt:
		return cmp > 0
	case CompareGte:
		return cmp >= 0
	case CompareLt:
		return cmp < 0
	case CompareLte:
		return cmp <= 0
	default:
		return cmp == 0
	}
}

// View is the list shape of an order.
type View struct {
	ID uuid.UUID `json:"id"`
	pricing.Totals
	IssuedAt  time.Time `json:"issuedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DetailView adds the items to View.
type DetailView struct {
	View
	Items []ItemView `json:"items"`
}

// ItemView is the transport shape of an order item.
type ItemView struct {
	ID           uuid.UUID           `json:"id"`
	Quantity     int                 `json:"quantity"`
	Price        decimal.NullDecimal `json:"price"`
	PriceWithVat decimal.NullDecimal `json:"priceWithVat"`
	Product      *products.View      `json:"product"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// NewView projects an order with its totals.
func NewView(o *models.Order) View {
	return View{
		ID:        o.ID,
		Totals:    pricing.ComputeOrder(o),
		IssuedAt:  o.IssuedAt,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// NewDetailView projects an order with totals and items.
func NewDetailView(o *models.Order) *DetailView {
	if o == nil {
		return nil
	}
	items := make([]ItemView, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, NewItemView(&o.Items[i]))
	}
	return &DetailView{View: NewView(o), Items: items}
}

// NewItemView projects an order item.
func NewItemView(item *models.OrderItem) ItemView {
	return ItemView{
		ID:           item.ID,
		Quantity:     item.Quantity,
		Price:        item.Price,
		PriceWithVat: item.PriceWithVat,
		Product:      products.NewView(item.Product),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
