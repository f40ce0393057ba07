package customers

import (
	"time"

	"github.com/angelmondragon/ordermanagement-api/internal/orders"
	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	"github.com/google/uuid"
)

// View is the list shape of a customer.
type View struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone"`
	Email     string    `json:"email"`
	Photo     *string   `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DetailView adds the customer's orders, with items and totals.
type DetailView struct {
	View
	Orders      []orders.DetailView `json:"orders"`
	OrdersCount int                 `json:"ordersCount"`
}

// ListResult is one page of customers.
type ListResult struct {
	Customers  []View `json:"customers"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func NewView(c *models.Customer) View {
	return View{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
		Photo:     c.Photo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewDetailView(c *models.Customer) *DetailView {
	if c == nil {
		return nil
	}
	views := make([]orders.DetailView, 0, len(c.Orders))
	for i := range c.Orders {
		views = append(views, *orders.NewDetailView(&c.Orders[i]))
	}
	return &DetailView{View: NewView(c), Orders: views, OrdersCount: len(views)}
}

// CreateInput carries a customer and the orders to build with it.
type CreateInput struct {
	FirstName string
	LastName  string
	Phone     *string
	Email     string
	Photo     *string
	Orders    []orders.OrderInput
}

// UpdateInput holds optional customer mutations; nil fields are untouched.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
	Photo     *string
}

// ListInput filters and paginates customers.
type ListInput struct {
	Search string
	Limit  int
	Cursor string
}
