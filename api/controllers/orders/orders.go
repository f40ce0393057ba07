package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ordermanagement-api/api/responses"
	"github.com/angelmondragon/ordermanagement-api/api/validators"
	internalorders "github.com/angelmondragon/ordermanagement-api/internal/orders"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/angelmondragon/ordermanagement-api/pkg/logger"
)

type itemPayload struct {
	ProductCode  *string          `json:"productCode,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	PriceWithVat *decimal.Decimal `json:"priceWithVat,omitempty"`
}

func (p itemPayload) toInput() internalorders.ItemInput {
	return internalorders.ItemInput{
		ProductCode:  p.ProductCode,
		Quantity:     p.Quantity,
		Price:        p.Price,
		PriceWithVat: p.PriceWithVat,
	}
}

type orderRequest struct {
	Order struct {
		IssuedAt *time.Time    `json:"issuedAt,omitempty"`
		Items    []itemPayload `json:"items,omitempty"`
	} `json:"order"`
}

type itemRequest struct {
	Item itemPayload `json:"item"`
}

// List returns the customer's orders with totals. search and searchMethod
// filter on totalPrice.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, err := validators.PathUUID(r, "customerId", "customer")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), customerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": list, "count": len(list)})
	}
}

// Create builds an order with its items for the customer.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, err := validators.PathUUID(r, "customerId", "customer")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.OrderInput{
			IssuedAt: payload.Order.IssuedAt,
			Items:    make([]internalorders.ItemInput, 0, len(payload.Order.Items)),
		}
		for _, item := range payload.Order.Items {
			input.Items = append(input.Items, item.toInput())
		}

		view, err := svc.Create(r.Context(), customerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), customerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func Update(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), customerID, orderID, internalorders.UpdateInput{IssuedAt: payload.Order.IssuedAt})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), customerID, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CreateItem appends one item to an existing order.
func CreateItem(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddItem(r.Context(), customerID, orderID, payload.Item.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// UpdateItem rewrites the quantity or price snapshot of an item.
func UpdateItem(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(r, "itemId", "order item")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateItem(r.Context(), customerID, orderID, itemID, internalorders.ItemUpdateInput{
			Quantity:     payload.Item.Quantity,
			Price:        payload.Item.Price,
			PriceWithVat: payload.Item.PriceWithVat,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func DeleteItem(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(r, "itemId", "order item")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), customerID, orderID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func orderPath(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	customerID, err := validators.PathUUID(r, "customerId", "customer")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	orderID, err := validators.PathUUID(r, "orderId", "order")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return customerID, orderID, nil
}

// parseListInput reads search and searchMethod. Unknown methods compare for
// equality.
func parseListInput(r *http.Request) (internalorders.ListInput, error) {
	search, err := validators.ParseQueryDecimal(r, "search")
	if err != nil || search == nil {
		return internalorders.ListInput{}, err
	}

	method := internalorders.Comparison(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("searchMethod"))))
	switch method {
	case internalorders.CompareGt, internalorders.CompareGte, internalorders.CompareLt, internalorders.CompareLte:
	default:
		method = internalorders.CompareEq
	}
	return internalorders.ListInput{Search: search, Method: method}, nil
}
