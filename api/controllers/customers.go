package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ordermanagement-api/api/responses"
	"github.com/angelmondragon/ordermanagement-api/api/validators"
	"github.com/angelmondragon/ordermanagement-api/internal/customers"
	"github.com/angelmondragon/ordermanagement-api/internal/orders"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/angelmondragon/ordermanagement-api/pkg/logger"
	"github.com/angelmondragon/ordermanagement-api/pkg/pagination"
)

type customerPayload struct {
	FirstName *string                `json:"firstName,omitempty"`
	LastName  *string                `json:"lastName,omitempty"`
	Phone     *string                `json:"phone,omitempty"`
	Email     *string                `json:"email,omitempty"`
	Photo     *string                `json:"photo,omitempty"`
	Orders    []embeddedOrderRequest `json:"orders,omitempty"`
}

type embeddedOrderRequest struct {
	IssuedAt *time.Time            `json:"issuedAt,omitempty"`
	Items    []embeddedItemRequest `json:"items,omitempty"`
}

type embeddedItemRequest struct {
	ProductCode  *string          `json:"productCode,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	PriceWithVat *decimal.Decimal `json:"priceWithVat,omitempty"`
}

type customerRequest struct {
	Customer customerPayload `json:"customer"`
}

func (p customerPayload) toCreateInput() customers.CreateInput {
	input := customers.CreateInput{
		FirstName: deref(p.FirstName),
		LastName:  deref(p.LastName),
		Phone:     p.Phone,
		Email:     deref(p.Email),
		Photo:     p.Photo,
		Orders:    make([]orders.OrderInput, 0, len(p.Orders)),
	}
	for _, o := range p.Orders {
		order := orders.OrderInput{IssuedAt: o.IssuedAt, Items: make([]orders.ItemInput, 0, len(o.Items))}
		for _, item := range o.Items {
			order.Items = append(order.Items, orders.ItemInput{
				ProductCode:  item.ProductCode,
				Quantity:     item.Quantity,
				Price:        item.Price,
				PriceWithVat: item.PriceWithVat,
			})
		}
		input.Orders = append(input.Orders, order)
	}
	return input
}

func (p customerPayload) toUpdateInput() customers.UpdateInput {
	return customers.UpdateInput{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Photo:     p.Photo,
	}
}

// CustomerList returns a page of customers, optionally filtered by first or
// last name.
func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), customers.ListInput{
			Search: validators.QuerySearch(r, "search"),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CustomerCreate adds a customer together with any embedded orders.
func CustomerCreate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), payload.Customer.toCreateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func CustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.PathUUID(r, "customerId", "customer")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.PathUUID(r, "customerId", "customer")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), id, payload.Customer.toUpdateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CustomerDelete removes a customer with all of its orders.
func CustomerDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.PathUUID(r, "customerId", "customer")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
