package pricing

import (
	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Totals is the derived price summary of an order, rendered as fixed
// two-decimal strings.
type Totals struct {
	TotalPrice        string `json:"totalPrice"`
	TotalPriceWithVat string `json:"totalPriceWithVat"`
}

// Compute sums item prices. Nil items and NULL prices contribute zero, and
// quantity is not a multiplier: each item price is the line amount.
func Compute(items []*models.OrderItem) Totals {
	total := decimal.Zero
	withVat := decimal.Zero
	for _, item := range items {
		if item == nil {
			continue
		}
		if item.Price.Valid {
			total = total.Add(item.Price.Decimal)
		}
		if item.PriceWithVat.Valid {
			withVat = withVat.Add(item.PriceWithVat.Decimal)
		}
	}
	return Totals{
		TotalPrice:        total.StringFixed(2),
		TotalPriceWithVat: withVat.StringFixed(2),
	}
}

// ComputeOrder is Compute over an order's loaded items.
func ComputeOrder(order *models.Order) Totals {
	if order == nil {
		return Compute(nil)
	}
	items := make([]*models.OrderItem, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, &order.Items[i])
	}
	return Compute(items)
}
