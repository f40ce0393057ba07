package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money columns are numeric(12,2).
const (
	AmountScale     = 2
	amountIntDigits = 10
)

var maxAmount = decimal.New(1, amountIntDigits)

// CheckAmount returns a field message when d cannot be stored exactly in a
// money column, or "" when it fits.
func CheckAmount(d decimal.Decimal) string {
	if !d.Equal(d.Truncate(AmountScale)) {
		return fmt.Sprintf("must have at most %d decimal places", AmountScale)
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Sprintf("must be less than %s in absolute value", maxAmount.String())
	}
	return ""
}
