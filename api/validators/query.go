package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
)

// maxSearchLength bounds free-text search terms.
const maxSearchLength = 100

// ParseQueryInt reads key as an int within [min, max], returning defaultVal
// when the parameter is absent.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Field(pkgerrors.CodeValidation, key, "must be a number")
	}
	if value < min || value > max {
		return 0, pkgerrors.Field(pkgerrors.CodeValidation, key, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return value, nil
}

// ParseQueryDecimal reads key as a decimal. An absent parameter yields nil.
func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, key, "is invalid")
	}
	return &value, nil
}

// QuerySearch returns the trimmed search term, capped in length.
func QuerySearch(r *http.Request, key string) string {
	return SanitizeString(r.URL.Query().Get(key), maxSearchLength)
}
