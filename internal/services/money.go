package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"eventmanagement/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// minorUnits converts a display price (e.g. 499.99 rupees) into the provider's
// integer minor unit (49999 paise), rounding half away from zero.
func minorUnits(price float64) (int64, error) {
	amount := decimal.NewFromFloat(price).Mul(hundred).Round(0)
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: price must be greater than 0", domain.ErrInvalidInput)
	}
	return amount.IntPart(), nil
}
