package shared

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places amounts are stored with
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// ErrInvalidCurrency is returned for currency codes that are not 3 letters
var ErrInvalidCurrency = NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")

// NormalizeCurrency upper-cases a 3-letter currency code, substituting def
// when code is empty.
func NormalizeCurrency(code, def string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = def
	}
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}

// RoundMoney rounds half away from zero to MoneyPlaces
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Percent returns pct% of amount, e.g. Percent(200, 15) = 30
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// Ratio returns part/whole as a percentage rounded to 2 places, or zero when
// whole is zero.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// ValidPercentage reports whether p lies in [0, 100]
func ValidPercentage(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}
