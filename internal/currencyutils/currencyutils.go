// Package currencyutils provides the exact decimal parsing and formatting rules
// used for registry amounts.
package currencyutils

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal separators found in registry files. The payment sum column is
// written with a point, the amount columns and the control line with a comma.
const (
	PointSeparator = '.'
	CommaSeparator = ','
)

// minFractionDigits is the minimum number of fraction digits written by FormatAmount.
const minFractionDigits = 2

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ErrMinorUnitsOverflow is returned when an amount in minor units does not
// fit in an int64.
var ErrMinorUnitsOverflow = errors.New("amount exceeds the minor unit range")

// ParseAmount parses an unsigned amount using sep as the only allowed
// decimal separator.
//
// The accepted syntax is digits with at most one separator: no sign, no
// whitespace, no thousands grouping. "12,50", "12," and ",5" are valid with a
// comma separator; "12.50" is not.
func ParseAmount(amountStr string, sep rune) (decimal.Decimal, error) {
	if amountStr == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}

	intPart, fracPart := amountStr, ""
	if i := strings.IndexRune(amountStr, sep); i >= 0 {
		intPart = amountStr[:i]
		fracPart = amountStr[i+len(string(sep)):]
	}

	if intPart == "" && fracPart == "" {
		return decimal.Zero, fmt.Errorf("amount '%s' has no digits", amountStr)
	}
	for _, part := range []string{intPart, fracPart} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return decimal.Zero, fmt.Errorf("amount '%s' contains unexpected character '%c'", amountStr, r)
			}
		}
	}

	if intPart == "" {
		intPart = "0"
	}
	normalized := intPart
	if fracPart != "" {
		normalized += "." + fracPart
	}

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// FormatAmount formats amount with sep as decimal separator. At least two
// fraction digits are written, more when the amount carries more, so that
// FormatAmount and ParseAmount round-trip exactly.
func FormatAmount(amount decimal.Decimal, sep rune) string {
	places := int32(minFractionDigits)
	if scale := -amount.Exponent(); scale > places {
		places = scale
	}
	formatted := amount.StringFixed(places)
	if sep == PointSeparator {
		return formatted
	}
	return strings.Replace(formatted, ".", string(sep), 1)
}

// ToMinorUnits converts an amount to minor currency units (kopecks, cents),
// rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(hundred).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %s", ErrMinorUnitsOverflow, amount.String())
	}
	return minor.IntPart(), nil
}
