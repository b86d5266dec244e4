// Package format renders monetary amounts for display.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "£"

// Currency returns a currency string with a pound sign and thousands separators (e.g., "-£1,234.56").
// Non-finite amounts are returned as "NaN", "+Inf" or "-Inf" without a symbol.
func Currency(amount float64) string {
	if s, ok := nonFinite(amount); ok {
		return s
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + CurrencySymbol + formatted
	}
	return CurrencySymbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if s, ok := nonFinite(amount); ok {
		return s
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// Plain returns the amount fixed to two decimal places with no separators, for
// machine-readable output.
func Plain(amount float64) string {
	if s, ok := nonFinite(amount); ok {
		return s
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Scaled divides amount by scale for display. A scale of zero or below leaves
// the amount unchanged.
func Scaled(amount, scale float64) float64 {
	if scale <= 0 || scale == 1 {
		return amount
	}
	return amount / scale
}

func nonFinite(amount float64) (string, bool) {
	switch {
	case math.IsNaN(amount):
		return "NaN", true
	case math.IsInf(amount, 1):
		return "+Inf", true
	case math.IsInf(amount, -1):
		return "-Inf", true
	}
	return "", false
}

func formatPositiveCurrency(value float64) string {
	formatted := decimal.NewFromFloat(value).StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
