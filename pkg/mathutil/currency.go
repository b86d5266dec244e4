// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/Mapharazzo/mortgauge/pkg/constants"
)

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether a value is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// PercentToRate converts a percentage such as 5.5 into the rate 0.055.
func PercentToRate(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}
