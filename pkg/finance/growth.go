// Package finance provides the compounding and selling-cost helpers layered
// on top of the amortization core.
package finance

import (
	"math"

	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/mathutil"
)

// SellingCosts breaks down the cost of selling the property at a given point.
type SellingCosts struct {
	EstateAgentFee       float64
	LegalFees            float64
	EarlyRepaymentCharge float64
	Total                float64
}

// MonthlyReturnRate converts an annual percentage return into a monthly rate.
func MonthlyReturnRate(annualReturnRate float64) float64 {
	return mathutil.PercentToRate(annualReturnRate) / constants.MonthsPerYear
}

// FutureValue returns the value after the given number of periods of a
// starting principal plus a fixed contribution per period, both compounding
// at the periodic rate. A zero rate degenerates to simple accumulation.
func FutureValue(principal, contribution, periodicRate float64, periods int) float64 {
	m := float64(periods)
	if periodicRate == 0 {
		return principal + contribution*m
	}
	growth := math.Pow(1+periodicRate, m)
	return principal*growth + contribution*((growth-1)/periodicRate)
}

// AppreciatedValue grows a value at an annual percentage rate for the given
// number of months, using a fractional-year exponent.
func AppreciatedValue(value, annualRate float64, months int) float64 {
	if annualRate == 0 {
		return value
	}
	years := float64(months) / constants.MonthsPerYear
	return value * math.Pow(1+mathutil.PercentToRate(annualRate), years)
}

// CalculateSellingCosts applies the fixed selling-cost policy to a sale.
func CalculateSellingCosts(salePrice, remainingBalance float64) SellingCosts {
	costs := SellingCosts{
		EstateAgentFee:       salePrice * constants.EstateAgentFeeRate,
		LegalFees:            constants.LegalFees,
		EarlyRepaymentCharge: remainingBalance * constants.EarlyRepaymentChargeRate,
	}
	costs.Total = costs.EstateAgentFee + costs.LegalFees + costs.EarlyRepaymentCharge
	return costs
}
