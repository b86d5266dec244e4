package finance

import (
	"math"
	"testing"
)

func TestMonthlyReturnRate(t *testing.T) {
	if got := MonthlyReturnRate(12); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("MonthlyReturnRate(12) = %v, expected 0.01", got)
	}
	if got := MonthlyReturnRate(0); got != 0 {
		t.Errorf("MonthlyReturnRate(0) = %v, expected 0", got)
	}
}

func TestFutureValue(t *testing.T) {
	tests := []struct {
		name         string
		principal    float64
		contribution float64
		rate         float64
		periods      int
		expected     float64
	}{
		{"No periods", 1000, 100, 0.01, 0, 1000},
		{"Principal only", 1000, 0, 0.01, 12, 1000 * math.Pow(1.01, 12)},
		{"Contribution only", 0, 100, 0.01, 12, 100 * (math.Pow(1.01, 12) - 1) / 0.01},
		{"Zero rate", 100000, 3000, 0, 120, 100000 + 3000*120},
		{"Both", 100000, 500, 0.07 / 12, 180, 100000*math.Pow(1+0.07/12, 180) + 500*(math.Pow(1+0.07/12, 180)-1)/(0.07/12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FutureValue(tt.principal, tt.contribution, tt.rate, tt.periods)
			if math.IsNaN(result) || math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("FutureValue() = %.6f, expected %.6f", result, tt.expected)
			}
		})
	}
}

func TestAppreciatedValue(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		rate     float64
		months   int
		expected float64
	}{
		{"No appreciation", 600000, 0, 120, 600000},
		{"One full year", 600000, 0.5, 12, 603000},
		{"Fractional year", 600000, 0.5, 6, 600000 * math.Pow(1.005, 0.5)},
		{"Ten years", 600000, 3, 120, 600000 * math.Pow(1.03, 10)},
		{"Depreciation", 100000, -10, 12, 90000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AppreciatedValue(tt.value, tt.rate, tt.months)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("AppreciatedValue() = %.6f, expected %.6f", result, tt.expected)
			}
		})
	}
}

func TestCalculateSellingCosts(t *testing.T) {
	costs := CalculateSellingCosts(600000, 400000)

	if math.Abs(costs.EstateAgentFee-14400) > 1e-6 {
		t.Errorf("estate agent fee = %.2f, expected 14400", costs.EstateAgentFee)
	}
	if costs.LegalFees != 1500 {
		t.Errorf("legal fees = %.2f, expected 1500", costs.LegalFees)
	}
	if math.Abs(costs.EarlyRepaymentCharge-8000) > 1e-6 {
		t.Errorf("early repayment charge = %.2f, expected 8000", costs.EarlyRepaymentCharge)
	}
	if math.Abs(costs.Total-23900) > 1e-6 {
		t.Errorf("total = %.2f, expected 23900", costs.Total)
	}
}

func TestCalculateSellingCostsNegativeBalance(t *testing.T) {
	costs := CalculateSellingCosts(100000, -1000)
	if math.Abs(costs.EarlyRepaymentCharge+20) > 1e-9 {
		t.Errorf("expected negative charge to propagate, got %.2f", costs.EarlyRepaymentCharge)
	}
}
