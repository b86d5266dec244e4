// Package loans provides the fixed-rate amortization math used by the projection engine.
package loans

import (
	"fmt"
	"math"

	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given payment.
type Payment struct {
	Period             int     `json:"period"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// MonthlyRate converts an annual percentage rate into the periodic monthly rate.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
// A zero rate makes the closed form 0/0, so it is handled as straight-line repayment.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}

	r := MonthlyRate(annualInterestRate)
	if r == 0 {
		return principal / float64(termMonths)
	}

	power := math.Pow(1.00+r, float64(termMonths))
	return principal * r * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// ReplayBalance replays the amortization recurrence from period zero and
// returns the balance after the given number of payments. Negative
// amortization is reproduced as-is.
func ReplayBalance(principal, monthlyRate, payment float64, periods int) float64 {
	balance := principal
	for i := 0; i < periods; i++ {
		interest := balance * monthlyRate
		balance -= payment - interest
	}
	return balance
}

// RemainingBalance returns the balance after the given number of payments
// using the closed form of the recurrence.
func RemainingBalance(principal, monthlyRate, payment float64, periods int) float64 {
	m := float64(periods)
	if monthlyRate == 0 {
		return principal - payment*m
	}
	growth := math.Pow(1+monthlyRate, m)
	return principal*growth - payment*(growth-1)/monthlyRate
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the full payment-by-payment schedule for a loan.
func (g *AmortizationScheduleGenerator) GenerateSchedule(principal, annualInterestRate float64, termMonths int) ([]Payment, error) {
	if termMonths <= 0 {
		return nil, fmt.Errorf("term must be positive, got %d months", termMonths)
	}

	monthlyPayment := CalculateMonthlyPayment(principal, annualInterestRate, termMonths)
	schedule := make([]Payment, 0, termMonths)
	balance := principal

	for period := 1; period <= termMonths; period++ {
		interest := CalculateInterestPayment(balance, annualInterestRate)
		principalPaid := monthlyPayment - interest
		if principalPaid < 0 && period == 1 {
			g.logger.Warn(fmt.Sprintf("payment %.2f does not cover interest %.2f, balance will grow", monthlyPayment, interest),
				zap.String("op", "loans.GenerateSchedule"),
			)
		}
		balance -= principalPaid

		schedule = append(schedule, Payment{
			Period:             period,
			Payment:            monthlyPayment,
			Principal:          principalPaid,
			Interest:           interest,
			RemainingPrincipal: balance,
		})
	}

	if !mathutil.IsZero(balance) {
		g.logger.Warn(fmt.Sprintf("schedule leaves a residual balance of %.2f", balance),
			zap.String("op", "loans.GenerateSchedule"),
		)
	}

	g.logger.Debug(fmt.Sprintf("generated %d payments of %.2f", len(schedule), monthlyPayment),
		zap.String("op", "loans.GenerateSchedule"),
	)

	return schedule, nil
}

// TotalInterest sums the interest portion of a schedule.
func TotalInterest(schedule []Payment) float64 {
	total := 0.0
	for _, p := range schedule {
		total += p.Interest
	}
	return total
}
