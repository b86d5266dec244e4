package projection

import (
	"errors"
	"fmt"

	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/mathutil"
)

// ErrInvalidParameter is wrapped by every parameter validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// Parameters holds the inputs of a single projection request.
//
// InvestmentReturnRate and HouseAppreciationRate are optional capabilities.
// When both are nil the projection runs the base variant: the sale price
// stays at the purchase price and none of the investment comparison fields
// are populated.
type Parameters struct {
	PropertyPrice         float64  `json:"propertyPrice" yaml:"propertyPrice" mapstructure:"propertyPrice"`
	Deposit               float64  `json:"deposit" yaml:"deposit" mapstructure:"deposit"`
	AnnualInterestRate    float64  `json:"annualInterestRate" yaml:"annualInterestRate" mapstructure:"annualInterestRate"`
	MortgageTermYears     int      `json:"mortgageTermYears" yaml:"mortgageTermYears" mapstructure:"mortgageTermYears"`
	MonthlyRent           float64  `json:"monthlyRent" yaml:"monthlyRent" mapstructure:"monthlyRent"`
	AnnualServiceCharge   float64  `json:"annualServiceCharge" yaml:"annualServiceCharge" mapstructure:"annualServiceCharge"`
	InvestmentReturnRate  *float64 `json:"investmentReturnRate,omitempty" yaml:"investmentReturnRate,omitempty" mapstructure:"investmentReturnRate"`
	HouseAppreciationRate *float64 `json:"houseAppreciationRate,omitempty" yaml:"houseAppreciationRate,omitempty" mapstructure:"houseAppreciationRate"`
}

// Mortgage returns the borrowed amount. It may be zero or negative when the
// deposit covers the price.
func (p Parameters) Mortgage() float64 {
	return p.PropertyPrice - p.Deposit
}

// NumberOfPeriods returns the number of monthly payments over the term.
func (p Parameters) NumberOfPeriods() int {
	return p.MortgageTermYears * constants.MonthsPerYear
}

// Extended reports whether any of the optional capabilities is enabled.
func (p Parameters) Extended() bool {
	return p.InvestmentReturnRate != nil || p.HouseAppreciationRate != nil
}

// AppreciationRate returns the annual appreciation percentage, zero when unset.
func (p Parameters) AppreciationRate() float64 {
	if p.HouseAppreciationRate == nil {
		return 0
	}
	return *p.HouseAppreciationRate
}

// ParameterError describes a single rejected parameter.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// Validate checks the parameters before any computation starts. All problems
// are reported together.
func Validate(p Parameters) error {
	var errs []error
	reject := func(field, reason string) {
		errs = append(errs, &ParameterError{Field: field, Reason: reason})
	}

	amounts := []struct {
		field string
		value float64
	}{
		{"propertyPrice", p.PropertyPrice},
		{"deposit", p.Deposit},
		{"annualInterestRate", p.AnnualInterestRate},
		{"monthlyRent", p.MonthlyRent},
		{"annualServiceCharge", p.AnnualServiceCharge},
	}
	for _, a := range amounts {
		switch {
		case !mathutil.IsFinite(a.value):
			reject(a.field, "must be a finite number")
		case a.value < 0:
			reject(a.field, fmt.Sprintf("must not be negative, got %v", a.value))
		}
	}
	if mathutil.IsFinite(p.PropertyPrice) && p.PropertyPrice == 0 {
		reject("propertyPrice", "must be positive")
	}

	if p.MortgageTermYears <= 0 {
		reject("mortgageTermYears", fmt.Sprintf("must be positive, got %d", p.MortgageTermYears))
	} else if p.MortgageTermYears > constants.MaxTermYears {
		reject("mortgageTermYears", fmt.Sprintf("must not exceed %d, got %d", constants.MaxTermYears, p.MortgageTermYears))
	}

	optional := []struct {
		field string
		value *float64
	}{
		{"investmentReturnRate", p.InvestmentReturnRate},
		{"houseAppreciationRate", p.HouseAppreciationRate},
	}
	for _, o := range optional {
		if o.value == nil {
			continue
		}
		switch {
		case !mathutil.IsFinite(*o.value):
			reject(o.field, "must be a finite number")
		case *o.value <= -constants.PercentageMultiplier:
			reject(o.field, fmt.Sprintf("must be greater than -100, got %v", *o.value))
		}
	}

	return errors.Join(errs...)
}

// RequiredFields are the parameter keys a request must carry. The optional
// investment and appreciation rates are absent from the list.
var RequiredFields = []string{
	"propertyPrice",
	"deposit",
	"annualInterestRate",
	"mortgageTermYears",
	"monthlyRent",
	"annualServiceCharge",
}

// RequireFields rejects every required field missing from present, keyed by
// the names in RequiredFields.
func RequireFields(present map[string]bool) error {
	var errs []error
	for _, field := range RequiredFields {
		if !present[field] {
			errs = append(errs, &ParameterError{Field: field, Reason: "is required"})
		}
	}
	return errors.Join(errs...)
}

// Float returns a pointer to v, for populating optional parameters.
func Float(v float64) *float64 {
	return &v
}
