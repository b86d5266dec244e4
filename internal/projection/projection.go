// Package projection computes the month-by-month rent versus buy comparison
// for a single set of mortgage parameters.
package projection

import (
	"errors"
	"fmt"

	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/finance"
	"github.com/Mapharazzo/mortgauge/pkg/loans"
	"github.com/Mapharazzo/mortgauge/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrYearOutOfRange is returned when an analysis year has no snapshot.
var ErrYearOutOfRange = errors.New("analysis year out of range")

// Snapshot holds the derived figures at the end of one month. Snapshots are
// values and are never modified after the projection creates them.
type Snapshot struct {
	Month                  int      `json:"month"`
	PropertyPrice          float64  `json:"propertyPrice"`
	Deposit                float64  `json:"deposit"`
	Mortgage               float64  `json:"mortgage"`
	AnnualInterestRate     float64  `json:"annualInterestRate"`
	MonthlyPayment         float64  `json:"monthlyPayment"`
	TotalPaid              float64  `json:"totalPaid"`
	RemainingBalance       float64  `json:"remainingBalance"`
	SalePrice              float64  `json:"salePrice"`
	EstateAgentFee         float64  `json:"estateAgentFee"`
	LegalFees              float64  `json:"legalFees"`
	EarlyRepaymentCharge   float64  `json:"earlyRepaymentCharge"`
	TotalSellingCosts      float64  `json:"totalSellingCosts"`
	NetProceeds            float64  `json:"netProceeds"`
	TotalServiceCharges    float64  `json:"totalServiceCharges"`
	TotalOutlay            float64  `json:"totalOutlay"`
	NetDifference          float64  `json:"netDifference"`
	TotalRentSaved         float64  `json:"totalRentSaved"`
	AdjustedNetDifference  float64  `json:"adjustedNetDifference"`
	InvestmentAccountValue *float64 `json:"investmentAccountValue"`
	RentVsBuyDifference    *float64 `json:"rentVsBuyDifference"`
	SellingNetDifference   *float64 `json:"sellingNetDifference"`
}

// Projection is the fully materialized series for one request.
type Projection struct {
	Parameters     Parameters
	MonthlyPayment float64
	MonthlyRate    float64
	Snapshots      []Snapshot
	// NonFinite is set when any derived figure is NaN or infinite. The values
	// are kept as computed; presentation layers decide how to show them.
	NonFinite bool
}

// GetProjection validates the parameters and computes one snapshot per month
// of the mortgage term.
func GetProjection(logger *zap.Logger, params Parameters) (*Projection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := Validate(params); err != nil {
		logger.Debug("rejected projection parameters",
			zap.String("op", "projection.GetProjection"),
			zap.Error(err),
		)
		return nil, err
	}

	periods := params.NumberOfPeriods()
	rate := loans.MonthlyRate(params.AnnualInterestRate)
	payment := loans.CalculateMonthlyPayment(params.Mortgage(), params.AnnualInterestRate, periods)

	result := &Projection{
		Parameters:     params,
		MonthlyPayment: payment,
		MonthlyRate:    rate,
		Snapshots:      make([]Snapshot, 0, periods),
	}

	for month := 1; month <= periods; month++ {
		balance := loans.RemainingBalance(params.Mortgage(), rate, payment, month)
		snapshot := deriveSnapshot(params, payment, balance, month)
		if !result.NonFinite && !snapshot.finite() {
			result.NonFinite = true
			logger.Warn(fmt.Sprintf("projection produced non-finite values from month %d", month),
				zap.String("op", "projection.GetProjection"),
			)
		}
		result.Snapshots = append(result.Snapshots, snapshot)
	}

	logger.Debug(fmt.Sprintf("projected %d months with monthly payment %.2f", periods, payment),
		zap.String("op", "projection.GetProjection"),
		zap.Bool("extended", params.Extended()),
	)

	return result, nil
}

// deriveSnapshot computes every metric for one month from the balance and the
// fixed payment.
func deriveSnapshot(p Parameters, payment, balance float64, month int) Snapshot {
	m := float64(month)
	salePrice := finance.AppreciatedValue(p.PropertyPrice, p.AppreciationRate(), month)
	costs := finance.CalculateSellingCosts(salePrice, balance)
	totalPaid := payment * m
	serviceCharges := p.AnnualServiceCharge * (m / constants.MonthsPerYear)

	s := Snapshot{
		Month:                month,
		PropertyPrice:        p.PropertyPrice,
		Deposit:              p.Deposit,
		Mortgage:             p.Mortgage(),
		AnnualInterestRate:   p.AnnualInterestRate,
		MonthlyPayment:       payment,
		TotalPaid:            totalPaid,
		RemainingBalance:     balance,
		SalePrice:            salePrice,
		EstateAgentFee:       costs.EstateAgentFee,
		LegalFees:            costs.LegalFees,
		EarlyRepaymentCharge: costs.EarlyRepaymentCharge,
		TotalSellingCosts:    costs.Total,
		NetProceeds:          salePrice - balance - costs.Total,
		TotalServiceCharges:  serviceCharges,
		TotalOutlay:          p.Deposit + totalPaid + serviceCharges,
		TotalRentSaved:       p.MonthlyRent * m,
	}
	s.NetDifference = s.NetProceeds - s.TotalOutlay
	s.AdjustedNetDifference = s.NetDifference + s.TotalRentSaved

	if !p.Extended() {
		return s
	}

	// Selling costs are already inside NetProceeds; this subtracts them again.
	sellingNet := s.AdjustedNetDifference - s.TotalSellingCosts
	s.SellingNetDifference = &sellingNet

	if p.InvestmentReturnRate != nil {
		i := finance.MonthlyReturnRate(*p.InvestmentReturnRate)
		account := finance.FutureValue(p.Deposit, payment, i, month)
		s.InvestmentAccountValue = &account

		if payment > p.MonthlyRent {
			rentInvestment := finance.FutureValue(p.Deposit, payment-p.MonthlyRent, i, month)
			buyScenario := p.PropertyPrice - balance - totalPaid - serviceCharges
			diff := (rentInvestment - s.TotalRentSaved) - (buyScenario - p.Deposit)
			s.RentVsBuyDifference = &diff
		}
	}

	return s
}

func (s Snapshot) finite() bool {
	for _, f := range s.Fields() {
		if f.Value != nil && !mathutil.IsFinite(*f.Value) {
			return false
		}
	}
	return true
}

// AnalysisIndex returns the 0-based snapshot index reported for an analysis
// year. Year Y maps to index (Y-1)*12, which is month (Y-1)*12+1: the first
// month of year Y rather than the last.
func AnalysisIndex(year int) int {
	return (year - 1) * constants.MonthsPerYear
}

// SnapshotForYear returns the snapshot reported for an analysis year.
func (p *Projection) SnapshotForYear(year int) (Snapshot, error) {
	// Bound the year before multiplying so that huge years cannot wrap
	// around to a negative index.
	years := (len(p.Snapshots) + constants.MonthsPerYear - 1) / constants.MonthsPerYear
	if year < 1 || year > years {
		return Snapshot{}, fmt.Errorf("%w: year %d with %d months projected", ErrYearOutOfRange, year, len(p.Snapshots))
	}
	return p.Snapshots[AnalysisIndex(year)], nil
}

// SnapshotForMonth returns the snapshot for a 1-based month.
func (p *Projection) SnapshotForMonth(month int) (Snapshot, error) {
	if month < 1 || month > len(p.Snapshots) {
		return Snapshot{}, fmt.Errorf("%w: month %d with %d months projected", ErrYearOutOfRange, month, len(p.Snapshots))
	}
	return p.Snapshots[month-1], nil
}
