package projection

import (
	"github.com/Mapharazzo/mortgauge/pkg/mathutil"
)

// Field is one named monetary value of a snapshot. Value is nil for optional
// metrics that do not apply.
type Field struct {
	Name  string
	Label string
	Value *float64
}

// Fields lists the monetary values of the snapshot in presentation order.
func (s Snapshot) Fields() []Field {
	v := func(f float64) *float64 { return &f }
	return []Field{
		{"propertyPrice", "Property Price", v(s.PropertyPrice)},
		{"deposit", "Deposit", v(s.Deposit)},
		{"mortgage", "Mortgage Amount", v(s.Mortgage)},
		{"monthlyPayment", "Monthly Payment", v(s.MonthlyPayment)},
		{"totalPaid", "Total Paid", v(s.TotalPaid)},
		{"remainingBalance", "Remaining Balance", v(s.RemainingBalance)},
		{"salePrice", "Sale Price", v(s.SalePrice)},
		{"estateAgentFee", "Estate Agent Fee", v(s.EstateAgentFee)},
		{"legalFees", "Legal Fees", v(s.LegalFees)},
		{"earlyRepaymentCharge", "Early Repayment Charge", v(s.EarlyRepaymentCharge)},
		{"totalSellingCosts", "Total Selling Costs", v(s.TotalSellingCosts)},
		{"netProceeds", "Net Proceeds", v(s.NetProceeds)},
		{"totalServiceCharges", "Total Service Charges", v(s.TotalServiceCharges)},
		{"totalOutlay", "Total Outlay", v(s.TotalOutlay)},
		{"netDifference", "Net Difference", v(s.NetDifference)},
		{"totalRentSaved", "Total Rent Saved", v(s.TotalRentSaved)},
		{"adjustedNetDifference", "Adjusted Net Difference", v(s.AdjustedNetDifference)},
		{"investmentAccountValue", "Investment Account", s.InvestmentAccountValue},
		{"rentVsBuyDifference", "Rent vs Buy Difference", s.RentVsBuyDifference},
		{"sellingNetDifference", "Selling Net Difference", s.SellingNetDifference},
	}
}

// Summary condenses a projection into headline figures.
type Summary struct {
	MonthlyPayment     float64 `json:"monthlyPayment"`
	Months             int     `json:"months"`
	TotalPaid          float64 `json:"totalPaid"`
	TotalInterest      float64 `json:"totalInterest"`
	FinalSalePrice     float64 `json:"finalSalePrice"`
	FinalNetProceeds   float64 `json:"finalNetProceeds"`
	FinalAdjustedNet   float64 `json:"finalAdjustedNetDifference"`
	BreakEvenMonth     int     `json:"breakEvenMonth"`
	RentVsBuyAvailable bool    `json:"rentVsBuyAvailable"`
	NonFinite          bool    `json:"nonFinite"`
}

// Summary returns the headline figures of the projection. BreakEvenMonth is
// the first month whose adjusted net difference is non-negative, or zero when
// owning never breaks even within the term.
func (p *Projection) Summary() Summary {
	summary := Summary{
		MonthlyPayment: p.MonthlyPayment,
		Months:         len(p.Snapshots),
		NonFinite:      p.NonFinite,
	}
	if len(p.Snapshots) == 0 {
		return summary
	}

	last := p.Snapshots[len(p.Snapshots)-1]
	summary.TotalPaid = last.TotalPaid
	summary.TotalInterest = last.TotalPaid - (last.Mortgage - last.RemainingBalance)
	summary.FinalSalePrice = last.SalePrice
	summary.FinalNetProceeds = last.NetProceeds
	summary.FinalAdjustedNet = last.AdjustedNetDifference
	summary.RentVsBuyAvailable = last.RentVsBuyDifference != nil

	for _, s := range p.Snapshots {
		if mathutil.IsFinite(s.AdjustedNetDifference) && s.AdjustedNetDifference >= 0 {
			summary.BreakEvenMonth = s.Month
			break
		}
	}
	return summary
}
