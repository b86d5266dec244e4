package output

import (
	"bytes"
	"fmt"

	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/pkg/format"
)

// ReportLine is one labelled value of a year report.
type ReportLine struct {
	Label string
	Value string
}

// YearReportLines returns the details of the snapshot reported for an
// analysis year, formatted for display with the scale applied.
func YearReportLines(p *projection.Projection, year int, opts Options) ([]ReportLine, error) {
	s, err := p.SnapshotForYear(year)
	if err != nil {
		return nil, err
	}

	money := func(v float64) string { return format.Currency(format.Scaled(v, opts.Scale)) }
	lines := []ReportLine{
		{"Property Price", money(s.PropertyPrice)},
		{"Deposit", money(s.Deposit)},
		{"Mortgage Amount", money(s.Mortgage)},
		{"Annual Interest Rate", fmt.Sprintf("%g%%", s.AnnualInterestRate)},
		{"Monthly Payment", money(s.MonthlyPayment)},
		{fmt.Sprintf("Total Paid (up to Year %d)", year), money(s.TotalPaid)},
		{fmt.Sprintf("Remaining Balance (at Year %d)", year), money(s.RemainingBalance)},
		{"Sale Price", money(s.SalePrice)},
		{"Total Selling Costs", money(s.TotalSellingCosts)},
		{"Net Proceeds", money(s.NetProceeds)},
		{"Total Service Charges", money(s.TotalServiceCharges)},
		{"Total Outlay", money(s.TotalOutlay)},
		{"Net Difference", money(s.NetDifference)},
		{"Total Rent Saved", money(s.TotalRentSaved)},
		{"Adjusted Net Difference", money(s.AdjustedNetDifference)},
	}
	optional := []struct {
		label string
		value *float64
	}{
		{"Investment Account Value", s.InvestmentAccountValue},
		{"Rent vs Buy Difference", s.RentVsBuyDifference},
		{"Selling Net Difference", s.SellingNetDifference},
	}
	for _, o := range optional {
		if o.value != nil {
			lines = append(lines, ReportLine{o.label, money(*o.value)})
		}
	}
	return lines, nil
}

// YearReport renders the details block for an analysis year as text.
func YearReport(p *projection.Projection, year int, opts Options) ([]byte, error) {
	lines, err := YearReportLines(p, year, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Year %d Details:\n", year)
	for _, line := range lines {
		fmt.Fprintf(&buf, "%s: %s\n", line.Label, line.Value)
	}
	return buf.Bytes(), nil
}
