package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormatter outputs a human-readable rather than machine-readable table
// with one row per year of the term.
type PrettyFormatter struct {
	Options Options
}

// Name implements Formatter.
func (PrettyFormatter) Name() string { return constants.OutputFormatPretty }

type prettyColumn struct {
	header string
	value  func(projection.Snapshot) *float64
}

func amount(f float64) *float64 { return &f }

var prettyColumns = []prettyColumn{
	{"Remaining Balance", func(s projection.Snapshot) *float64 { return amount(s.RemainingBalance) }},
	{"Total Paid", func(s projection.Snapshot) *float64 { return amount(s.TotalPaid) }},
	{"Sale Price", func(s projection.Snapshot) *float64 { return amount(s.SalePrice) }},
	{"Net Proceeds", func(s projection.Snapshot) *float64 { return amount(s.NetProceeds) }},
	{"Total Outlay", func(s projection.Snapshot) *float64 { return amount(s.TotalOutlay) }},
	{"Adjusted Net", func(s projection.Snapshot) *float64 { return amount(s.AdjustedNetDifference) }},
	{"Investment", func(s projection.Snapshot) *float64 { return s.InvestmentAccountValue }},
	{"Rent vs Buy", func(s projection.Snapshot) *float64 { return s.RentVsBuyDifference }},
}

// Format implements Formatter.
func (f PrettyFormatter) Format(p *projection.Projection) ([]byte, error) {
	printer := message.NewPrinter(language.English)
	var buf bytes.Buffer

	columns := prettyColumns
	if !p.Parameters.Extended() {
		columns = columns[:6]
	}

	fmt.Fprintf(&buf, "--- Rent vs buy projection over %d months ---\n", len(p.Snapshots))
	_, _ = printer.Fprintf(&buf, "Monthly payment: £%.2f\n", p.MonthlyPayment)
	if f.Options.Scale > 0 && f.Options.Scale != 1 {
		fmt.Fprintf(&buf, "Amounts in units of %.0f\n", f.Options.Scale)
	}
	buf.WriteString("\n")

	headers := []string{"Year"}
	for _, c := range columns {
		headers = append(headers, c.header)
	}
	widths := make([]int, len(headers))
	rows := [][]string{}
	for _, s := range yearEnds(p) {
		row := []string{fmt.Sprintf("%d", s.Month/constants.MonthsPerYear)}
		for _, c := range columns {
			v := c.value(s)
			if v == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, printer.Sprintf("%.2f", format.Scaled(*v, f.Options.Scale)))
		}
		rows = append(rows, row)
	}

	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			padded[i] = fmt.Sprintf("%*s", widths[i], cell)
		}
		buf.WriteString(strings.Join(padded, " | "))
		buf.WriteString("\n")
	}
	writeRow(headers)
	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("_", widths[i])
	}
	writeRow(separators)
	for _, row := range rows {
		writeRow(row)
	}

	if p.NonFinite {
		buf.WriteString("\nWarning: some values overflowed and are shown as NaN or Inf\n")
	}

	return buf.Bytes(), nil
}
