package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/format"
	"github.com/jung-kurt/gofpdf"
)

// PDFFormatter renders a printable report: headline figures, the analysis
// year details when a year is selected, and a yearly table.
type PDFFormatter struct {
	Options Options
}

// Name implements Formatter.
func (PDFFormatter) Name() string { return constants.OutputFormatPDF }

// Format implements Formatter.
func (f PDFFormatter) Format(p *projection.Projection) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	// The core fonts are cp1252 encoded; the translator maps the pound sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(v float64) string { return tr(format.Currency(format.Scaled(v, f.Options.Scale))) }

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(40, 10, "Rent vs Buy Projection")
	pdf.Ln(12)

	summary := p.Summary()
	pdf.SetFont("Helvetica", "", 11)
	headline := []string{
		"Monthly payment: " + money(summary.MonthlyPayment),
		fmt.Sprintf("Term: %d months", summary.Months),
		"Total paid: " + money(summary.TotalPaid),
		"Total interest: " + money(summary.TotalInterest),
		"Final sale price: " + money(summary.FinalSalePrice),
		"Final net proceeds: " + money(summary.FinalNetProceeds),
	}
	if summary.BreakEvenMonth > 0 {
		headline = append(headline, fmt.Sprintf("Break-even month: %d", summary.BreakEvenMonth))
	}
	if f.Options.Scale > 0 && f.Options.Scale != 1 {
		headline = append(headline, fmt.Sprintf("Amounts in units of %.0f", f.Options.Scale))
	}
	for _, line := range headline {
		pdf.Cell(60, 8, line)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	if f.Options.Year > 0 {
		lines, err := YearReportLines(p, f.Options.Year, f.Options)
		if err != nil {
			return nil, err
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(40, 8, fmt.Sprintf("Year %d Details", f.Options.Year))
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range lines {
			pdf.Cell(80, 6, tr(line.Label))
			pdf.Cell(40, 6, tr(line.Value))
			pdf.Ln(6)
		}
		pdf.AddPage()
	}

	headers := []string{"Year", "Balance", "Total Paid", "Sale Price", "Net Proceeds", "Total Outlay", "Adjusted Net"}
	widths := []float64{15, 38, 38, 38, 38, 38, 38}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	for _, s := range yearEnds(p) {
		cells := []string{
			strconv.Itoa(s.Month / constants.MonthsPerYear),
			money(s.RemainingBalance),
			money(s.TotalPaid),
			money(s.SalePrice),
			money(s.NetProceeds),
			money(s.TotalOutlay),
			money(s.AdjustedNetDifference),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
