package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/format"
	"github.com/Mapharazzo/mortgauge/pkg/loans"
)

// CSVFormatter outputs one row per month in comma-separated value format.
// Optional metrics that do not apply are left blank.
type CSVFormatter struct{}

// Name implements Formatter.
func (CSVFormatter) Name() string { return constants.OutputFormatCSV }

// Format implements Formatter.
func (CSVFormatter) Format(p *projection.Projection) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"month"}
	if len(p.Snapshots) > 0 {
		for _, field := range p.Snapshots[0].Fields() {
			header = append(header, field.Name)
		}
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range p.Snapshots {
		record := []string{strconv.Itoa(s.Month)}
		for _, field := range s.Fields() {
			if field.Value == nil {
				record = append(record, "")
				continue
			}
			record = append(record, format.Plain(*field.Value))
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row for month %d: %w", s.Month, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ScheduleCSV renders an amortization schedule in comma-separated value format.
func ScheduleCSV(schedule []loans.Payment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"period", "payment", "principal", "interest", "remainingPrincipal"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, payment := range schedule {
		record := []string{
			strconv.Itoa(payment.Period),
			format.Plain(payment.Payment),
			format.Plain(payment.Principal),
			format.Plain(payment.Interest),
			format.Plain(payment.RemainingPrincipal),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row for period %d: %w", payment.Period, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
