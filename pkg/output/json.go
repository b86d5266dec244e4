package output

import (
	"encoding/json"
	"fmt"

	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/mathutil"
)

// JSONFormatter outputs the month-by-month series as a JSON array.
type JSONFormatter struct{}

// Name implements Formatter.
func (JSONFormatter) Name() string { return constants.OutputFormatJSON }

// Format implements Formatter.
func (JSONFormatter) Format(p *projection.Projection) ([]byte, error) {
	data, err := json.MarshalIndent(JSONSeries(p), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode projection: %w", err)
	}
	return append(data, '\n'), nil
}

// JSONSeries returns a JSON-encodable view of the snapshots. JSON has no
// representation for NaN or Inf, so when the projection overflowed every
// non-finite figure is replaced by null.
func JSONSeries(p *projection.Projection) any {
	if !p.NonFinite {
		return p.Snapshots
	}

	series := make([]map[string]*float64, 0, len(p.Snapshots))
	for _, s := range p.Snapshots {
		month := float64(s.Month)
		record := map[string]*float64{
			"month":              &month,
			"annualInterestRate": finiteOrNil(&s.AnnualInterestRate),
		}
		for _, field := range s.Fields() {
			record[field.Name] = finiteOrNil(field.Value)
		}
		series = append(series, record)
	}
	return series
}

// JSONSnapshot is the single-snapshot counterpart of JSONSeries.
func JSONSnapshot(s projection.Snapshot) any {
	for _, field := range s.Fields() {
		if field.Value != nil && !mathutil.IsFinite(*field.Value) {
			single := &projection.Projection{Snapshots: []projection.Snapshot{s}, NonFinite: true}
			return JSONSeries(single).([]map[string]*float64)[0]
		}
	}
	return s
}

// Nullable returns nil for NaN and infinities so they encode as JSON null.
func Nullable(v float64) *float64 {
	return finiteOrNil(&v)
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || !mathutil.IsFinite(*v) {
		return nil
	}
	value := *v
	return &value
}
