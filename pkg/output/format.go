// Package output provides utilities for formatting and displaying projection results.
package output

import (
	"fmt"

	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/validation"
)

// Formatter renders a projection into a byte slice.
// Implementations are pure and never modify the projection.
type Formatter interface {
	Format(p *projection.Projection) ([]byte, error)
	// Name returns the output format identifier.
	Name() string
}

// Options tune the human-readable renderings.
type Options struct {
	// Scale divides monetary amounts for display, e.g. 1000 for thousands.
	// Machine-readable formats ignore it.
	Scale float64
	// Year selects the analysis year included in the PDF report. Zero omits it.
	Year int
}

// GetFormatter returns the formatter registered under name.
func GetFormatter(name string, opts Options) (Formatter, error) {
	if err := validation.ValidateOutputFormat(name); err != nil {
		return nil, err
	}

	switch name {
	case constants.OutputFormatPretty:
		return PrettyFormatter{Options: opts}, nil
	case constants.OutputFormatCSV:
		return CSVFormatter{}, nil
	case constants.OutputFormatJSON:
		return JSONFormatter{}, nil
	case constants.OutputFormatPDF:
		return PDFFormatter{Options: opts}, nil
	}
	return nil, fmt.Errorf("no formatter registered for %q", name)
}

// yearEnds returns the snapshots closing each year of the term. A trailing
// partial year is not possible since terms are whole years.
func yearEnds(p *projection.Projection) []projection.Snapshot {
	rows := make([]projection.Snapshot, 0, len(p.Snapshots)/constants.MonthsPerYear)
	for _, s := range p.Snapshots {
		if s.Month%constants.MonthsPerYear == 0 {
			rows = append(rows, s)
		}
	}
	return rows
}
