// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mapharazzo/mortgauge/internal/projection"
)

// BaseParameters returns the calculator's default inputs without the optional
// investment and appreciation rates.
func BaseParameters() projection.Parameters {
	return projection.Parameters{
		PropertyPrice:       600000,
		Deposit:             100000,
		AnnualInterestRate:  5.5,
		MortgageTermYears:   25,
		MonthlyRent:         2500,
		AnnualServiceCharge: 5000,
	}
}

// ExtendedParameters returns BaseParameters with a 7% investment return and
// 0.5% house appreciation.
func ExtendedParameters() projection.Parameters {
	p := BaseParameters()
	p.InvestmentReturnRate = projection.Float(7)
	p.HouseAppreciationRate = projection.Float(0.5)
	return p
}

// FindSnapshot finds the snapshot for a 1-based month in the series.
// Returns a pointer to the snapshot if found, nil otherwise.
func FindSnapshot(snapshots []projection.Snapshot, month int) *projection.Snapshot {
	for i := range snapshots {
		if snapshots[i].Month == month {
			return &snapshots[i]
		}
	}
	return nil
}

// WriteFile writes contents to name inside a per-test temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
