package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/Mapharazzo/mortgauge/internal/config"
	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/internal/server"
	"github.com/Mapharazzo/mortgauge/pkg/output"
	"github.com/Mapharazzo/mortgauge/pkg/testutil"
	"go.uber.org/zap"
)

const testConfigPath = "../test_config.yaml"

func loadProjection(t *testing.T) (*config.Configuration, *projection.Projection) {
	t.Helper()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	result, err := projection.GetProjection(zap.NewNop(), conf.Parameters)
	if err != nil {
		t.Fatalf("GetProjection() error = %v", err)
	}
	return conf, result
}

// TestMainIntegrationBaseline runs the configuration through the engine the
// way the project command does and checks the headline values.
func TestMainIntegrationBaseline(t *testing.T) {
	conf, result := loadProjection(t)

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no configuration warnings, got %v", warnings)
	}

	if len(result.Snapshots) != 300 {
		t.Fatalf("expected 300 snapshots, got %d", len(result.Snapshots))
	}
	if math.Abs(result.MonthlyPayment-3070.44) > 0.01 {
		t.Errorf("expected monthly payment 3070.44, got %.4f", result.MonthlyPayment)
	}

	first := testutil.FindSnapshot(result.Snapshots, 1)
	if first == nil {
		t.Fatal("missing month 1")
	}
	if math.Abs(first.RemainingBalance-499221.23) > 0.01 {
		t.Errorf("expected month 1 balance 499221.23, got %.4f", first.RemainingBalance)
	}

	report, err := result.SnapshotForYear(conf.Analysis.Year)
	if err != nil {
		t.Fatalf("SnapshotForYear() error = %v", err)
	}
	if report.Month != 169 {
		t.Errorf("expected year 15 to report month 169, got %d", report.Month)
	}
	if report.InvestmentAccountValue == nil || report.RentVsBuyDifference == nil || report.SellingNetDifference == nil {
		t.Error("expected all extended metrics for the configured rates")
	}
	if report.SalePrice <= conf.Parameters.PropertyPrice {
		t.Errorf("expected appreciated sale price above %.2f, got %.2f", conf.Parameters.PropertyPrice, report.SalePrice)
	}
}

func TestOutputFormats(t *testing.T) {
	conf, result := loadProjection(t)

	for _, name := range []string{"pretty", "csv", "json", "pdf"} {
		t.Run(name, func(t *testing.T) {
			formatter, err := output.GetFormatter(name, output.Options{Scale: conf.Output.Scale, Year: conf.Analysis.Year})
			if err != nil {
				t.Fatalf("GetFormatter(%s) error = %v", name, err)
			}
			data, err := formatter.Format(result)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if len(data) == 0 {
				t.Fatal("expected output")
			}

			switch name {
			case "csv":
				records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
				if err != nil {
					t.Fatalf("invalid CSV: %v", err)
				}
				if len(records) != 301 {
					t.Errorf("expected 301 CSV records, got %d", len(records))
				}
			case "json":
				var decoded []projection.Snapshot
				if err := json.Unmarshal(data, &decoded); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if !reflect.DeepEqual(decoded, result.Snapshots) {
					t.Error("JSON output does not decode to the projected snapshots")
				}
			case "pretty":
				if !strings.Contains(string(data), "Rent vs Buy") {
					t.Error("expected extended columns in pretty output")
				}
			case "pdf":
				if !bytes.HasPrefix(data, []byte("%PDF-")) {
					t.Error("expected PDF document")
				}
			}
		})
	}
}

// TestServerMatchesEngine checks that the HTTP endpoint returns the same
// series as calling the engine directly.
func TestServerMatchesEngine(t *testing.T) {
	conf, result := loadProjection(t)

	ts := httptest.NewServer(server.NewHandler(zap.NewNop(), server.Options{}))
	defer ts.Close()

	body, err := json.Marshal(conf.Parameters)
	if err != nil {
		t.Fatalf("failed to encode parameters: %v", err)
	}
	resp, err := http.Post(ts.URL+"/calculate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /calculate error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var served []projection.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&served); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !reflect.DeepEqual(served, result.Snapshots) {
		t.Error("served series differs from the engine series")
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	_, first := loadProjection(t)
	_, second := loadProjection(t)

	if !reflect.DeepEqual(first.Snapshots, second.Snapshots) {
		t.Fatal("repeated projections of the same configuration differ")
	}
}

func TestConfigurationVariations(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *projection.Parameters)
	}{
		{"short term", func(p *projection.Parameters) { p.MortgageTermYears = 5 }},
		{"long term", func(p *projection.Parameters) { p.MortgageTermYears = 40 }},
		{"zero interest", func(p *projection.Parameters) { p.AnnualInterestRate = 0 }},
		{"high interest", func(p *projection.Parameters) { p.AnnualInterestRate = 15 }},
		{"large deposit", func(p *projection.Parameters) { p.Deposit = 550000 }},
		{"no rent", func(p *projection.Parameters) { p.MonthlyRent = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testutil.ExtendedParameters()
			tt.modify(&params)

			result, err := projection.GetProjection(zap.NewNop(), params)
			if err != nil {
				t.Fatalf("GetProjection() error = %v", err)
			}

			n := params.NumberOfPeriods()
			if len(result.Snapshots) != n {
				t.Fatalf("expected %d snapshots, got %d", n, len(result.Snapshots))
			}

			last := result.Snapshots[n-1]
			if math.Abs(last.RemainingBalance) > 1e-4 {
				t.Errorf("expected the loan to be repaid by month %d, balance %.6f", n, last.RemainingBalance)
			}

			for _, s := range result.Snapshots {
				expectedPaid := result.MonthlyPayment * float64(s.Month)
				if math.Abs(s.TotalPaid-expectedPaid) > 1e-6 {
					t.Fatalf("month %d: total paid %.6f, expected %.6f", s.Month, s.TotalPaid, expectedPaid)
				}
				if (s.RentVsBuyDifference != nil) != (result.MonthlyPayment > params.MonthlyRent) {
					t.Fatalf("month %d: rent vs buy presence does not follow payment %.2f vs rent %.2f",
						s.Month, result.MonthlyPayment, params.MonthlyRent)
				}
			}
		})
	}
}
