package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mapharazzo/mortgauge/internal/config"
	"github.com/Mapharazzo/mortgauge/pkg/testutil"
)

const testConfig = `parameters:
  propertyPrice: 600000
  deposit: 100000
  annualInterestRate: 5.5
  mortgageTermYears: 25
  monthlyRent: 2500
  annualServiceCharge: 5000
analysis:
  year: 15
logging:
  level: error
output:
  format: csv
`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		expectErr bool
	}{
		{name: "defaults", config: config.LoggingConfig{}},
		{name: "console debug", config: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", config: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "warning alias", override: "warning"},
		{name: "invalid level", config: config.LoggingConfig{Level: "loud"}, expectErr: true},
		{name: "invalid format", config: config.LoggingConfig{Format: "xml"}, expectErr: true},
		{name: "output file", config: config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "run.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			_ = logger.Sync()
		})
	}
}

func TestProjectCommandCSV(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", testConfig)

	out, err := runCommand(t, "project", "--config", path)
	if err != nil {
		t.Fatalf("project failed: %v\n%s", err, out)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 301 {
		t.Fatalf("expected header plus 300 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "month,propertyPrice") {
		t.Fatalf("unexpected header %q", lines[0])
	}
}

func TestProjectCommandFormatOverride(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", testConfig)

	out, err := runCommand(t, "project", "--config", path, "--output-format", "pretty", "--scale", "1000")
	if err != nil {
		t.Fatalf("project failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Amounts in units of 1000") {
		t.Fatalf("expected scaled pretty output, got:\n%s", out)
	}

	if _, err := runCommand(t, "project", "--config", path, "--output-format", "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestProjectCommandWritesPDF(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", testConfig)
	outPath := filepath.Join(t.TempDir(), "report.pdf")

	if out, err := runCommand(t, "project", "--config", path, "--output-format", "pdf", "--out", outPath); err != nil {
		t.Fatalf("project failed: %v\n%s", err, out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read PDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("expected PDF output")
	}
}

type failingCloser struct {
	bytes.Buffer
	closeErr error
}

func (f *failingCloser) Close() error { return f.closeErr }

func TestWriteAndClose(t *testing.T) {
	ok := &failingCloser{}
	if err := writeAndClose(ok, "out.pdf", []byte("%PDF-")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.String() != "%PDF-" {
		t.Fatalf("expected data to be written, got %q", ok.String())
	}

	closeErr := errors.New("disk full")
	err := writeAndClose(&failingCloser{closeErr: closeErr}, "out.pdf", []byte("%PDF-"))
	if !errors.Is(err, closeErr) {
		t.Fatalf("expected close error to be returned, got %v", err)
	}
}

func TestReportCommand(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", testConfig)

	out, err := runCommand(t, "report", "--config", path)
	if err != nil {
		t.Fatalf("report failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Monthly Payment: £3,070.44") {
		t.Fatalf("expected monthly payment, got:\n%s", out)
	}
	if !strings.Contains(out, "Year 15 Details:") {
		t.Fatalf("expected year 15 details, got:\n%s", out)
	}

	out, err = runCommand(t, "report", "--config", path, "--year", "1")
	if err != nil {
		t.Fatalf("report failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Remaining Balance (at Year 1): £499,221.23") {
		t.Fatalf("expected month 1 balance, got:\n%s", out)
	}

	for _, year := range []string{"26", "4611686018427387904"} {
		if _, err := runCommand(t, "report", "--config", path, "--year", year); err == nil {
			t.Fatalf("expected error for year %s beyond the term", year)
		}
	}
}

func TestScheduleCommand(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", testConfig)

	out, err := runCommand(t, "schedule", "--config", path, "--output-format", "csv")
	if err != nil {
		t.Fatalf("schedule failed: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 301 {
		t.Fatalf("expected header plus 300 payments, got %d", len(lines))
	}
}

func TestInvalidParametersFail(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", strings.Replace(testConfig, "mortgageTermYears: 25", "mortgageTermYears: 0", 1))

	if _, err := runCommand(t, "project", "--config", path); err == nil {
		t.Fatal("expected error for zero term")
	}
	if _, err := runCommand(t, "schedule", "--config", path); err == nil {
		t.Fatal("expected error for zero term")
	}
}

func TestMissingExplicitConfigFails(t *testing.T) {
	if _, err := runCommand(t, "project", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Fatalf("expected %q, got %q", version, out)
	}
}
