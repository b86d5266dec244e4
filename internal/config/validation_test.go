package config

import (
	"strings"
	"testing"

	"github.com/Mapharazzo/mortgauge/internal/projection"
)

func validConfiguration() Configuration {
	return Configuration{
		Parameters: projection.Parameters{
			PropertyPrice:       600000,
			Deposit:             100000,
			AnnualInterestRate:  5.5,
			MortgageTermYears:   25,
			MonthlyRent:         2500,
			AnnualServiceCharge: 5000,
		},
		Analysis: AnalysisConfig{Year: 15},
		Output:   OutputConfig{Format: "pretty", Scale: 1},
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Configuration)
		contains string
	}{
		{"no warnings", func(c *Configuration) {}, ""},
		{"deposit covers price", func(c *Configuration) { c.Parameters.Deposit = 600000 }, "no mortgage"},
		{"zero interest", func(c *Configuration) { c.Parameters.AnnualInterestRate = 0 }, "straight line"},
		{"analysis year past term", func(c *Configuration) { c.Analysis.Year = 26 }, "outside the 25 year term"},
		{"analysis year zero", func(c *Configuration) { c.Analysis.Year = 0 }, "outside"},
		{"rent exceeds payment", func(c *Configuration) {
			c.Parameters.InvestmentReturnRate = projection.Float(7)
			c.Parameters.MonthlyRent = 5000
		}, "rent vs buy difference will be absent"},
		{"negative scale", func(c *Configuration) { c.Output.Scale = -1 }, "scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := validConfiguration()
			tt.mutate(&conf)
			warnings := conf.ValidateConfiguration()

			if tt.contains == "" {
				if len(warnings) != 0 {
					t.Errorf("expected no warnings, got %v", warnings)
				}
				return
			}

			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.contains) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected warning containing %q, got %v", tt.contains, warnings)
			}
		})
	}
}
