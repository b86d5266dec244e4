package format

import (
	"math"
	"testing"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "£0.00"},
		{12.5, "£12.50"},
		{999.999, "£1,000.00"},
		{1234.56, "£1,234.56"},
		{3070.4374614, "£3,070.44"},
		{499221.229, "£499,221.23"},
		{1234567.891, "£1,234,567.89"},
		{-1234.56, "-£1,234.56"},
		{-0.001, "£0.00"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
	}

	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.expected {
			t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{1500, "1,500.00"},
		{-74894.346, "-74,894.35"},
		{100, "100.00"},
	}

	for _, tt := range tests {
		if got := NumericCurrency(tt.amount); got != tt.expected {
			t.Errorf("NumericCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestPlain(t *testing.T) {
	if got := Plain(282921.106); got != "282921.11" {
		t.Errorf("Plain = %q, expected 282921.11", got)
	}
	if got := Plain(-2.5); got != "-2.50" {
		t.Errorf("Plain = %q, expected -2.50", got)
	}
	if got := Plain(math.Inf(1)); got != "+Inf" {
		t.Errorf("Plain = %q, expected +Inf", got)
	}
}

func TestScaled(t *testing.T) {
	if got := Scaled(600000, 1000); got != 600 {
		t.Errorf("Scaled = %v, expected 600", got)
	}
	if got := Scaled(600000, 0); got != 600000 {
		t.Errorf("Scaled with zero scale = %v, expected unchanged", got)
	}
	if got := Scaled(600000, -5); got != 600000 {
		t.Errorf("Scaled with negative scale = %v, expected unchanged", got)
	}
}
