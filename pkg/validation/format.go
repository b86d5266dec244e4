// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/Mapharazzo/mortgauge/pkg/constants"
)

// SupportedOutputFormats lists the formats accepted by ValidateOutputFormat.
var SupportedOutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
	constants.OutputFormatPDF,
}

var logLevels = []string{"debug", "info", "warn", "error"}

var logFormats = []string{"json", "console"}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if !contains(SupportedOutputFormats, format) {
		return fmt.Errorf("expected output format of %s, got %q",
			strings.Join(SupportedOutputFormats, ", "), format)
	}
	return nil
}

// ValidateLogLevel checks a logging level name. An empty level selects the
// default and is accepted.
func ValidateLogLevel(level string) error {
	if level == "" || contains(logLevels, level) {
		return nil
	}
	return fmt.Errorf("expected log level of %s, got %q", strings.Join(logLevels, ", "), level)
}

// ValidateLogFormat checks a logging encoder name. An empty format is accepted.
func ValidateLogFormat(format string) error {
	if format == "" || contains(logFormats, format) {
		return nil
	}
	return fmt.Errorf("expected log format of %s, got %q", strings.Join(logFormats, ", "), format)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
