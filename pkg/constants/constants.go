// Package constants provides shared constants for the mortgauge application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxTermYears bounds the mortgage term accepted by the engine
	MaxTermYears = 100
)

// Selling cost policy. These are fixed assumptions, not configuration.
const (
	// EstateAgentFeeRate is the share of the sale price paid to the estate agent (2.4%)
	EstateAgentFeeRate = 0.024

	// LegalFees is the flat conveyancing cost charged on sale
	LegalFees = 1500.0

	// EarlyRepaymentChargeRate is the share of the outstanding balance charged on early sale (2%)
	EarlyRepaymentChargeRate = 0.02
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatPDF is the PDF report output format
	OutputFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "MORTGAUGE"
)

// Default projection parameters, matching the calculator's initial form values.
const (
	DefaultPropertyPrice       = 600000.0
	DefaultDeposit             = 100000.0
	DefaultAnnualInterestRate  = 5.5
	DefaultMortgageTermYears   = 25
	DefaultMonthlyRent         = 2500.0
	DefaultAnnualServiceCharge = 5000.0
	DefaultAnalysisYear        = 15
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":5000"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultCacheTTLSeconds is the default lifetime of cached projection responses
	DefaultCacheTTLSeconds = 300

	// DefaultServiceName identifies the service in traces
	DefaultServiceName = "mortgauge"
)
