// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/loans"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for a mortgauge run.
type Configuration struct {
	Parameters projection.Parameters `yaml:"parameters" mapstructure:"parameters"`
	Analysis   AnalysisConfig        `yaml:"analysis,omitempty" mapstructure:"analysis"`
	Logging    LoggingConfig         `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig          `yaml:"output,omitempty" mapstructure:"output"`
}

// AnalysisConfig selects the point-in-time report.
type AnalysisConfig struct {
	Year int `yaml:"year,omitempty" mapstructure:"year"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string  `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json, pdf
	Scale  float64 `yaml:"scale,omitempty" mapstructure:"scale"`   // divide amounts for display, e.g. 1000
}

// optionalKeys have no default and are bound to the environment explicitly,
// since viper only applies AutomaticEnv to keys it already knows about.
var optionalKeys = []string{
	"parameters.investmentReturnRate",
	"parameters.houseAppreciationRate",
	"logging.outputFile",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("parameters.propertyPrice", constants.DefaultPropertyPrice)
	v.SetDefault("parameters.deposit", constants.DefaultDeposit)
	v.SetDefault("parameters.annualInterestRate", constants.DefaultAnnualInterestRate)
	v.SetDefault("parameters.mortgageTermYears", constants.DefaultMortgageTermYears)
	v.SetDefault("parameters.monthlyRent", constants.DefaultMonthlyRent)
	v.SetDefault("parameters.annualServiceCharge", constants.DefaultAnnualServiceCharge)
	v.SetDefault("analysis.year", constants.DefaultAnalysisYear)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.scale", 1.0)

	for _, key := range optionalKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() (*Configuration, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// LoadEnvFiles loads KEY=value pairs from the given .env files into the
// process environment. Missing files are ignored.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard parameter errors are reported by the projection
// itself.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	p := c.Parameters

	if p.Deposit >= p.PropertyPrice && p.PropertyPrice > 0 {
		warnings = append(warnings, fmt.Sprintf("Deposit %.2f covers the property price %.2f - there is no mortgage to amortize",
			p.Deposit, p.PropertyPrice))
	}

	if p.AnnualInterestRate == 0 {
		warnings = append(warnings, "Annual interest rate is zero - payments repay principal on a straight line")
	}

	if p.MortgageTermYears > 0 {
		if c.Analysis.Year < 1 || c.Analysis.Year > p.MortgageTermYears {
			warnings = append(warnings, fmt.Sprintf("Analysis year %d is outside the %d year term - no year report is available",
				c.Analysis.Year, p.MortgageTermYears))
		}

		payment := loans.CalculateMonthlyPayment(p.Mortgage(), p.AnnualInterestRate, p.NumberOfPeriods())
		if p.InvestmentReturnRate != nil && payment <= p.MonthlyRent {
			warnings = append(warnings, fmt.Sprintf("Monthly payment %.2f does not exceed rent %.2f - rent vs buy difference will be absent",
				payment, p.MonthlyRent))
		}
	}

	if c.Output.Scale < 0 {
		warnings = append(warnings, fmt.Sprintf("Output scale %.2f is negative and will be ignored", c.Output.Scale))
	}

	return warnings
}
