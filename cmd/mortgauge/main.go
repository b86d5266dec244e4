// Command mortgauge projects the cost of buying a property with a mortgage
// against renting, from a YAML configuration or over HTTP.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mapharazzo/mortgauge/internal/config"
	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/internal/server"
	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/format"
	"github.com/Mapharazzo/mortgauge/pkg/loans"
	"github.com/Mapharazzo/mortgauge/pkg/output"
	"github.com/Mapharazzo/mortgauge/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type globalOptions struct {
	configPath string
	envFiles   []string
	logLevel   string
	outPath    string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "mortgauge",
		Short:        "Compare buying a property with a mortgage against renting",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files loaded before reading the environment (default .env)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.outPath, "out", "", "write output to this file instead of stdout")

	root.AddCommand(
		newProjectCommand(opts),
		newReportCommand(opts),
		newScheduleCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return root
}

// loadRun loads the configuration and logger shared by the offline commands.
// A missing default config file falls back to the built-in defaults.
func loadRun(cmd *cobra.Command, opts *globalOptions) (*config.Configuration, *zap.Logger, error) {
	if err := config.LoadEnvFiles(opts.envFiles...); err != nil {
		return nil, nil, err
	}

	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		if cmd.Flags().Changed("config") {
			return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
		}
		if _, statErr := os.Stat(opts.configPath); !errors.Is(statErr, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
		}
		conf, err = config.DefaultConfiguration()
		if err != nil {
			return nil, nil, err
		}
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return conf, logger, nil
}

func writeOutput(cmd *cobra.Command, opts *globalOptions, data []byte) error {
	if opts.outPath == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	file, err := os.Create(opts.outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.outPath, err)
	}
	return writeAndClose(file, opts.outPath, data)
}

// writeAndClose writes data and closes w, reporting a failed close since
// buffered data may not have reached the file.
func writeAndClose(w io.WriteCloser, name string, data []byte) error {
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

func newProjectCommand(opts *globalOptions) *cobra.Command {
	var outputFormat string
	var scale float64

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print the month-by-month projection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := loadRun(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			// CLI overrides take precedence over config
			if outputFormat == "" {
				outputFormat = conf.Output.Format
			}
			if outputFormat == "" {
				outputFormat = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			if !cmd.Flags().Changed("scale") {
				scale = conf.Output.Scale
			}

			result, err := projection.GetProjection(logger, conf.Parameters)
			if err != nil {
				return fmt.Errorf("failed to compute projection: %w", err)
			}

			formatOptions := output.Options{Scale: scale}
			if _, err := result.SnapshotForYear(conf.Analysis.Year); err == nil {
				formatOptions.Year = conf.Analysis.Year
			}
			formatter, err := output.GetFormatter(outputFormat, formatOptions)
			if err != nil {
				return err
			}
			data, err := formatter.Format(result)
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts, data)
		},
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json, pdf")
	cmd.Flags().Float64Var(&scale, "scale", 1, "divide displayed amounts, e.g. 1000 for thousands")
	return cmd
}

func newReportCommand(opts *globalOptions) *cobra.Command {
	var year int
	var scale float64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the details of one analysis year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := loadRun(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if !cmd.Flags().Changed("year") {
				year = conf.Analysis.Year
			}
			if !cmd.Flags().Changed("scale") {
				scale = conf.Output.Scale
			}

			result, err := projection.GetProjection(logger, conf.Parameters)
			if err != nil {
				return fmt.Errorf("failed to compute projection: %w", err)
			}

			header := fmt.Sprintf("Monthly Payment: %s\n\n", format.Currency(format.Scaled(result.MonthlyPayment, scale)))
			report, err := output.YearReport(result, year, output.Options{Scale: scale})
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts, append([]byte(header), report...))
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "analysis year override")
	cmd.Flags().Float64Var(&scale, "scale", 1, "divide displayed amounts, e.g. 1000 for thousands")
	return cmd
}

func newScheduleCommand(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the amortization schedule with the interest and principal split",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := loadRun(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := projection.Validate(conf.Parameters); err != nil {
				return err
			}
			params := conf.Parameters
			schedule, err := loans.NewAmortizationScheduleGenerator(logger).
				GenerateSchedule(params.Mortgage(), params.AnnualInterestRate, params.NumberOfPeriods())
			if err != nil {
				return err
			}

			data, err := output.FormatSchedule(schedule, outputFormat)
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts, data)
		},
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", constants.OutputFormatPretty, "type of output: pretty, csv, json")
	return cmd
}

func newServeCommand(opts *globalOptions) *cobra.Command {
	var serverConfigPath string
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the projection API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFiles(opts.envFiles...); err != nil {
				return err
			}

			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			logger, err := initializeLogger(cfg.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, cfg, logger, version)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override, e.g. :8080")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}
