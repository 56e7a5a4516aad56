package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/store-eerr/internal/breakeven"
	"github.com/iwvelando/store-eerr/internal/config"
	"github.com/iwvelando/store-eerr/internal/dataset"
	"github.com/iwvelando/store-eerr/internal/eerr"
	"github.com/iwvelando/store-eerr/internal/export"
	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/internal/storebase"
	"github.com/iwvelando/store-eerr/pkg/adapters"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/output"
	"github.com/iwvelando/store-eerr/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flags holds the global command line options.
type flags struct {
	configPath   string
	envFile      string
	logLevel     string
	outputFormat string
	outputPath   string
	snapshot     string
}

// app is the state shared by subcommands once configuration is loaded.
type app struct {
	flags  flags
	conf   *config.Configuration
	logger *zap.Logger
	runID  string
	format string
	stdout io.Writer
}

func newRootCommand() *cobra.Command {
	a := &app{stdout: os.Stdout}

	root := &cobra.Command{
		Use:           "store-eerr",
		Short:         "Monthly store P&L and break-even sales",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.stdout = cmd.OutOrStdout()
			return a.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	pf.StringVar(&a.flags.envFile, "env-file", "", "dotenv file loaded before the configuration")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&a.flags.outputFormat, "output-format", "", "type of output override: pretty, csv, xlsx")
	pf.StringVarP(&a.flags.outputPath, "output", "o", "", "output file override")
	pf.StringVar(&a.flags.snapshot, "snapshot", "", "input snapshot override")

	root.AddCommand(a.eerrCommand(), a.breakevenCommand(), a.ufCommand())
	return root
}

// setup loads configuration, builds the logger and validates the output
// format.
func (a *app) setup() error {
	if a.flags.envFile != "" {
		if err := config.LoadEnvFile(a.flags.envFile); err != nil {
			return err
		}
	}

	conf, err := loadConfiguration(a.flags.configPath)
	if err != nil {
		return err
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.flags.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.runID = uuid.NewString()
	a.logger = logger.With(zap.String("run_id", a.runID))

	a.format = conf.Output.Format
	if a.flags.outputFormat != "" {
		a.format = a.flags.outputFormat
	}
	if a.format == "" {
		a.format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.format); err != nil {
		return err
	}
	if a.flags.outputPath != "" {
		conf.Output.Path = a.flags.outputPath
	}
	if a.flags.snapshot != "" {
		conf.Data.Snapshot = a.flags.snapshot
	}

	for _, warning := range conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning, zap.String("op", "main"))
	}
	return nil
}

// loadConfiguration reads the file at path. A missing default file falls
// back to defaults and environment overrides.
func loadConfiguration(path string) (*config.Configuration, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && path == constants.DefaultConfigFile {
		return config.Default()
	}
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}
	return conf, nil
}

// loadInputs decodes the snapshot into engine inputs and logs data warnings.
func (a *app) loadInputs() (*model.Inputs, error) {
	snap, err := dataset.Load(a.conf.Data.Snapshot)
	if err != nil {
		return nil, err
	}
	in, err := adapters.SnapshotToInputs(snap, adapters.Options{
		PreferReal:     a.conf.Data.PreferReal,
		RealScenario:   a.conf.Engine.RealScenario,
		BudgetScenario: a.conf.Engine.BudgetScenario,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to convert snapshot %s: %w", a.conf.Data.Snapshot, err)
	}
	for _, warning := range validation.ValidateInputs(in) {
		a.logger.Warn("Input warning: "+warning, zap.String("op", "main"))
	}
	a.logger.Info("snapshot loaded",
		zap.String("op", "main"),
		zap.String("snapshot", a.conf.Data.Snapshot),
		zap.Int("stores", len(in.Stores)),
		zap.Int("sales", len(in.Sales)),
		zap.Int("schema", int(in.Schema)),
	)
	return in, nil
}

func (a *app) storeBase(in *model.Inputs) (*storebase.Base, error) {
	opts, err := a.conf.StoreBaseOptions()
	if err != nil {
		return nil, err
	}
	return storebase.NewBuilder(a.logger, opts).Build(in)
}

// report fills the fields every workbook carries.
func (a *app) report(base *storebase.Base) export.Report {
	r := export.Report{
		RunID:       a.runID,
		GeneratedAt: time.Now(),
		Snapshot:    a.conf.Data.Snapshot,
	}
	if base != nil {
		r.ReferenceMonth = base.ReferenceMonth
		r.CurrentUF = base.CurrentUF
		r.UFByMonth = base.UFByMonth
	}
	return r
}

// write sends text output to the configured path or stdout.
func (a *app) write(render func(io.Writer) error) error {
	if a.conf.Output.Path == "" {
		return render(a.stdout)
	}
	f, err := os.Create(a.conf.Output.Path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", a.conf.Output.Path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *app) saveWorkbook(r export.Report) error {
	path := a.conf.Output.Path
	if path == "" {
		path = constants.DefaultWorkbookFile
	}
	return export.NewExporter(a.logger).Save(path, r)
}

func (a *app) eerrCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "eerr",
		Short: "Build the monthly EERR per store and scenario",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			in, err := a.loadInputs()
			if err != nil {
				return err
			}
			rows, err := eerr.NewBuilder(a.logger, a.conf.EERROptions()).Build(in)
			if err != nil {
				return fmt.Errorf("failed to build EERR: %w", err)
			}

			switch a.format {
			case constants.OutputFormatCSV:
				return a.write(func(w io.Writer) error { return output.CsvEERR(w, rows) })
			case constants.OutputFormatXLSX:
				base, err := a.storeBase(in)
				if err != nil {
					return fmt.Errorf("failed to build store base: %w", err)
				}
				r := a.report(base)
				r.EERR = rows
				return a.saveWorkbook(r)
			default:
				return a.write(func(w io.Writer) error {
					output.PrettyEERR(w, eerr.Pivot(rows))
					return nil
				})
			}
		},
	}
}

func (a *app) breakevenCommand() *cobra.Command {
	var history bool
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Compute break-even sales per store and contribution margin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := a.loadInputs()
			if err != nil {
				return err
			}
			base, err := a.storeBase(in)
			if err != nil {
				return fmt.Errorf("failed to build store base: %w", err)
			}

			solver := breakeven.NewSolver(a.logger, a.conf.SolverOptions())
			var rows []model.BreakEvenRow
			if history || !a.conf.Engine.Breakeven.FullRange {
				rows, err = solver.History(cmd.Context(), base)
			} else {
				rows, err = solver.FullRange(cmd.Context(), base)
			}
			if err != nil {
				return fmt.Errorf("failed to solve break-even table: %w", err)
			}
			details := breakeven.Details(base)

			switch a.format {
			case constants.OutputFormatCSV:
				return a.write(func(w io.Writer) error { return output.CsvBreakEven(w, rows) })
			case constants.OutputFormatXLSX:
				r := a.report(base)
				r.BreakEven = rows
				r.Rent = details
				return a.saveWorkbook(r)
			default:
				return a.write(func(w io.Writer) error {
					output.PrettyBreakEven(w, rows, details)
					return nil
				})
			}
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "solve over each store's observed margin range instead of 0-100%")
	return cmd
}

func (a *app) ufCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uf",
		Short: "Show the monthly currency-index averages",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			in, err := a.loadInputs()
			if err != nil {
				return err
			}
			base, err := a.storeBase(in)
			if err != nil {
				return fmt.Errorf("failed to build store base: %w", err)
			}

			switch a.format {
			case constants.OutputFormatCSV:
				return a.write(func(w io.Writer) error { return output.CsvUF(w, base.UFByMonth) })
			case constants.OutputFormatXLSX:
				return a.saveWorkbook(a.report(base))
			default:
				return a.write(func(w io.Writer) error {
					output.PrettyUF(w, base.UFByMonth)
					return nil
				})
			}
		},
	}
}
