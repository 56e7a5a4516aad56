// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/store-eerr/internal/breakeven"
	"github.com/iwvelando/store-eerr/internal/eerr"
	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/internal/staff"
	"github.com/iwvelando/store-eerr/internal/storebase"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/datetime"
	"github.com/iwvelando/store-eerr/pkg/ufindex"
	"github.com/iwvelando/store-eerr/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for store-eerr.
type Configuration struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
	Data    DataConfig    `mapstructure:"data"`
	Engine  EngineConfig  `mapstructure:"engine"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`      // debug, info, warn, error
	Format     string `mapstructure:"format"`     // json, console
	OutputFile string `mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format"` // pretty, csv, xlsx
	Path   string `mapstructure:"path"`   // stdout when empty, required for xlsx
}

// DataConfig locates the input snapshot.
type DataConfig struct {
	Snapshot   string `mapstructure:"snapshot"`
	PreferReal bool   `mapstructure:"preferReal"`
}

// EngineConfig holds the calculation settings.
type EngineConfig struct {
	RealScenario   string          `mapstructure:"realScenario"`
	BudgetScenario string          `mapstructure:"budgetScenario"`
	ReferenceMonth string          `mapstructure:"referenceMonth"` // YYYY-MM, empty for the latest sales month
	UF             UFConfig        `mapstructure:"uf"`
	Staffing       StaffingConfig  `mapstructure:"staffing"`
	Breakeven      BreakevenConfig `mapstructure:"breakeven"`
}

// UFConfig sets the currency-index averaging window.
type UFConfig struct {
	WindowStartDay int `mapstructure:"windowStartDay"`
	WindowEndDay   int `mapstructure:"windowEndDay"`
}

// StaffingConfig classifies store roles.
type StaffingConfig struct {
	Roles                     []string `mapstructure:"roles"`
	TotalSalesCommissionRoles []string `mapstructure:"totalSalesCommissionRoles"`
	ExcludedCommissionRoles   []string `mapstructure:"excludedCommissionRoles"`
}

// BreakevenConfig configures the break-even table.
type BreakevenConfig struct {
	MarginStep        float64 `mapstructure:"marginStep"`
	UseDecemberFactor bool    `mapstructure:"useDecemberFactor"`
	FullRange         bool    `mapstructure:"fullRange"`
	Workers           int     `mapstructure:"workers"`
}

// SetDefaults registers the default of every configuration key.
func SetDefaults(v *viper.Viper) {
	defaults := staff.DefaultOptions()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.path", "")
	v.SetDefault("data.snapshot", constants.DefaultSnapshotFile)
	v.SetDefault("data.preferReal", true)
	v.SetDefault("engine.realScenario", constants.RealScenario)
	v.SetDefault("engine.budgetScenario", constants.BudgetScenario)
	v.SetDefault("engine.referenceMonth", "")
	v.SetDefault("engine.uf.windowStartDay", constants.DefaultWindowStartDay)
	v.SetDefault("engine.uf.windowEndDay", constants.DefaultWindowEndDay)
	v.SetDefault("engine.staffing.roles", roleNames(defaults.Roles))
	v.SetDefault("engine.staffing.totalSalesCommissionRoles", roleNames(defaults.TotalSalesRoles))
	v.SetDefault("engine.staffing.excludedCommissionRoles", roleNames(defaults.ExcludedRoles))
	v.SetDefault("engine.breakeven.marginStep", constants.DefaultMarginStep)
	v.SetDefault("engine.breakeven.useDecemberFactor", false)
	v.SetDefault("engine.breakeven.fullRange", true)
	v.SetDefault("engine.breakeven.workers", 0)
}

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with STORE_EERR_
// override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// Default returns the configuration made only of defaults and environment
// overrides.
func Default() (*Configuration, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// LoadEnvFile preloads environment variables from a dotenv file. Variables
// already set in the environment are kept.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Window returns the configured currency-index window.
func (c *Configuration) Window() ufindex.Window {
	return ufindex.Window{StartDay: c.Engine.UF.WindowStartDay, EndDay: c.Engine.UF.WindowEndDay}
}

// StaffOptions returns the configured role classification.
func (c *Configuration) StaffOptions() staff.Options {
	return staff.Options{
		Roles:           toRoles(c.Engine.Staffing.Roles),
		TotalSalesRoles: toRoles(c.Engine.Staffing.TotalSalesCommissionRoles),
		ExcludedRoles:   toRoles(c.Engine.Staffing.ExcludedCommissionRoles),
	}
}

// ReferenceMonth parses the configured reference month. The zero time means
// the latest sales month is used.
func (c *Configuration) ReferenceMonth() (time.Time, error) {
	if c.Engine.ReferenceMonth == "" {
		return time.Time{}, nil
	}
	m, err := datetime.ParseMonth(c.Engine.ReferenceMonth)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference month %q: %w", c.Engine.ReferenceMonth, err)
	}
	return m, nil
}

// StoreBaseOptions returns the options of the store base builder.
func (c *Configuration) StoreBaseOptions() (storebase.Options, error) {
	ref, err := c.ReferenceMonth()
	if err != nil {
		return storebase.Options{}, err
	}
	return storebase.Options{Window: c.Window(), Staffing: c.StaffOptions(), ReferenceMonth: ref}, nil
}

// EERROptions returns the options of the EERR builder.
func (c *Configuration) EERROptions() eerr.Options {
	return eerr.Options{
		RealScenario:   c.Engine.RealScenario,
		BudgetScenario: c.Engine.BudgetScenario,
		Window:         c.Window(),
		Staffing:       c.StaffOptions(),
	}
}

// SolverOptions returns the options of the break-even solver.
func (c *Configuration) SolverOptions() breakeven.Options {
	return breakeven.Options{
		MarginStep:        c.Engine.Breakeven.MarginStep,
		UseDecemberFactor: c.Engine.Breakeven.UseDecemberFactor,
		Workers:           c.Engine.Breakeven.Workers,
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		RealScenario:    c.Engine.RealScenario,
		BudgetScenario:  c.Engine.BudgetScenario,
		ReferenceMonth:  c.Engine.ReferenceMonth,
		WindowStartDay:  c.Engine.UF.WindowStartDay,
		WindowEndDay:    c.Engine.UF.WindowEndDay,
		Roles:           c.Engine.Staffing.Roles,
		TotalSalesRoles: c.Engine.Staffing.TotalSalesCommissionRoles,
		ExcludedRoles:   c.Engine.Staffing.ExcludedCommissionRoles,
		MarginStep:      c.Engine.Breakeven.MarginStep,
	}
	warnings := validator.ValidateAll()

	if c.Output.Format == constants.OutputFormatXLSX && c.Output.Path == "" {
		warnings = append(warnings, "xlsx output without output.path; the workbook will be written to "+constants.DefaultWorkbookFile)
	}
	return warnings
}

func roleNames(roles []model.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func toRoles(names []string) []model.Role {
	out := make([]model.Role, len(names))
	for i, n := range names {
		out[i] = model.Role(n)
	}
	return out
}
