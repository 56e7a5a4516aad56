// Package constants provides shared constants for the store-eerr application.
package constants

// DateTimeLayout is the month format used in snapshots, configuration and
// output.
const DateTimeLayout = "2006-01"

// DayLayout is the format of daily currency-index dates.
const DayLayout = "2006-01-02"

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecemberMonth is the month whose rent carries the December multiplier
	DecemberMonth = 12
)

// Scenario labels
const (
	// RealScenario labels actuals
	RealScenario = "Real"

	// BudgetScenario labels planned figures
	BudgetScenario = "Presupuesto"
)

// Currency index window defaults. The average for month M runs from
// WindowStartDay of the previous month through WindowEndDay of M.
const (
	DefaultWindowStartDay = 15
	DefaultWindowEndDay   = 13
)

// Rate constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PerHundredMillion normalizes commission rates entered per 100,000,000
	PerHundredMillion = 100_000_000.0

	// RegimeTolerance is the relative slack used when checking that a
	// break-even solution sits on the correct side of the rent threshold.
	RegimeTolerance = 1e-9
)

// Break-even grid defaults
const (
	// DefaultMarginStep is the full-range grid step in percentage points
	DefaultMarginStep = 0.1

	// HistoryGridResolution is the number of steps per unit margin in the
	// history-derived grid (0.1 pp).
	HistoryGridResolution = 1000

	// HistoryMarginPadding widens the observed margin range on both sides
	HistoryMarginPadding = 0.10

	// DefaultHistoryMarginMin and DefaultHistoryMarginMax bound the grid
	// when a store has no contribution history.
	DefaultHistoryMarginMin = 0.05
	DefaultHistoryMarginMax = 0.80
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX writes a spreadsheet workbook
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultSnapshotFile is the default input snapshot file name
	DefaultSnapshotFile = "snapshot.yaml"

	// DefaultWorkbookFile is written when xlsx output has no path
	DefaultWorkbookFile = "store-eerr.xlsx"

	// EnvPrefix prefixes environment overrides of configuration keys
	EnvPrefix = "STORE_EERR"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 peso)
	CurrencyTolerance = 1.0
)
