package validation

import (
	"fmt"
	"time"

	"github.com/iwvelando/store-eerr/pkg/constants"
)

// ValidateRoleSet warns about roles of a classification set that are not in
// the role catalog; their headcount would never be counted.
func ValidateRoleSet(setName string, set, catalog []string) []string {
	known := make(map[string]bool, len(catalog))
	for _, r := range catalog {
		known[r] = true
	}
	var warnings []string
	for _, r := range set {
		if !known[r] {
			warnings = append(warnings, fmt.Sprintf("Role '%s' in %s is not in the role catalog", r, setName))
		}
	}
	return warnings
}

// ValidateWindowDay checks that a currency window day exists in every month.
func ValidateWindowDay(name string, day int) string {
	if day < 1 || day > 28 {
		return fmt.Sprintf("%s %d is outside 1-28 and shifts into the next month in short months", name, day)
	}
	return ""
}

// ConfigValidator gathers the engine settings checked before a run.
type ConfigValidator struct {
	RealScenario    string
	BudgetScenario  string
	ReferenceMonth  string
	WindowStartDay  int
	WindowEndDay    int
	Roles           []string
	TotalSalesRoles []string
	ExcludedRoles   []string
	MarginStep      float64
}

// ValidateAll validates the engine configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.RealScenario == cv.BudgetScenario {
		warnings = append(warnings, fmt.Sprintf("Real and budget scenarios share the label '%s'; every row will be flagged as budget", cv.RealScenario))
	}

	if cv.ReferenceMonth != "" {
		if _, err := time.Parse(constants.DateTimeLayout, cv.ReferenceMonth); err != nil {
			warnings = append(warnings, fmt.Sprintf("Reference month '%s' is not in %s format and will be ignored", cv.ReferenceMonth, constants.DateTimeLayout))
		}
	}

	for _, w := range []string{
		ValidateWindowDay("Window start day", cv.WindowStartDay),
		ValidateWindowDay("Window end day", cv.WindowEndDay),
	} {
		if w != "" {
			warnings = append(warnings, w)
		}
	}

	warnings = append(warnings, ValidateRoleSet("totalSalesCommissionRoles", cv.TotalSalesRoles, cv.Roles)...)
	warnings = append(warnings, ValidateRoleSet("excludedCommissionRoles", cv.ExcludedRoles, cv.Roles)...)

	inTotal := make(map[string]bool, len(cv.TotalSalesRoles))
	for _, r := range cv.TotalSalesRoles {
		inTotal[r] = true
	}
	for _, r := range cv.ExcludedRoles {
		if inTotal[r] {
			warnings = append(warnings, fmt.Sprintf("Role '%s' is both a total-sales and an excluded role; total-sales wins", r))
		}
	}

	if cv.MarginStep <= 0 || cv.MarginStep > constants.PercentageMultiplier {
		warnings = append(warnings, fmt.Sprintf("Margin step %v is outside (0, 100]; the default %v will be used", cv.MarginStep, constants.DefaultMarginStep))
	}

	return warnings
}
