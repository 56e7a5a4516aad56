package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
)

// ValidateInputs reports suspicious but computable data in a snapshot.
// Structural problems are errors raised by model.Inputs.Validate instead.
func ValidateInputs(in *model.Inputs) []string {
	var warnings []string

	known := make(map[string]bool, len(in.Stores))
	for _, s := range in.Stores {
		known[s.Name] = true
	}
	reported := make(map[string]bool)
	for _, f := range in.Sales {
		if !known[f.Store] && !reported[f.Store] {
			reported[f.Store] = true
			warnings = append(warnings, fmt.Sprintf("Store '%s' has sales but is not in the store dictionary; it will have no banner", f.Store))
		}
	}

	for _, r := range in.Rent {
		if r.PercentageRate < 0 || r.PromotionPct < 0 {
			warnings = append(warnings, fmt.Sprintf("Store '%s' has a negative rent rate", r.Store))
		}
		if r.PercentageRate > 1 {
			warnings = append(warnings, fmt.Sprintf("Store '%s' rent rate %v read as %v%%", r.Store, r.PercentageRate, r.PercentageRate))
		}
	}

	for _, f := range in.Contribution {
		if !math.IsNaN(f.Value) && (f.Value < -1 || f.Value > 1) {
			warnings = append(warnings, fmt.Sprintf("Store '%s' contribution margin %v for %s is not a fraction",
				f.Store, f.Value, f.Month.Format(constants.DateTimeLayout)))
		}
	}

	return warnings
}
