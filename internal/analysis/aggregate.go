package analysis

import (
	"strings"

	"github.com/iwvelando/rentability/internal/property"
	"github.com/iwvelando/rentability/pkg/coerce"
	"github.com/iwvelando/rentability/pkg/mathutil"
)

// ExpenseMode selects how expenses are itemized.
type ExpenseMode int

const (
	// Simple uses the baseline expense fields only.
	Simple ExpenseMode = iota
	// Advanced replaces the combined utilities line with its breakdown and
	// adds the service-contract categories.
	Advanced
)

func (m ExpenseMode) String() string {
	if m == Advanced {
		return "advanced"
	}
	return "simple"
}

// ModeFromFlag maps the boolean "advanced expenses" flag to an ExpenseMode.
func ModeFromFlag(advanced bool) ExpenseMode {
	if advanced {
		return Advanced
	}
	return Simple
}

// ParseExpenseMode accepts "simple"/"advanced" or any boolean-like value.
func ParseExpenseMode(v interface{}) ExpenseMode {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "advanced":
			return Advanced
		case "simple", "":
			return Simple
		}
	}
	return ModeFromFlag(coerce.Bool(v))
}

// Rollup is the aggregated revenue and expense picture for one year.
type Rollup struct {
	GrossRevenue      float64
	VacancyLoss       float64
	EffectiveRevenue  float64
	OperatingExpenses float64
	ManagementFee     float64
	TotalExpenses     float64
}

// ExpenseFields returns the itemized expense fields summed in mode.
func ExpenseFields(mode ExpenseMode) []string {
	if mode != Advanced {
		return append([]string(nil), property.BaselineExpenseFields...)
	}
	fields := make([]string, 0, len(property.BaselineExpenseFields)+len(property.UtilityBreakdownFields)+len(property.ServiceExpenseFields))
	for _, f := range property.BaselineExpenseFields {
		if f == property.ElectricityHeating {
			continue
		}
		fields = append(fields, f)
	}
	fields = append(fields, property.UtilityBreakdownFields...)
	fields = append(fields, property.ServiceExpenseFields...)
	return fields
}

// Aggregate sums revenue and expense line items. Negative amounts pass
// through untouched since they may be credits.
func Aggregate(p property.Property, mode ExpenseMode) Rollup {
	var r Rollup
	r.GrossRevenue = p.Sum(property.RevenueFields...)
	r.VacancyLoss = mathutil.ApplyPercentage(r.GrossRevenue, p.Number(property.VacancyRate))
	r.EffectiveRevenue = r.GrossRevenue - r.VacancyLoss
	r.OperatingExpenses = p.Sum(ExpenseFields(mode)...)
	r.ManagementFee = mathutil.ApplyPercentage(r.EffectiveRevenue, p.Number(property.ManagementRate))
	r.TotalExpenses = r.OperatingExpenses + r.ManagementFee
	return r
}
