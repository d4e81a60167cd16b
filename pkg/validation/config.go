package validation

import (
	"fmt"
)

// ValidatePercentage warns when a percentage falls outside [0, 100].
func ValidatePercentage(name string, value float64) string {
	if value < 0 || value > 100 {
		return fmt.Sprintf("%s of %.2f%% is outside 0-100%%", name, value)
	}
	return ""
}

// ValidateProjection checks the projection window.
func ValidateProjection(horizon, startYear int) []string {
	var warnings []string
	if horizon <= 0 {
		warnings = append(warnings, fmt.Sprintf("projection horizon of %d years produces no projected years", horizon))
	}
	if startYear < 0 {
		warnings = append(warnings, fmt.Sprintf("projection start year %d is negative and will be treated as 0", startYear))
	}
	return warnings
}

// ValidateMaxLTV checks a configured loan-to-value ceiling.
func ValidateMaxLTV(program string, ltv float64) string {
	if ltv <= 0 || ltv > 100 {
		return fmt.Sprintf("maximum LTV for %s of %.2f%% is outside (0, 100]", program, ltv)
	}
	return ""
}

// PropertyConfig holds the property fields that are checked for plausibility.
// The engine never rejects a property; these checks only produce warnings.
type PropertyConfig struct {
	PurchasePrice      float64
	HasPurchasePrice   bool
	Units              float64
	VacancyRate        float64
	ManagementRate     float64
	MortgageRate       float64
	AmortizationYears  float64
	FinancingType      string
	KnownFinancingType bool
	DebtCoverageRatio  float64
	HasCoverageRatio   bool
}

// ValidateAll validates the property and returns warnings
func (pc PropertyConfig) ValidateAll() []string {
	var warnings []string

	if !pc.HasPurchasePrice || pc.PurchasePrice <= 0 {
		warnings = append(warnings, "purchase price is missing or not positive - financing and ratios will be 0")
	}
	if pc.Units < 1 {
		warnings = append(warnings, "number of units is missing or below 1 - 1 unit is assumed")
	}
	if w := ValidatePercentage("vacancy rate", pc.VacancyRate); w != "" {
		warnings = append(warnings, w)
	}
	if w := ValidatePercentage("management rate", pc.ManagementRate); w != "" {
		warnings = append(warnings, w)
	}
	if pc.MortgageRate < 0 {
		warnings = append(warnings, fmt.Sprintf("mortgage rate of %.2f%% is negative", pc.MortgageRate))
	}
	if pc.AmortizationYears <= 0 {
		warnings = append(warnings, "amortization is missing - the property is analyzed as a cash purchase")
	}
	if pc.FinancingType != "" && !pc.KnownFinancingType {
		warnings = append(warnings, fmt.Sprintf("financing type '%s' is not supported - conventional is assumed", pc.FinancingType))
	}
	if pc.HasCoverageRatio && pc.DebtCoverageRatio <= 0 {
		warnings = append(warnings, "debt coverage ratio is not positive - the coverage limit is ignored")
	}

	return warnings
}
