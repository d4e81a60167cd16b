package validation

import (
	"strings"
	"testing"
)

func TestValidatePercentage(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		expectWarn bool
	}{
		{name: "Zero", value: 0, expectWarn: false},
		{name: "Typical", value: 5, expectWarn: false},
		{name: "Upper bound", value: 100, expectWarn: false},
		{name: "Negative", value: -1, expectWarn: true},
		{name: "Above 100", value: 100.01, expectWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidatePercentage("vacancy rate", tt.value)
			if tt.expectWarn && warning == "" {
				t.Errorf("ValidatePercentage(%v) expected warning but got none", tt.value)
			}
			if !tt.expectWarn && warning != "" {
				t.Errorf("ValidatePercentage(%v) unexpected warning = %s", tt.value, warning)
			}
		})
	}
}

func TestValidateProjection(t *testing.T) {
	tests := []struct {
		name      string
		horizon   int
		startYear int
		expected  int
	}{
		{name: "Defaults", horizon: 10, startYear: 1, expected: 0},
		{name: "Base year", horizon: 5, startYear: 0, expected: 0},
		{name: "Empty horizon", horizon: 0, startYear: 1, expected: 1},
		{name: "Both invalid", horizon: -1, startYear: -1, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateProjection(tt.horizon, tt.startYear); len(got) != tt.expected {
				t.Errorf("ValidateProjection(%d, %d) = %v, expected %d warnings", tt.horizon, tt.startYear, got, tt.expected)
			}
		})
	}
}

func TestValidateMaxLTV(t *testing.T) {
	if w := ValidateMaxLTV("cmhc", 95); w != "" {
		t.Errorf("ValidateMaxLTV(95) unexpected warning = %s", w)
	}
	if w := ValidateMaxLTV("cmhc", 0); w == "" {
		t.Error("ValidateMaxLTV(0) expected warning but got none")
	}
	if w := ValidateMaxLTV("private", 120); !strings.Contains(w, "private") {
		t.Errorf("ValidateMaxLTV(120) warning should name the program, got %q", w)
	}
}

func TestPropertyConfigValidateAll(t *testing.T) {
	valid := PropertyConfig{
		PurchasePrice:      450000,
		HasPurchasePrice:   true,
		Units:              4,
		VacancyRate:        3,
		ManagementRate:     5,
		MortgageRate:       5.5,
		AmortizationYears:  25,
		FinancingType:      "conventional",
		KnownFinancingType: true,
		DebtCoverageRatio:  1.15,
		HasCoverageRatio:   true,
	}

	if warnings := valid.ValidateAll(); len(warnings) != 0 {
		t.Errorf("ValidateAll() on a valid property = %v, expected none", warnings)
	}

	tests := []struct {
		name     string
		mutate   func(*PropertyConfig)
		contains string
	}{
		{"missing price", func(pc *PropertyConfig) { pc.HasPurchasePrice = false }, "purchase price"},
		{"no units", func(pc *PropertyConfig) { pc.Units = 0 }, "number of units"},
		{"vacancy", func(pc *PropertyConfig) { pc.VacancyRate = 150 }, "vacancy rate"},
		{"management", func(pc *PropertyConfig) { pc.ManagementRate = -2 }, "management rate"},
		{"negative rate", func(pc *PropertyConfig) { pc.MortgageRate = -1 }, "mortgage rate"},
		{"cash purchase", func(pc *PropertyConfig) { pc.AmortizationYears = 0 }, "cash purchase"},
		{"unknown type", func(pc *PropertyConfig) { pc.FinancingType = "seller"; pc.KnownFinancingType = false }, "'seller'"},
		{"zero coverage", func(pc *PropertyConfig) { pc.DebtCoverageRatio = 0 }, "coverage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := valid
			tt.mutate(&pc)
			warnings := pc.ValidateAll()
			if len(warnings) != 1 {
				t.Fatalf("ValidateAll() = %v, expected exactly one warning", warnings)
			}
			if !strings.Contains(warnings[0], tt.contains) {
				t.Errorf("warning %q does not mention %q", warnings[0], tt.contains)
			}
		})
	}
}
