// Package financing classifies mortgage programs and sizes the loan a
// property can carry.
package financing

import (
	"strings"

	"github.com/iwvelando/rentability/pkg/constants"
)

// Type identifies a financing program.
type Type string

// Supported financing programs.
const (
	Conventional Type = "conventional"
	CMHC         Type = "cmhc"
	CMHCAPH      Type = "cmhc_aph"
	Private      Type = "private"
)

// Default minimum debt-coverage ratios.
const (
	ConventionalCoverageRatio = 1.15
	CMHCSmallCoverageRatio    = 1.1
	CMHCLargeCoverageRatio    = 1.3
	CMHCAPHCoverageRatio      = 1.1
)

// Types lists the supported financing programs.
var Types = []Type{Conventional, CMHC, CMHCAPH, Private}

// ParseType normalizes a stored financing type. The second return value is
// false when the input is not a supported program, in which case the
// conventional program is returned.
func ParseType(value string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(value)))
	switch t {
	case Conventional, CMHC, CMHCAPH, Private:
		return t, true
	}
	return Conventional, false
}

// IsCMHC reports whether the program is CMHC insured.
func (t Type) IsCMHC() bool {
	return t == CMHC || t == CMHCAPH
}

// DefaultCoverageRatio returns the minimum debt-coverage ratio lenders apply
// for the program and building size. Unsupported programs fall back to the
// conventional ratio.
func DefaultCoverageRatio(t Type, units int) float64 {
	switch t {
	case CMHC:
		if units >= constants.CMHCLargeBuildingUnits {
			return CMHCLargeCoverageRatio
		}
		return CMHCSmallCoverageRatio
	case CMHCAPH:
		return CMHCAPHCoverageRatio
	default:
		return ConventionalCoverageRatio
	}
}

// AnalysisFee returns the CMHC analysis fee for the program. The boolean is
// false when no fee applies and the CMHC fields should be cleared.
func AnalysisFee(t Type, units int) (float64, bool) {
	if !t.IsCMHC() || units <= 0 {
		return 0, false
	}
	return float64(units) * constants.CMHCAnalysisFeePerUnit, true
}
