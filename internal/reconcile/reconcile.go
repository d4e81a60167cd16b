// Package reconcile keeps auto-derived property fields in sync with the
// fields they are derived from.
//
// The reconciler runs on every change to the property, including the
// changes it writes itself. A patch is only produced when a derived value
// differs from the stored one, which is what lets the write-back settle
// after a single round.
package reconcile

import (
	"github.com/iwvelando/rentability/internal/property"
	"github.com/iwvelando/rentability/pkg/coerce"
	"github.com/iwvelando/rentability/pkg/financing"
	"github.com/iwvelando/rentability/pkg/mathutil"
	"github.com/iwvelando/rentability/pkg/welcometax"
)

// LockedFields selects which derived fields are owned by the reconciler.
// A locked field is recomputed from its drivers; an unlocked one is left to
// the user.
type LockedFields struct {
	DebtCoverage bool `json:"debtCoverage" yaml:"debtCoverage" mapstructure:"debtCoverage"`
	WelcomeTax   bool `json:"welcomeTax" yaml:"welcomeTax" mapstructure:"welcomeTax"`
}

// DefaultLockedFields locks every derived field.
func DefaultLockedFields() LockedFields {
	return LockedFields{DebtCoverage: true, WelcomeTax: true}
}

// StateContainer is the single mutation point for the property being edited.
type StateContainer interface {
	CurrentValue() property.Property
	ApplyPatch(property.Patch)
}

// Reconcile returns the patch that brings the derived fields of p in line
// with their drivers, or nil when every derived field already holds its
// value. The CMHC fields are maintained regardless of locks: the analysis
// fee is set for CMHC programs and both CMHC fields are emptied otherwise.
func Reconcile(p property.Property, locked LockedFields) property.Patch {
	desired := make(map[string]interface{}, 4)

	if locked.WelcomeTax {
		if price := p.PurchasePrice(); price > 0 {
			desired[property.WelcomeTax] = mathutil.RoundWholeInt(welcometax.Compute(price))
		}
	}

	program, _ := financing.ParseType(p.Text(property.FinancingType))
	units := p.Units()
	if locked.DebtCoverage {
		desired[property.DebtCoverageRatio] = financing.DefaultCoverageRatio(program, units)
	}

	if fee, ok := financing.AnalysisFee(program, units); ok {
		desired[property.CMHCAnalysis] = fee
	} else {
		desired[property.CMHCAnalysis] = ""
		desired[property.CMHCTax] = ""
	}

	var patch property.Patch
	for field, value := range desired {
		if coerce.Normalize(p[field]) == coerce.Normalize(value) {
			continue
		}
		if patch == nil {
			patch = property.Patch{}
		}
		patch[field] = value
	}
	return patch
}

// Apply reconciles the current value of state and pushes the patch through
// ApplyPatch. It reports whether a patch was applied.
func Apply(state StateContainer, locked LockedFields) bool {
	patch := Reconcile(state.CurrentValue(), locked)
	if patch.Empty() {
		return false
	}
	state.ApplyPatch(patch)
	return true
}
