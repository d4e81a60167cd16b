// Package property defines the loosely typed property record the engine reads
// and the patches it proposes back to the record's owner.
package property

import (
	"sort"

	"github.com/iwvelando/rentability/pkg/coerce"
)

// Property is a property record keyed by field name. Values may be numbers,
// numeric strings or text; accessors coerce them as needed.
type Property map[string]interface{}

// Patch is a partial update to a Property. A nil value clears the field.
type Patch map[string]interface{}

// Number returns the named field coerced to a float64 (0 when missing or non-numeric).
func (p Property) Number(field string) float64 {
	return coerce.Float(p[field])
}

// NumberOr returns the named field as a float64, or fallback when it is missing or non-numeric.
func (p Property) NumberOr(field string, fallback float64) float64 {
	return coerce.FloatOr(p[field], fallback)
}

// Has reports whether the named field holds a numeric value.
func (p Property) Has(field string) bool {
	return coerce.IsNumeric(p[field])
}

// Text returns the named field as a trimmed string.
func (p Property) Text(field string) string {
	return coerce.String(p[field])
}

// Sum adds the named numeric fields.
func (p Property) Sum(fields ...string) float64 {
	total := 0.0
	for _, f := range fields {
		total += p.Number(f)
	}
	return total
}

// PurchasePrice returns the purchase price. Negative prices are treated as 0.
func (p Property) PurchasePrice() float64 {
	price := p.Number(PurchasePrice)
	if price < 0 {
		return 0
	}
	return price
}

// Units returns the number of units, defaulting to 1 when absent or below 1.
func (p Property) Units() int {
	units := int(p.Number(NumberOfUnits))
	if units < 1 {
		return 1
	}
	return units
}

// Clone returns a shallow copy of the record; values are immutable scalars.
func (p Property) Clone() Property {
	out := make(Property, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Apply returns a copy of p with patch applied. Fields patched to nil are removed.
func (p Property) Apply(patch Patch) Property {
	out := p.Clone()
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the field names in sorted order.
func (p Property) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether the patch carries no updates.
func (p Patch) Empty() bool {
	return len(p) == 0
}
