// Package welcometax computes the progressive land-transfer ("welcome") tax
// charged when a property is acquired.
//
// The tax is marginal: each bracket's rate applies only to the part of the
// price that falls inside that bracket. Amounts are summed with decimal
// arithmetic and returned unrounded; rounding is the caller's concern.
package welcometax

import (
	"github.com/shopspring/decimal"
)

// Bracket is one marginal bracket of the schedule. Limit is the inclusive
// upper bound of the bracket; the last bracket is Unbounded.
type Bracket struct {
	Limit     float64
	Rate      float64
	Unbounded bool
}

// BracketTax is the tax attributed to a single bracket for a given price.
type BracketTax struct {
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Rate    float64 `json:"rate"`
	Taxable float64 `json:"taxable"`
	Tax     float64 `json:"tax"`
	Open    bool    `json:"open"`
}

type bracket struct {
	limit     decimal.Decimal
	rate      decimal.Decimal
	unbounded bool
}

var schedule = []bracket{
	{limit: decimal.RequireFromString("50999.99"), rate: decimal.RequireFromString("0.005")},
	{limit: decimal.RequireFromString("254999.99"), rate: decimal.RequireFromString("0.01")},
	{limit: decimal.RequireFromString("499999.99"), rate: decimal.RequireFromString("0.015")},
	{limit: decimal.RequireFromString("999999.99"), rate: decimal.RequireFromString("0.02")},
	{rate: decimal.RequireFromString("0.025"), unbounded: true},
}

// Brackets returns a copy of the tax schedule in increasing order.
func Brackets() []Bracket {
	out := make([]Bracket, 0, len(schedule))
	for _, b := range schedule {
		out = append(out, Bracket{
			Limit:     b.limit.InexactFloat64(),
			Rate:      b.rate.InexactFloat64(),
			Unbounded: b.unbounded,
		})
	}
	return out
}

// Compute returns the welcome tax owed on purchasePrice. Prices at or below
// zero owe nothing.
func Compute(purchasePrice float64) float64 {
	total := decimal.Zero
	for _, part := range walk(purchasePrice) {
		total = total.Add(part.tax)
	}
	return total.InexactFloat64()
}

// Breakdown returns the per-bracket taxable amount and tax for purchasePrice.
// Brackets the price does not reach are omitted.
func Breakdown(purchasePrice float64) []BracketTax {
	parts := walk(purchasePrice)
	out := make([]BracketTax, 0, len(parts))
	for _, part := range parts {
		out = append(out, BracketTax{
			Lower:   part.lower.InexactFloat64(),
			Upper:   part.upper.InexactFloat64(),
			Rate:    part.rate.InexactFloat64(),
			Taxable: part.taxable.InexactFloat64(),
			Tax:     part.tax.InexactFloat64(),
			Open:    part.open,
		})
	}
	return out
}

type portion struct {
	lower   decimal.Decimal
	upper   decimal.Decimal
	rate    decimal.Decimal
	taxable decimal.Decimal
	tax     decimal.Decimal
	open    bool
}

func walk(purchasePrice float64) []portion {
	if purchasePrice <= 0 {
		return nil
	}

	remaining := decimal.NewFromFloat(purchasePrice)
	previousLimit := decimal.Zero
	var parts []portion

	for _, b := range schedule {
		taxable := remaining
		if !b.unbounded {
			taxable = decimal.Min(b.limit.Sub(previousLimit), remaining)
		}
		parts = append(parts, portion{
			lower:   previousLimit,
			upper:   b.limit,
			rate:    b.rate,
			taxable: taxable,
			tax:     taxable.Mul(b.rate),
			open:    b.unbounded,
		})
		remaining = remaining.Sub(taxable)
		if b.unbounded || !remaining.IsPositive() {
			break
		}
		previousLimit = b.limit
	}
	return parts
}
