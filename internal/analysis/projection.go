package analysis

import (
	"github.com/iwvelando/rentability/pkg/mathutil"
)

// Assumptions configure the multi-year projection. Rates are yearly percentages.
type Assumptions struct {
	Horizon             int
	StartYear           int
	AppreciationRate    float64
	RentIncreaseRate    float64
	ExpenseIncreaseRate float64
}

// YearlyProjection is one snapshot of the projection.
type YearlyProjection struct {
	Year           int     `json:"year" yaml:"year"`
	FutureValue    float64 `json:"futureValue" yaml:"futureValue"`
	FutureCashFlow float64 `json:"futureCashFlow" yaml:"futureCashFlow"`
	TotalGain      float64 `json:"totalGain" yaml:"totalGain"`
	LoanBalance    float64 `json:"loanBalance" yaml:"loanBalance"`
	Equity         float64 `json:"equity" yaml:"equity"`
}

// ProjectionBase is the year-zero state the projection compounds from.
type ProjectionBase struct {
	PurchasePrice  float64
	Rollup         Rollup
	ManagementRate float64
	DebtService    float64
	LoanAmount     float64
	// LoanBalances[i] is the balance at the end of loan year i+1.
	LoanBalances []float64
}

// Project produces Horizon yearly snapshots starting at StartYear. Year k
// compounds the base k times: property value at the appreciation rate,
// effective revenue at the rent rate and operating expenses at the expense
// rate, with the management fee re-derived from the compounded revenue. Debt
// service stays fixed. TotalGain adds appreciation to the cash flow
// accumulated over the projected years up to k.
func Project(base ProjectionBase, a Assumptions) []YearlyProjection {
	if a.Horizon <= 0 {
		return []YearlyProjection{}
	}
	start := a.StartYear
	if start < 0 {
		start = 0
	}

	out := make([]YearlyProjection, 0, a.Horizon)
	cumulativeCashFlow := 0.0
	for k := start; k < start+a.Horizon; k++ {
		value := mathutil.Compound(base.PurchasePrice, a.AppreciationRate, k)
		revenue := mathutil.Compound(base.Rollup.EffectiveRevenue, a.RentIncreaseRate, k)
		operating := mathutil.Compound(base.Rollup.OperatingExpenses, a.ExpenseIncreaseRate, k)
		management := mathutil.ApplyPercentage(revenue, base.ManagementRate)

		cashFlow := revenue - operating - management - base.DebtService
		cumulativeCashFlow += cashFlow
		balance := base.balanceAt(k)

		out = append(out, YearlyProjection{
			Year:           k,
			FutureValue:    value,
			FutureCashFlow: cashFlow,
			TotalGain:      (value - base.PurchasePrice) + cumulativeCashFlow,
			LoanBalance:    balance,
			Equity:         value - balance,
		})
	}
	return out
}

func (b ProjectionBase) balanceAt(year int) float64 {
	if year <= 0 {
		return b.LoanAmount
	}
	if year-1 < len(b.LoanBalances) {
		return b.LoanBalances[year-1]
	}
	return 0
}
