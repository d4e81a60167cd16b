package analysis

import (
	"github.com/iwvelando/rentability/pkg/mathutil"
)

// Profitability holds the return ratios derived from a rollup and financing.
type Profitability struct {
	NetOperatingIncome float64
	CapRate            float64
	CashFlow           float64
	CashOnCash         float64
}

// NetOperatingIncome is effective revenue less operating expenses, before debt service.
func NetOperatingIncome(r Rollup) float64 {
	return r.EffectiveRevenue - r.TotalExpenses
}

// ComputeProfitability derives NOI, cap rate, cash flow and cash-on-cash
// return. Ratios with a zero denominator are 0.
func ComputeProfitability(r Rollup, purchasePrice, debtService, downPayment float64) Profitability {
	noi := NetOperatingIncome(r)
	cashFlow := noi - debtService
	return Profitability{
		NetOperatingIncome: noi,
		CapRate:            mathutil.CalculatePercentage(noi, purchasePrice),
		CashFlow:           cashFlow,
		CashOnCash:         mathutil.CalculatePercentage(cashFlow, downPayment),
	}
}
