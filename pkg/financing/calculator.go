package financing

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/iwvelando/rentability/pkg/loans"
	"github.com/iwvelando/rentability/pkg/mathutil"
	"go.uber.org/zap"
)

// Policy selects which constraint sizes the loan.
type Policy string

const (
	// PolicyMin lends the smaller of the LTV and debt-coverage limits.
	PolicyMin Policy = "min"
	// PolicyLTV lends the LTV limit and ignores debt coverage.
	PolicyLTV Policy = "ltv"
	// PolicyCoverage lends the debt-coverage limit, capped at the price.
	PolicyCoverage Policy = "coverage"
)

// ParsePolicy validates a configured policy name. Empty means PolicyMin.
func ParsePolicy(value string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(value)))
	switch p {
	case "":
		return PolicyMin, nil
	case PolicyMin, PolicyLTV, PolicyCoverage:
		return p, nil
	}
	return "", fmt.Errorf("unsupported financing policy %q, expected one of %s, %s, %s",
		value, PolicyMin, PolicyLTV, PolicyCoverage)
}

// Limits maps a program to its maximum loan-to-value, in percent.
type Limits map[Type]float64

// DefaultLimits returns the default LTV ceilings per program.
func DefaultLimits() Limits {
	return Limits{
		Conventional: constants.DefaultMaxLTVConventional,
		CMHC:         constants.DefaultMaxLTVCMHC,
		CMHCAPH:      constants.DefaultMaxLTVCMHCAPH,
		Private:      constants.DefaultMaxLTVPrivate,
	}
}

// For returns the ceiling for t, falling back to the conventional ceiling.
func (l Limits) For(t Type) float64 {
	if v, ok := l[t]; ok {
		return v
	}
	if v, ok := l[Conventional]; ok {
		return v
	}
	return constants.DefaultMaxLTVConventional
}

// Terms are the inputs needed to size and price a loan. Rates are annual
// percentages; AmortizationYears may be fractional.
type Terms struct {
	Type               Type
	PurchasePrice      float64
	NetOperatingIncome float64
	CoverageRatio      float64
	MortgageRate       float64
	QualificationRate  float64
	AmortizationYears  float64
}

// Result holds the computed financing figures for one property.
type Result struct {
	LoanAmount        float64
	MaxLoanByLTV      float64
	MaxLoanByCoverage float64
	DownPayment       float64
	MonthlyPayment    float64
	DebtService       float64
	LTV               float64
}

// Calculator sizes loans under a configured policy.
type Calculator struct {
	logger *zap.Logger
	policy Policy
	limits Limits
}

// NewCalculator creates a calculator. Missing limits use DefaultLimits and
// an empty policy means PolicyMin.
func NewCalculator(logger *zap.Logger, policy Policy, limits Limits) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == "" {
		policy = PolicyMin
	}
	merged := DefaultLimits()
	for k, v := range limits {
		merged[k] = v
	}
	return &Calculator{logger: logger, policy: policy, limits: merged}
}

// Policy returns the policy the calculator applies.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Compute sizes the loan and derives payment, debt service, down payment and
// LTV. A zero price yields an all-zero result.
func (c *Calculator) Compute(t Terms) Result {
	price := t.PurchasePrice
	if price <= 0 {
		return Result{}
	}

	termMonths := int(math.Round(t.AmortizationYears * constants.MonthsPerYear))
	if termMonths <= 0 {
		c.logger.Debug("no amortization period, property is financed in cash",
			zap.String("op", "financing.Compute"),
		)
		return Result{DownPayment: price}
	}

	var res Result
	res.MaxLoanByLTV = mathutil.ApplyPercentage(price, c.limits.For(t.Type))
	res.MaxLoanByCoverage = c.maxLoanByCoverage(t, price, termMonths)

	switch c.policy {
	case PolicyLTV:
		res.LoanAmount = res.MaxLoanByLTV
	case PolicyCoverage:
		res.LoanAmount = res.MaxLoanByCoverage
	default:
		res.LoanAmount = mathutil.Min(res.MaxLoanByLTV, res.MaxLoanByCoverage)
	}
	res.LoanAmount = mathutil.Clamp(res.LoanAmount, 0, price)

	res.MonthlyPayment = loans.CalculateMonthlyPayment(res.LoanAmount, 0, t.MortgageRate, termMonths)
	res.DebtService = res.MonthlyPayment * constants.MonthsPerYear
	res.DownPayment = price - res.LoanAmount
	res.LTV = mathutil.CalculatePercentage(res.LoanAmount, price)

	c.logger.Debug("loan sized",
		zap.String("op", "financing.Compute"),
		zap.String("policy", string(c.policy)),
		zap.Float64("maxByLtv", res.MaxLoanByLTV),
		zap.Float64("maxByCoverage", res.MaxLoanByCoverage),
		zap.Float64("loan", res.LoanAmount),
	)
	return res
}

// maxLoanByCoverage is the principal whose payment, at the qualification
// rate, keeps NOI / debt service at the coverage ratio. A non-positive ratio
// disables the constraint.
func (c *Calculator) maxLoanByCoverage(t Terms, price float64, termMonths int) float64 {
	if t.CoverageRatio <= 0 {
		return price
	}
	if t.NetOperatingIncome <= 0 {
		return 0
	}

	rate := t.QualificationRate
	if rate <= 0 {
		rate = t.MortgageRate
	}
	maxAnnualDebtService := t.NetOperatingIncome / t.CoverageRatio
	return loans.MaxPrincipal(maxAnnualDebtService/constants.MonthsPerYear, rate, termMonths)
}
