// Package analysis turns a property record into its rentability analysis:
// revenue and expense rollups, financing terms, profitability ratios and a
// multi-year projection.
package analysis

import (
	"math"

	"github.com/iwvelando/rentability/internal/property"
	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/iwvelando/rentability/pkg/financing"
	"github.com/iwvelando/rentability/pkg/loans"
	"go.uber.org/zap"
)

// Result is the analysis published for a property. JSON and YAML keys are
// merged into stored property records, so they must not be renamed.
type Result struct {
	TotalGrossRevenue     float64            `json:"totalGrossRevenue" yaml:"totalGrossRevenue"`
	VacancyLoss           float64            `json:"vacancyLoss" yaml:"vacancyLoss"`
	EffectiveGrossRevenue float64            `json:"effectiveGrossRevenue" yaml:"effectiveGrossRevenue"`
	ManagementFee         float64            `json:"managementFee" yaml:"managementFee"`
	TotalExpenses         float64            `json:"totalExpenses" yaml:"totalExpenses"`
	NetOperatingIncome    float64            `json:"netOperatingIncome" yaml:"netOperatingIncome"`
	CapRate               float64            `json:"capRate" yaml:"capRate"`
	LoanAmount            float64            `json:"loanAmount" yaml:"loanAmount"`
	MaxLoanByLTV          float64            `json:"maxLoanByLtv" yaml:"maxLoanByLtv"`
	MaxLoanByCoverage     float64            `json:"maxLoanByCoverage" yaml:"maxLoanByCoverage"`
	MonthlyPayment        float64            `json:"monthlyPayment" yaml:"monthlyPayment"`
	DebtService           float64            `json:"debtService" yaml:"debtService"`
	DownPayment           float64            `json:"downPayment" yaml:"downPayment"`
	LTV                   float64            `json:"ltv" yaml:"ltv"`
	CashFlow              float64            `json:"cashFlow" yaml:"cashFlow"`
	CashOnCash            float64            `json:"cashOnCash" yaml:"cashOnCash"`
	TotalInvestment       float64            `json:"totalInvestment" yaml:"totalInvestment"`
	FutureReturns         []YearlyProjection `json:"futureReturns" yaml:"futureReturns"`
}

// ResultFields lists the top-level keys of Result in declaration order.
var ResultFields = []string{
	"totalGrossRevenue",
	"vacancyLoss",
	"effectiveGrossRevenue",
	"managementFee",
	"totalExpenses",
	"netOperatingIncome",
	"capRate",
	"loanAmount",
	"maxLoanByLtv",
	"maxLoanByCoverage",
	"monthlyPayment",
	"debtService",
	"downPayment",
	"ltv",
	"cashFlow",
	"cashOnCash",
	"totalInvestment",
	"futureReturns",
}

// Options configure an Engine. An empty policy or missing limits fall back
// to the financing defaults.
type Options struct {
	Projection Assumptions
	Policy     financing.Policy
	Limits     financing.Limits
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Projection: Assumptions{
			Horizon:             constants.DefaultProjectionHorizon,
			StartYear:           constants.DefaultProjectionStartYear,
			AppreciationRate:    constants.DefaultAppreciationRate,
			RentIncreaseRate:    constants.DefaultRentIncreaseRate,
			ExpenseIncreaseRate: constants.DefaultExpenseIncreaseRate,
		},
		Policy: financing.PolicyMin,
		Limits: financing.DefaultLimits(),
	}
}

// Engine computes analyses. It holds only immutable configuration, so one
// Engine may be shared by any number of goroutines.
type Engine struct {
	logger     *zap.Logger
	projection Assumptions
	calculator *financing.Calculator
	schedules  *loans.AmortizationScheduleGenerator
}

// NewEngine creates an engine with the given options.
func NewEngine(logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:     logger,
		projection: opts.Projection,
		calculator: financing.NewCalculator(logger, opts.Policy, opts.Limits),
		schedules:  loans.NewAmortizationScheduleGenerator(logger),
	}
}

// ComputeAnalysis runs the pipeline with DefaultOptions.
func ComputeAnalysis(p property.Property, mode ExpenseMode) Result {
	return NewEngine(nil, DefaultOptions()).Compute(p, mode)
}

// Assumptions returns the projection assumptions for p: per-property rate
// overrides win over the engine defaults.
func (e *Engine) Assumptions(p property.Property) Assumptions {
	a := e.projection
	a.AppreciationRate = p.NumberOr(property.AppreciationRate, a.AppreciationRate)
	a.RentIncreaseRate = p.NumberOr(property.RentIncreaseRate, a.RentIncreaseRate)
	a.ExpenseIncreaseRate = p.NumberOr(property.ExpenseIncreaseRate, a.ExpenseIncreaseRate)
	return a
}

// Compute runs the full pipeline for p. The result depends only on p, mode
// and the engine options.
func (e *Engine) Compute(p property.Property, mode ExpenseMode) Result {
	price := p.PurchasePrice()
	rollup := Aggregate(p, mode)
	noi := NetOperatingIncome(rollup)

	program, known := financing.ParseType(p.Text(property.FinancingType))
	if !known && p.Text(property.FinancingType) != "" {
		e.logger.Debug("unsupported financing type, using conventional",
			zap.String("op", "analysis.Compute"),
			zap.String("financingType", p.Text(property.FinancingType)),
		)
	}

	amortizationYears := p.Number(property.Amortization)
	fin := e.calculator.Compute(financing.Terms{
		Type:               program,
		PurchasePrice:      price,
		NetOperatingIncome: noi,
		CoverageRatio:      p.Number(property.DebtCoverageRatio),
		MortgageRate:       p.Number(property.MortgageRate),
		QualificationRate:  p.Number(property.QualificationRate),
		AmortizationYears:  amortizationYears,
	})
	profit := ComputeProfitability(rollup, price, fin.DebtService, fin.DownPayment)

	assumptions := e.Assumptions(p)
	base := ProjectionBase{
		PurchasePrice:  price,
		Rollup:         rollup,
		ManagementRate: p.Number(property.ManagementRate),
		DebtService:    fin.DebtService,
		LoanAmount:     fin.LoanAmount,
		LoanBalances:   e.loanBalances(fin.LoanAmount, p.Number(property.MortgageRate), amortizationYears, assumptions),
	}

	result := Result{
		TotalGrossRevenue:     rollup.GrossRevenue,
		VacancyLoss:           rollup.VacancyLoss,
		EffectiveGrossRevenue: rollup.EffectiveRevenue,
		ManagementFee:         rollup.ManagementFee,
		TotalExpenses:         rollup.TotalExpenses,
		NetOperatingIncome:    profit.NetOperatingIncome,
		CapRate:               profit.CapRate,
		LoanAmount:            fin.LoanAmount,
		MaxLoanByLTV:          fin.MaxLoanByLTV,
		MaxLoanByCoverage:     fin.MaxLoanByCoverage,
		MonthlyPayment:        fin.MonthlyPayment,
		DebtService:           fin.DebtService,
		DownPayment:           fin.DownPayment,
		LTV:                   fin.LTV,
		CashFlow:              profit.CashFlow,
		CashOnCash:            profit.CashOnCash,
		TotalInvestment: fin.DownPayment + p.Number(property.WelcomeTax) +
			p.Number(property.CMHCAnalysis) + p.Number(property.CMHCTax),
		FutureReturns: Project(base, assumptions),
	}

	e.logger.Debug("analysis computed",
		zap.String("op", "analysis.Compute"),
		zap.String("expenseMode", mode.String()),
		zap.Float64("noi", result.NetOperatingIncome),
		zap.Float64("capRate", result.CapRate),
		zap.Float64("cashFlow", result.CashFlow),
	)
	return result
}

func (e *Engine) loanBalances(loan, rate, amortizationYears float64, a Assumptions) []float64 {
	years := a.StartYear + a.Horizon - 1
	termMonths := int(math.Round(amortizationYears * constants.MonthsPerYear))
	if loan <= 0 || years <= 0 || termMonths <= 0 {
		return nil
	}
	summaries, err := e.schedules.GenerateYearly(loan, rate, termMonths, years)
	if err != nil {
		e.logger.Warn("failed to build amortization schedule",
			zap.String("op", "analysis.loanBalances"),
			zap.Error(err),
		)
		return nil
	}
	balances := make([]float64, len(summaries))
	for i, s := range summaries {
		balances[i] = s.RemainingPrincipal
	}
	return balances
}
