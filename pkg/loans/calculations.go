// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/iwvelando/rentability/pkg/mathutil"
	"go.uber.org/zap"
)

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
// Rates are annual percentages. A non-positive term or financed amount yields 0.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	financed := principal - downPayment
	if termMonths <= 0 || financed <= 0 {
		return 0
	}

	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return financed / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow((1.00 + periodicInterestRate), float64(termMonths))
	discountFactor := (power - 1.00) / power
	return mathutil.SafeDivide(financed*periodicInterestRate, discountFactor)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// MaxPrincipal returns the largest principal a monthly payment can carry at
// the given annual rate and term, i.e. the present value of the annuity.
func MaxPrincipal(monthlyPayment, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 || monthlyPayment <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		return monthlyPayment * float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	discountFactor := 1 - math.Pow(1+periodicInterestRate, -float64(termMonths))
	return mathutil.SafeDivide(monthlyPayment*discountFactor, periodicInterestRate)
}

// RemainingPrincipal returns the balance left after paymentsMade monthly
// payments on a fully amortizing loan.
func RemainingPrincipal(principal, annualInterestRate float64, termMonths, paymentsMade int) float64 {
	if principal <= 0 || termMonths <= 0 || paymentsMade >= termMonths {
		return 0
	}
	if paymentsMade <= 0 {
		return principal
	}
	if annualInterestRate == 0 {
		return principal * float64(termMonths-paymentsMade) / float64(termMonths)
	}

	r := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	total := math.Pow(1+r, float64(termMonths))
	made := math.Pow(1+r, float64(paymentsMade))
	return mathutil.SafeDivide(principal*(total-made), total-1)
}

// YearSummary aggregates the payments made during one loan year.
type YearSummary struct {
	Year               int
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateYearly walks the loan month by month and returns one summary per
// loan year for the first years years. Years after the loan matures report
// a zero balance and no payments.
func (g *AmortizationScheduleGenerator) GenerateYearly(principal, annualInterestRate float64, termMonths, years int) ([]YearSummary, error) {
	if years < 0 {
		return nil, fmt.Errorf("years cannot be negative: %d", years)
	}
	summaries := make([]YearSummary, 0, years)
	if years == 0 {
		return summaries, nil
	}

	monthlyPayment := CalculateMonthlyPayment(principal, 0, annualInterestRate, termMonths)
	remaining := math.Max(principal, 0)
	month := 0

	for year := 1; year <= years; year++ {
		summary := YearSummary{Year: year}
		for m := 0; m < constants.MonthsPerYear; m++ {
			if remaining <= 0 || month >= termMonths {
				break
			}
			month++

			interest := CalculateInterestPayment(remaining, annualInterestRate)
			principalPaid := monthlyPayment - interest
			if month == termMonths || mathutil.Round(remaining-principalPaid) <= 0 {
				// We will get machine error otherwise so just settle the balance.
				principalPaid = remaining
				g.logger.Debug(fmt.Sprintf("loan matured after %d payments", month),
					zap.String("op", "loans.GenerateYearly"),
				)
			}

			summary.Payment += interest + principalPaid
			summary.Interest += interest
			summary.Principal += principalPaid
			remaining -= principalPaid
		}
		summary.RemainingPrincipal = math.Max(remaining, 0)
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
