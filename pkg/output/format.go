// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/iwvelando/rentability/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is one analyzed property ready for display.
type Report struct {
	Name        string          `json:"name"`
	ExpenseMode string          `json:"expenseMode"`
	Result      analysis.Result `json:"analysis"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// Write renders reports in the named format.
func Write(w io.Writer, outputFormat string, reports []Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, reports)
		return nil
	case constants.OutputFormatCSV:
		return CsvFormat(w, reports)
	case constants.OutputFormatJSON:
		return JSONFormat(w, reports)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable summary.
func PrettyFormat(w io.Writer, reports []Report) {
	p := message.NewPrinter(language.English)
	for i, report := range reports {
		r := report.Result
		_, _ = fmt.Fprintf(w, "--- Analysis for %s (%s expenses) ---\n", report.Name, report.ExpenseMode)
		_, _ = p.Fprintf(w, "Gross revenue      | $%.2f\n", r.TotalGrossRevenue)
		_, _ = p.Fprintf(w, "Vacancy loss       | $%.2f\n", r.VacancyLoss)
		_, _ = p.Fprintf(w, "Total expenses     | $%.2f\n", r.TotalExpenses)
		_, _ = p.Fprintf(w, "Net operating inc. | $%.2f\n", r.NetOperatingIncome)
		_, _ = fmt.Fprintf(w, "Cap rate           | %s\n", format.Ratio(r.CapRate, r.DownPayment+r.LoanAmount))
		_, _ = p.Fprintf(w, "Loan amount        | $%.2f\n", r.LoanAmount)
		_, _ = p.Fprintf(w, "Down payment       | $%.2f\n", r.DownPayment)
		_, _ = p.Fprintf(w, "Monthly payment    | $%.2f\n", r.MonthlyPayment)
		_, _ = p.Fprintf(w, "Debt service       | $%.2f\n", r.DebtService)
		_, _ = fmt.Fprintf(w, "LTV                | %s\n", format.Percent(r.LTV))
		_, _ = p.Fprintf(w, "Cash flow          | $%.2f\n", r.CashFlow)
		_, _ = fmt.Fprintf(w, "Cash on cash       | %s\n", format.Ratio(r.CashOnCash, r.DownPayment))
		_, _ = p.Fprintf(w, "Total investment   | $%.2f\n", r.TotalInvestment)

		if len(r.FutureReturns) > 0 {
			_, _ = fmt.Fprintf(w, "\nYear | Value         | Cash flow     | Total gain    | Equity\n")
			_, _ = fmt.Fprintf(w, "____ | _____________ | _____________ | _____________ | _____________\n")
			for _, row := range r.FutureReturns {
				_, _ = p.Fprintf(w, "%4d | $%.2f | $%.2f | $%.2f | $%.2f\n",
					row.Year, row.FutureValue, row.FutureCashFlow, row.TotalGain, row.Equity)
			}
		}
		for _, warning := range report.Warnings {
			_, _ = fmt.Fprintf(w, "warning: %s\n", warning)
		}
		if i < len(reports)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat outputs the yearly projection of every report in comma-separated
// value format, one row per property and year.
func CsvFormat(w io.Writer, reports []Report) error {
	cw := csv.NewWriter(w)
	header := []string{"name", "year", "futureValue", "futureCashFlow", "totalGain", "loanBalance", "equity"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, report := range reports {
		for _, row := range report.Result.FutureReturns {
			record := []string{
				report.Name,
				strconv.Itoa(row.Year),
				money(row.FutureValue),
				money(row.FutureCashFlow),
				money(row.TotalGain),
				money(row.LoanBalance),
				money(row.Equity),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV rendering of reports.
func CsvString(reports []Report) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, reports); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSONFormat outputs the reports as indented JSON using the durable result keys.
func JSONFormat(w io.Writer, reports []Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
