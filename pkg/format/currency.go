// Package format renders analysis figures for display.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/rentability/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown instead of a ratio whose denominator was zero.
const Placeholder = "n/a"

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Percent returns a percentage with two decimals (e.g., "6.56%").
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// Ratio returns a percentage, or Placeholder when the ratio is not meaningful
// because its base was zero.
func Ratio(value, base float64) string {
	if mathutil.IsZero(base) {
		return Placeholder
	}
	return Percent(value)
}

var printer = message.NewPrinter(language.English)

func formatPositiveCurrency(value float64) string {
	return printer.Sprintf("%.2f", value)
}
