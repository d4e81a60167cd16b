package testutil

import (
	"testing"

	"github.com/iwvelando/rentability/internal/analysis"
)

func TestFindYear(t *testing.T) {
	rows := []analysis.YearlyProjection{
		{Year: 1, FutureValue: 103000},
		{Year: 2, FutureValue: 106090},
		{Year: 5, FutureValue: 115927.41},
	}

	tests := []struct {
		name          string
		year          int
		expectFound   bool
		expectedValue float64
	}{
		{name: "First year", year: 1, expectFound: true, expectedValue: 103000},
		{name: "Middle year", year: 2, expectFound: true, expectedValue: 106090},
		{name: "Gap in years", year: 5, expectFound: true, expectedValue: 115927.41},
		{name: "Missing year", year: 3, expectFound: false},
		{name: "Base year", year: 0, expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := FindYear(rows, tt.year)
			if !tt.expectFound {
				if row != nil {
					t.Errorf("FindYear(%d) = %+v, expected nil", tt.year, *row)
				}
				return
			}
			if row == nil {
				t.Fatalf("FindYear(%d) = nil, expected a row", tt.year)
			}
			if row.FutureValue != tt.expectedValue {
				t.Errorf("FindYear(%d).FutureValue = %v, expected %v", tt.year, row.FutureValue, tt.expectedValue)
			}
		})
	}
}

func TestFindYearReturnsPointerIntoSlice(t *testing.T) {
	rows := []analysis.YearlyProjection{{Year: 1}}
	FindYear(rows, 1).Equity = 42
	if rows[0].Equity != 42 {
		t.Errorf("FindYear() should point into the slice, Equity = %v", rows[0].Equity)
	}
	if FindYear(nil, 1) != nil {
		t.Error("FindYear(nil) should return nil")
	}
}

func TestFourplexIsFresh(t *testing.T) {
	a := Fourplex()
	a["purchasePrice"] = 1
	if Fourplex().PurchasePrice() != 450000 {
		t.Error("Fourplex() should return an independent record each call")
	}
}
