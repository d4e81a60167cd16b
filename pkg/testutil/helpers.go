// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/internal/property"
)

// Fourplex returns a fully financed four-unit property used across tests.
func Fourplex() property.Property {
	return property.Property{
		property.Address:           "1234 rue Saint-Denis",
		property.City:              "Montreal",
		property.PurchasePrice:     450000,
		property.NumberOfUnits:     4,
		property.AnnualRent:        36000,
		property.VacancyRate:       0,
		property.MunicipalTaxes:    4000,
		property.SchoolTaxes:       400,
		property.Insurance:         1600,
		property.Maintenance:       1500,
		property.FinancingType:     "conventional",
		property.DebtCoverageRatio: 1.15,
		property.MortgageRate:      5,
		property.Amortization:      25,
	}
}

// FindYear finds a projection row by year.
// Returns a pointer to the row if found, nil otherwise.
func FindYear(rows []analysis.YearlyProjection, year int) *analysis.YearlyProjection {
	for i := range rows {
		if rows[i].Year == year {
			return &rows[i]
		}
	}
	return nil
}
