// Package constants provides shared constants for the rentability application.
package constants

import "time"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Financing defaults
const (
	// CMHCAnalysisFeePerUnit is the CMHC analysis fee charged for each unit.
	CMHCAnalysisFeePerUnit = 150.0

	// CMHCLargeBuildingUnits is the unit count from which CMHC requires the
	// higher coverage ratio.
	CMHCLargeBuildingUnits = 7

	// DefaultMaxLTVConventional is the default loan-to-value ceiling (percent).
	DefaultMaxLTVConventional = 80.0

	// DefaultMaxLTVPrivate is the default loan-to-value ceiling for private lenders.
	DefaultMaxLTVPrivate = 75.0

	// DefaultMaxLTVCMHC is the default loan-to-value ceiling for CMHC insured loans.
	DefaultMaxLTVCMHC = 85.0

	// DefaultMaxLTVCMHCAPH is the default ceiling for CMHC affordability (APH) loans.
	DefaultMaxLTVCMHCAPH = 95.0
)

// Projection defaults
const (
	// DefaultProjectionHorizon is the number of yearly snapshots produced.
	DefaultProjectionHorizon = 10

	// DefaultProjectionStartYear is the year index of the first snapshot.
	DefaultProjectionStartYear = 1

	// DefaultAppreciationRate is the yearly property appreciation (percent).
	DefaultAppreciationRate = 3.0

	// DefaultRentIncreaseRate is the yearly rent increase (percent).
	DefaultRentIncreaseRate = 2.5

	// DefaultExpenseIncreaseRate is the yearly expense increase (percent).
	DefaultExpenseIncreaseRate = 2.5
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variable overrides (RENTABILITY_OUTPUT_FORMAT, ...).
	EnvPrefix = "RENTABILITY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultReadTimeout bounds how long the server waits for a request
	DefaultReadTimeout = 15 * time.Second
)
