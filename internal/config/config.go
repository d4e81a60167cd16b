// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/internal/property"
	"github.com/iwvelando/rentability/internal/reconcile"
	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/iwvelando/rentability/pkg/financing"
	"github.com/iwvelando/rentability/pkg/validation"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for rentability.
type Configuration struct {
	Logging      LoggingConfig          `yaml:"logging,omitempty"`
	Output       OutputConfig           `yaml:"output,omitempty"`
	Projection   ProjectionConfig       `yaml:"projection,omitempty"`
	Financing    FinancingConfig        `yaml:"financing,omitempty"`
	LockedFields reconcile.LockedFields `yaml:"lockedFields" mapstructure:"lockedFields"`
	ExpenseMode  string                 `yaml:"expenseMode,omitempty" mapstructure:"expenseMode"`
	// Property keeps the field names exactly as written; it is decoded
	// separately because viper folds keys to lower case.
	Property property.Property `yaml:"property,omitempty" mapstructure:"-"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// ProjectionConfig holds the projection window and default growth rates.
type ProjectionConfig struct {
	Horizon             int     `yaml:"horizon"`
	StartYear           int     `yaml:"startYear" mapstructure:"startYear"`
	AppreciationRate    float64 `yaml:"appreciationRate" mapstructure:"appreciationRate"`
	RentIncreaseRate    float64 `yaml:"rentIncreaseRate" mapstructure:"rentIncreaseRate"`
	ExpenseIncreaseRate float64 `yaml:"expenseIncreaseRate" mapstructure:"expenseIncreaseRate"`
}

// FinancingConfig holds the loan sizing policy and LTV ceilings per program.
type FinancingConfig struct {
	Policy string             `yaml:"policy,omitempty"`
	MaxLTV map[string]float64 `yaml:"maxLtv,omitempty" mapstructure:"maxLtv"`
}

// EnvPrefix is the prefix for environment overrides, e.g. RENTABILITY_PROJECTION_HORIZON.
const EnvPrefix = constants.EnvPrefix

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("projection.horizon", constants.DefaultProjectionHorizon)
	v.SetDefault("projection.startYear", constants.DefaultProjectionStartYear)
	v.SetDefault("projection.appreciationRate", constants.DefaultAppreciationRate)
	v.SetDefault("projection.rentIncreaseRate", constants.DefaultRentIncreaseRate)
	v.SetDefault("projection.expenseIncreaseRate", constants.DefaultExpenseIncreaseRate)
	v.SetDefault("financing.policy", string(financing.PolicyMin))
	for program, ltv := range financing.DefaultLimits() {
		v.SetDefault("financing.maxLtv."+string(program), ltv)
	}
	defaults := reconcile.DefaultLockedFields()
	v.SetDefault("lockedFields.debtCoverage", defaults.DebtCoverage)
	v.SetDefault("lockedFields.welcomeTax", defaults.WelcomeTax)
	v.SetDefault("expenseMode", analysis.Simple.String())
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return LoadConfigurationFromReader(bytes.NewReader(data))
}

// LoadConfigurationFromReader loads a YAML configuration from r. Missing
// sections take their defaults.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	var raw struct {
		Property map[string]interface{} `yaml:"property"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unable to decode property, %w", err)
	}
	configuration.Property = property.Property(raw.Property)
	if configuration.Property == nil {
		configuration.Property = property.Property{}
	}

	return &configuration, nil
}

// EngineOptions converts the projection and financing sections into engine options.
func (c *Configuration) EngineOptions() (analysis.Options, error) {
	policy, err := financing.ParsePolicy(c.Financing.Policy)
	if err != nil {
		return analysis.Options{}, err
	}

	limits := financing.Limits{}
	for name, ltv := range c.Financing.MaxLTV {
		program, ok := financing.ParseType(name)
		if !ok {
			return analysis.Options{}, fmt.Errorf("unsupported financing type %q in maxLtv", name)
		}
		limits[program] = ltv
	}

	return analysis.Options{
		Projection: analysis.Assumptions{
			Horizon:             c.Projection.Horizon,
			StartYear:           c.Projection.StartYear,
			AppreciationRate:    c.Projection.AppreciationRate,
			RentIncreaseRate:    c.Projection.RentIncreaseRate,
			ExpenseIncreaseRate: c.Projection.ExpenseIncreaseRate,
		},
		Policy: policy,
		Limits: limits,
	}, nil
}

// Mode returns the configured expense mode.
func (c *Configuration) Mode() analysis.ExpenseMode {
	return analysis.ParseExpenseMode(c.ExpenseMode)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if _, err := financing.ParsePolicy(c.Financing.Policy); err != nil {
		warnings = append(warnings, err.Error())
	}

	programs := make([]string, 0, len(c.Financing.MaxLTV))
	for name := range c.Financing.MaxLTV {
		programs = append(programs, name)
	}
	sort.Strings(programs)
	for _, name := range programs {
		if _, ok := financing.ParseType(name); !ok {
			warnings = append(warnings, fmt.Sprintf("maxLtv entry '%s' is not a supported financing type", name))
			continue
		}
		if w := validation.ValidateMaxLTV(name, c.Financing.MaxLTV[name]); w != "" {
			warnings = append(warnings, w)
		}
	}

	warnings = append(warnings, validation.ValidateProjection(c.Projection.Horizon, c.Projection.StartYear)...)

	switch strings.ToLower(strings.TrimSpace(c.ExpenseMode)) {
	case "", "simple", "advanced", "true", "false", "1", "0":
	default:
		warnings = append(warnings, fmt.Sprintf("expense mode '%s' is not recognized - simple is assumed", c.ExpenseMode))
	}

	if len(c.Property) == 0 {
		return append(warnings, "no property is configured")
	}
	return append(warnings, PropertyValidator(c.Property).ValidateAll()...)
}

// PropertyValidator converts a property record into its validation form.
func PropertyValidator(p property.Property) validation.PropertyConfig {
	_, known := financing.ParseType(p.Text(property.FinancingType))
	return validation.PropertyConfig{
		PurchasePrice:      p.Number(property.PurchasePrice),
		HasPurchasePrice:   p.Has(property.PurchasePrice),
		Units:              p.Number(property.NumberOfUnits),
		VacancyRate:        p.Number(property.VacancyRate),
		ManagementRate:     p.Number(property.ManagementRate),
		MortgageRate:       p.Number(property.MortgageRate),
		AmortizationYears:  p.Number(property.Amortization),
		FinancingType:      p.Text(property.FinancingType),
		KnownFinancingType: known,
		DebtCoverageRatio:  p.Number(property.DebtCoverageRatio),
		HasCoverageRatio:   p.Has(property.DebtCoverageRatio),
	}
}
