package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/rentability/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exampleConfig = filepath.Join("..", "..", "config.yaml.example")

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.LoggingConfig
		override    string
		expectError bool
	}{
		{name: "defaults", cfg: config.LoggingConfig{}},
		{name: "console debug", cfg: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", cfg: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "invalid level", cfg: config.LoggingConfig{Level: "loud"}, expectError: true},
		{name: "invalid format", cfg: config.LoggingConfig{Format: "xml"}, expectError: true},
		{name: "output file", cfg: config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "app.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.cfg, tt.override)
			if tt.expectError {
				if err == nil {
					t.Errorf("initializeLogger() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("initializeLogger() returned nil logger")
			}
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeExampleConfig(t *testing.T) {
	out, err := execute(t, "analyze", "--config", exampleConfig, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Analysis for")
	assert.Contains(t, out, "Year | Value")
}

func TestAnalyzeJSONOutput(t *testing.T) {
	out, err := execute(t, "analyze", "--config", exampleConfig, "--output-format", "json", "--log-level", "error")
	require.NoError(t, err)

	var reports []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0], "analysis")
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := execute(t, "analyze", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "analyze", "--config", exampleConfig, "--output-format", "xml", "--log-level", "error")
	assert.Error(t, err)
}

func TestWelcomeTaxCommand(t *testing.T) {
	out, err := execute(t, "welcome-tax", "450000")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome tax: $5,220.00")
	assert.Equal(t, 3, strings.Count(out, "\n")-1, "one line per reached bracket:\n%s", out)

	_, err = execute(t, "welcome-tax", "lots")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
