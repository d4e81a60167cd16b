package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServerConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, constants.DefaultServerAddress, cfg.Address)
		assert.Equal(t, constants.DefaultMaxUploadSizeBytes, cfg.UploadSizeBytes())
		assert.Equal(t, constants.DefaultReadTimeout, cfg.ReadTimeoutDuration())
		assert.Empty(t, cfg.AnalysisConfig)
		assert.Empty(t, cfg.Logging.Level)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeServerConfig(t, `address: 127.0.0.1:9000
maxUploadSize: 2M
readTimeout: 3s
analysisConfig: config.yaml
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Address)
	assert.Equal(t, int64(2*1024*1024), cfg.UploadSizeBytes())
	assert.Equal(t, 3*time.Second, cfg.ReadTimeoutDuration())
	assert.Equal(t, "config.yaml", cfg.AnalysisConfig)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/tmp/server.log", cfg.Logging.OutputFile)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeServerConfig(t, "address: \":9000\"\n")
	t.Setenv("RENTABILITY_SERVER_ADDRESS", ":7000")
	t.Setenv("RENTABILITY_SERVER_MAXUPLOADSIZE", "64K")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Address)
	assert.Equal(t, int64(64*1024), cfg.UploadSizeBytes())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"invalid size", "maxUploadSize: invalid\n"},
		{"invalid timeout", "readTimeout: soon\n"},
		{"invalid yaml", "address: [broken\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeServerConfig(t, tt.contents))
			assert.Error(t, err)
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
		"8 kb":      8 * 1024,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Errorf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, invalid := range []string{"1TB", "abc", "-5K", "K"} {
		if _, err := ParseSize(invalid); err == nil {
			t.Errorf("ParseSize(%q) expected error but got none", invalid)
		}
	}
}
