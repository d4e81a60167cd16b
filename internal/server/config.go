package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/rentability/internal/config"
	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ServerEnvPrefix prefixes environment overrides of the server configuration,
// e.g. RENTABILITY_SERVER_ADDRESS.
const ServerEnvPrefix = constants.EnvPrefix + "_SERVER"

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address" mapstructure:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize" mapstructure:"maxUploadSize"`
	ReadTimeout   string               `yaml:"readTimeout" mapstructure:"readTimeout"`
	Logging       config.LoggingConfig `yaml:"logging" mapstructure:"logging"`
	// AnalysisConfig optionally points at an analysis configuration whose
	// projection, financing and lockedFields sections apply to every request.
	AnalysisConfig string `yaml:"analysisConfig" mapstructure:"analysisConfig"`

	uploadSizeBytes int64
	readTimeout     time.Duration
}

// LoadConfig loads the server configuration from YAML, applying environment
// overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(ServerEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("address", constants.DefaultServerAddress)
	v.SetDefault("maxUploadSize", strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10))
	v.SetDefault("readTimeout", constants.DefaultReadTimeout.String())
	v.SetDefault("analysisConfig", "")
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			defer f.Close()
			if err := v.ReadConfig(f); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode server config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// ReadTimeoutDuration returns the configured request read timeout.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return c.readTimeout
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size

	c.readTimeout = constants.DefaultReadTimeout
	if raw := strings.TrimSpace(c.ReadTimeout); raw != "" {
		d, err := cast.ToDurationE(raw)
		if err != nil {
			return fmt.Errorf("invalid readTimeout %q: %w", c.ReadTimeout, err)
		}
		if d > 0 {
			c.readTimeout = d
		}
	}
	return nil
}

var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"KB", 1 << 10},
	{"MB", 1 << 20},
	{"GB", 1 << 30},
	{"K", 1 << 10},
	{"M", 1 << 20},
	{"G", 1 << 30},
	{"B", 1},
}

// ParseSize converts a byte string such as "512", "256K" or "10MB" into
// bytes. An empty string yields the default upload size.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	multiplier := int64(1)
	for _, unit := range sizeUnits {
		if strings.HasSuffix(s, unit.suffix) {
			multiplier = unit.multiplier
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n < 0 || n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size %q out of range", value)
	}
	return n * multiplier, nil
}
