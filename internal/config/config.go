package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/psantana5/perfy/pkg/tracing"
)

// Config is the effective configuration of the perfy CLI
type Config struct {
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level"`
	LogJSON     bool          `mapstructure:"log_json" yaml:"log_json"`
	LogFile     string        `mapstructure:"log_file" yaml:"log_file,omitempty"`
	Output      string        `mapstructure:"output" yaml:"output"` // table, json or yaml
	MetricsAddr string        `mapstructure:"metrics_addr" yaml:"metrics_addr,omitempty"`
	Tracing     TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

// TracingConfig controls span export of measurements
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// EnvPrefix is prepended to every environment override, e.g. PERFY_OUTPUT
const EnvPrefix = "PERFY"

var validOutputs = map[string]bool{"table": true, "json": true, "yaml": true}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("log_file", "")
	v.SetDefault("output", "table")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.service_name", "perfy")
	v.SetDefault("tracing.environment", "development")
}

// Load reads configuration from cfgFile, or from $HOME/.perfy/config.yaml
// when cfgFile is empty, then applies PERFY_* environment overrides.
// A missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".perfy"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	c.Output = strings.ToLower(c.Output)
	if !validOutputs[c.Output] {
		return fmt.Errorf("invalid output %q: must be table, json or yaml", c.Output)
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	return nil
}

// TracingSettings converts the tracing section for tracing.InitTracer
func (c *Config) TracingSettings(version string) tracing.Config {
	return tracing.Config{
		ServiceName:    c.Tracing.ServiceName,
		ServiceVersion: version,
		Environment:    c.Tracing.Environment,
		OTLPEndpoint:   c.Tracing.Endpoint,
		Enabled:        c.Tracing.Enabled,
	}
}

// Example configuration as a string
const ExampleConfig = `# perfy configuration ($HOME/.perfy/config.yaml)

# debug, info, warn, error
log_level: info
log_json: false

# Result format: table, json or yaml
output: table

# Serve /metrics and /health on this address while measuring
metrics_addr: ""

tracing:
  enabled: false
  endpoint: localhost:4318
  service_name: perfy
  environment: development
`
