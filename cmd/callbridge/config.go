package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/callbridge/config"
	"github.com/kbukum/callbridge/httpclient"
	"github.com/kbukum/callbridge/observability"
	"github.com/kbukum/callbridge/validation"
	"github.com/kbukum/callbridge/version"
)

const serviceName = "callbridge"

// cliConfig is the file and environment configuration of the binary.
type cliConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP      httpclient.Config `yaml:"http" mapstructure:"http"`
	Telemetry telemetryConfig   `yaml:"telemetry" mapstructure:"telemetry"`
}

// telemetryConfig enables OTLP export when Endpoint is set.
type telemetryConfig struct {
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	TLS            bool          `yaml:"tls" mapstructure:"tls"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval" validate:"gte=0"`
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configFile   string
	logLevel     string
	otlpEndpoint string
}

func (f *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configFile, "config", "", "config file (default: ./callbridge.yml or ./config/config.yml)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP collector host:port; enables tracing and metrics")
}

// loadConfig reads config files and the environment, then applies flags.
// Flags win over both.
func loadConfig(flags globalFlags, opts ...config.LoaderOption) (*cliConfig, error) {
	cfg := &cliConfig{}
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.otlpEndpoint != "" {
		cfg.Telemetry.Endpoint = flags.otlpEndpoint
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *cliConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	// Keep stderr quiet unless asked.
	if c.Logging.Level == "" && !c.Debug {
		c.Logging.Level = "warn"
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

func (c *cliConfig) validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Struct(c); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	return nil
}

func (c *cliConfig) tracerConfig() observability.TracerConfig {
	tc := observability.DefaultTracerConfig(c.Name)
	tc.ServiceVersion = c.Version
	tc.Environment = c.Environment
	tc.Endpoint = c.Telemetry.Endpoint
	tc.Insecure = !c.Telemetry.TLS
	tc.SampleRate = c.Telemetry.SampleRate
	return tc
}

func (c *cliConfig) meterConfig() observability.MeterConfig {
	mc := observability.DefaultMeterConfig(c.Name)
	mc.ServiceVersion = c.Version
	mc.Environment = c.Environment
	mc.Endpoint = c.Telemetry.Endpoint
	mc.Insecure = !c.Telemetry.TLS
	if c.Telemetry.ExportInterval > 0 {
		mc.Interval = c.Telemetry.ExportInterval
	}
	return mc
}
