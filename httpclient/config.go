package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/callbridge/resilience"
	"github.com/kbukum/callbridge/security"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxConcurrent = 64
)

// TLSConfig is an alias for the shared security TLS configuration.
type TLSConfig = security.TLSConfig

// Config configures the HTTP adapter and its dispatcher.
type Config struct {
	// Name identifies the adapter in logs, spans and health reports.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds a single request including reading the body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth configures default authentication. Requests can override it.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS configures TLS settings for the transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// HTTP2 forces HTTP/2 over TLS instead of negotiating the protocol.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`

	// CircuitBreaker guards the upstream. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// RateLimiter throttles outgoing requests. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`

	// Dispatcher bounds asynchronous call execution.
	Dispatcher DispatcherConfig `yaml:"dispatcher" mapstructure:"dispatcher"`
}

// DispatcherConfig bounds how many calls run at once.
type DispatcherConfig struct {
	// MaxConcurrent is the number of calls allowed in flight. Defaults to 64.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=0"`

	// MaxWait bounds how long an enqueued call waits for a slot.
	// Zero waits until the call's context ends.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	c.Dispatcher.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if err := c.Dispatcher.Validate(); err != nil {
		return err
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDefaults fills in zero-value fields.
func (c *DispatcherConfig) ApplyDefaults() {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultMaxConcurrent
	}
}

// Validate checks the dispatcher limits.
func (c *DispatcherConfig) Validate() error {
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("httpclient: dispatcher.max_concurrent must be positive")
	}
	if c.MaxWait < 0 {
		return fmt.Errorf("httpclient: dispatcher.max_wait must not be negative")
	}
	return nil
}

// DefaultCircuitBreakerConfig returns a default circuit breaker config.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	return &cfg
}

// DefaultRateLimiterConfig returns a default rate limiter config.
func DefaultRateLimiterConfig(name string) *resilience.RateLimiterConfig {
	cfg := resilience.DefaultRateLimiterConfig(name)
	return &cfg
}
