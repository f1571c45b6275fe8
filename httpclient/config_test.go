package httpclient

import (
	"testing"
	"time"

	"github.com/kbukum/callbridge/security"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Name != "http" {
		t.Errorf("expected default name http, got %q", cfg.Name)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.Dispatcher.MaxConcurrent != 64 {
		t.Errorf("expected default max_concurrent 64, got %d", cfg.Dispatcher.MaxConcurrent)
	}
	if cfg.Dispatcher.MaxWait != 0 {
		t.Errorf("max_wait should stay 0 (wait for context), got %v", cfg.Dispatcher.MaxWait)
	}
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{
		Name:       "upstream",
		Timeout:    10 * time.Second,
		Dispatcher: DispatcherConfig{MaxConcurrent: 4, MaxWait: time.Second},
	}
	cfg.ApplyDefaults()
	if cfg.Name != "upstream" || cfg.Timeout != 10*time.Second {
		t.Errorf("explicit values were overwritten: %+v", cfg)
	}
	if cfg.Dispatcher.MaxConcurrent != 4 || cfg.Dispatcher.MaxWait != time.Second {
		t.Errorf("explicit dispatcher values were overwritten: %+v", cfg.Dispatcher)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := Config{Timeout: 10 * time.Second}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }, true},
		{"zero max concurrent", func(c *Config) { c.Dispatcher.MaxConcurrent = 0 }, true},
		{"negative max wait", func(c *Config) { c.Dispatcher.MaxWait = -time.Second }, true},
		{"cert without key", func(c *Config) {
			c.TLS = &security.TLSConfig{CertFile: "cert.pem"}
		}, true},
		{"valid tls", func(c *Config) {
			c.TLS = &security.TLSConfig{ServerName: "example.com", MinVersion: "1.3"}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultResilienceConfigs(t *testing.T) {
	cb := DefaultCircuitBreakerConfig("upstream")
	if cb == nil || cb.Name != "upstream" {
		t.Errorf("unexpected circuit breaker config: %+v", cb)
	}
	rl := DefaultRateLimiterConfig("upstream")
	if rl == nil || rl.Name != "upstream" {
		t.Errorf("unexpected rate limiter config: %+v", rl)
	}
}
