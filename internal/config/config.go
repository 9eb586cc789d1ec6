// Package config provides configuration loading for calllog.
//
// Configuration comes from hardcoded defaults, then an optional YAML or TOML
// file, then CALLLOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
)

// Config holds the complete calllog configuration.
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Redaction RedactionConfig `koanf:"redaction"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// LoggingConfig selects how call entries are written.
type LoggingConfig struct {
	Level    string `koanf:"level"`
	Format   string `koanf:"format"` // json or console
	OTEL     bool   `koanf:"otel"`   // also send entries to the OTEL log bridge
	Sampling bool   `koanf:"sampling"`
}

// RedactionConfig lists argument names redacted on top of the built-in
// api_key, access_token and email.
type RedactionConfig struct {
	SecretKeys []string `koanf:"secret_keys"`
	Sentinel   string   `koanf:"sentinel"`

	// ScanValues also scrubs secrets found inside rendered values.
	ScanValues bool   `koanf:"scan_values"`
	Allowlist  string `koanf:"allowlist"` // TOML file with [allowlist] regexes
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled         bool     `koanf:"enabled"`
	Endpoint        string   `koanf:"endpoint"`
	Protocol        string   `koanf:"protocol"` // grpc or http/protobuf
	Insecure        bool     `koanf:"insecure"`
	ServiceName     string   `koanf:"service_name"`
	SampleRate      float64  `koanf:"sample_rate"`
	Headers         Secret   `koanf:"headers"` // OTLP headers, "k=v,k2=v2"
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// MetricsConfig controls Prometheus collectors for wrapped calls.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true,
	"error": true, "dpanic": true, "panic": true, "fatal": true,
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "json",
		},
		Redaction: RedactionConfig{
			SecretKeys: []string{"api_key", "access_token", "email"},
			Sentinel:   "**SECRET**",
		},
		Telemetry: TelemetryConfig{
			Enabled:         false,
			Endpoint:        "localhost:4317",
			Protocol:        "grpc",
			Insecure:        true,
			ServiceName:     "calllog",
			SampleRate:      1.0,
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs []error

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("logging.level %q is not a known level", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}
	if c.Redaction.Sentinel == "" {
		errs = append(errs, errors.New("redaction.sentinel cannot be empty"))
	}
	for _, k := range c.Redaction.SecretKeys {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, errors.New("redaction.secret_keys cannot contain empty names"))
			break
		}
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			errs = append(errs, errors.New("telemetry.endpoint is required when telemetry is enabled"))
		}
		if c.Telemetry.ServiceName == "" {
			errs = append(errs, errors.New("telemetry.service_name is required when telemetry is enabled"))
		}
		if c.Telemetry.Protocol != "grpc" && c.Telemetry.Protocol != "http/protobuf" {
			errs = append(errs, fmt.Errorf("telemetry.protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol))
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			errs = append(errs, fmt.Errorf("telemetry.sample_rate must be within [0, 1], got %v", c.Telemetry.SampleRate))
		}
	}

	return errors.Join(errs...)
}

// HeaderMap parses Telemetry.Headers ("k=v,k2=v2") into a map.
func (t TelemetryConfig) HeaderMap() map[string]string {
	if !t.Headers.IsSet() {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(t.Headers.Value(), ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers
}

// toMap renders the config as the nested map koanf loads. With redact set,
// secret values are replaced by their redacted form.
func (c *Config) toMap(redact bool) map[string]interface{} {
	headers := c.Telemetry.Headers.Value()
	if redact {
		headers = c.Telemetry.Headers.String()
	}
	keys := make([]interface{}, len(c.Redaction.SecretKeys))
	for i, k := range c.Redaction.SecretKeys {
		keys[i] = k
	}
	return map[string]interface{}{
		"logging": map[string]interface{}{
			"level":    c.Logging.Level,
			"format":   c.Logging.Format,
			"otel":     c.Logging.OTEL,
			"sampling": c.Logging.Sampling,
		},
		"redaction": map[string]interface{}{
			"secret_keys": keys,
			"sentinel":    c.Redaction.Sentinel,
			"scan_values": c.Redaction.ScanValues,
			"allowlist":   c.Redaction.Allowlist,
		},
		"telemetry": map[string]interface{}{
			"enabled":          c.Telemetry.Enabled,
			"endpoint":         c.Telemetry.Endpoint,
			"protocol":         c.Telemetry.Protocol,
			"insecure":         c.Telemetry.Insecure,
			"service_name":     c.Telemetry.ServiceName,
			"sample_rate":      c.Telemetry.SampleRate,
			"headers":          headers,
			"shutdown_timeout": c.Telemetry.ShutdownTimeout.Duration().String(),
		},
		"metrics": map[string]interface{}{
			"enabled": c.Metrics.Enabled,
		},
	}
}

// Marshal renders the config as "yaml" or "toml" with secrets redacted.
func Marshal(c *Config, format string) ([]byte, error) {
	m := c.toMap(true)
	switch format {
	case "yaml", "":
		return yaml.Parser().Marshal(m)
	case "toml":
		return TOMLParser().Marshal(m)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
