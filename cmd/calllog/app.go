package main

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"

	"github.com/fyrsmithlabs/calllog/internal/config"
	"github.com/fyrsmithlabs/calllog/internal/logging"
)

// loadConfig reads the config file and environment, then applies flag
// overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadWithFile(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.level != "" {
		cfg.Logging.Level = opts.level
	}
	if opts.format != "" {
		cfg.Logging.Format = opts.format
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// newLogger builds the zap-backed logger for cfg, writing to w.
func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	logCfg := logging.NewDefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format
	logCfg.Output.Writer = w
	logCfg.Sampling.Enabled = cfg.Logging.Sampling
	logCfg.Redaction.Fields = append(logCfg.Redaction.Fields, cfg.Redaction.SecretKeys...)

	var provider log.LoggerProvider
	if cfg.Logging.OTEL {
		logCfg.Output.OTEL = true
		provider = global.GetLoggerProvider()
	}

	return logging.NewLogger(logCfg, provider)
}
