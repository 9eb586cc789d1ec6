package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CALLLOG_"
)

// LoadWithFile loads configuration from a YAML or TOML file, then overrides
// it with environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (CALLLOG_LOGGING_LEVEL, CALLLOG_TELEMETRY_ENDPOINT, ...)
//  2. Config file (~/.config/calllog/config.yaml by default)
//  3. Default()
//
// Files ending in .toml are parsed as TOML, anything else as YAML. A missing
// file is not an error.
//
// # Security Considerations
//
// The file must live in ~/.config/calllog/ or /etc/calllog/, have 0600 or
// 0400 permissions and be at most 1MB.
//
// # Environment Variable Mapping
//
// The prefix is stripped and the rest split on the first underscore:
//
//	CALLLOG_LOGGING_LEVEL          -> logging.level
//	CALLLOG_TELEMETRY_SERVICE_NAME -> telemetry.service_name
//	CALLLOG_REDACTION_SECRET_KEYS  -> redaction.secret_keys (comma separated)
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(Default().toMap(false)), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "calllog", "config.yaml")
	}

	if err := validateConfigPath(configPath); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}
	if err := loadFile(k, configPath); err != nil {
		return nil, err
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFile merges configPath into k when the file exists.
func loadFile(k *koanf.Koanf, configPath string) error {
	if _, err := os.Stat(configPath); err != nil {
		return nil
	}

	// Open once and validate the descriptor to avoid a TOCTOU race.
	f, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := k.Load(rawbytes.Provider(content), parserFor(configPath)); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	return nil
}

// parserFor picks the koanf parser from the file extension.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOMLParser()
	}
	return yaml.Parser()
}

// envKeyValue maps CALLLOG_SECTION_FIELD_NAME to section.field_name.
// List values are split on commas.
func envKeyValue(key, value string) (string, interface{}) {
	lower := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower, value
	}
	path := section + "." + field

	if path == "redaction.secret_keys" {
		parts := strings.Split(value, ",")
		keys := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				keys = append(keys, p)
			}
		}
		return path, keys
	}
	return path, value
}

// EnsureConfigDir creates ~/.config/calllog with 0700 permissions.
func EnsureConfigDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "calllog")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

// validateConfigPath checks if path is in allowed directories.
// This validation runs even if the file doesn't exist yet.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Follow symlinks so they cannot escape the allowed directories; paths
	// that do not exist yet are checked as given.
	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolvedPath = absPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	allowedDirs := []string{
		filepath.Join(home, ".config", "calllog"),
		"/etc/calllog",
	}
	for _, dir := range allowedDirs {
		if resolvedPath == dir || strings.HasPrefix(resolvedPath, dir+string(filepath.Separator)) {
			return nil
		}
	}

	return fmt.Errorf("config file must be in ~/.config/calllog/ or /etc/calllog/")
}

// validateConfigFileProperties checks file permissions and size.
// Takes FileInfo from an already-opened file descriptor to avoid TOCTOU race.
func validateConfigFileProperties(info os.FileInfo) error {
	// Skip on Windows (different permission model)
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return nil
}

// mapProvider is a koanf.Provider over an in-memory nested map.
type mapProvider map[string]interface{}

// ReadBytes is not supported; koanf calls Read when no parser is given.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("mapProvider does not support ReadBytes")
}

// Read returns the map.
func (m mapProvider) Read() (map[string]interface{}, error) {
	return m, nil
}
