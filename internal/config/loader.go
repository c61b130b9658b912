package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mattjoyce/runbot/internal/auth"
	"github.com/mattjoyce/runbot/internal/execute"
)

const (
	// PathEnv overrides config discovery.
	PathEnv = "RUNBOT_CONFIG"
	// PublicKeyEnv supplies the public key when the config does not.
	PublicKeyEnv = "DISCORD_PUBLIC_KEY"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads, verifies and validates configuration. An empty path yields
// defaults plus environment.
func Load(configPath string) (*Config, error) {
	var cfg *Config
	if configPath == "" {
		cfg = Defaults()
		cfg.Gateway.PublicKey = interpolateEnv(cfg.Gateway.PublicKey)
	} else {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s\n"+
				"Hint: Check the path or run with --config flag", absPath)
		}

		if err := verifyConfigHash(absPath); err != nil {
			return nil, err
		}

		cfg, err = loadConfigFile(absPath)
		if err != nil {
			return nil, err
		}
		cfg.SourcePath = absPath
		cfg = applyConfigDefaults(cfg)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DiscoverConfigPath finds a config file in the standard locations.
// Priority order: $RUNBOT_CONFIG, ~/.config/runbot/config.yaml,
// /etc/runbot/config.yaml, ./config.yaml. It returns "" when none exist.
func DiscoverConfigPath() (string, error) {
	if path := os.Getenv(PathEnv); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("$%s points to missing file %s", PathEnv, path)
		}
		return path, nil
	}

	candidates := make([]string, 0, 3)
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".config", "runbot", "config.yaml"))
	}
	candidates = append(candidates, "/etc/runbot/config.yaml", "./config.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// loadConfigFile parses a single config file after env interpolation.
func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	interpolated := interpolateEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(interpolated), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// applyConfigDefaults fills unset fields from Defaults.
func applyConfigDefaults(cfg *Config) *Config {
	defaults := Defaults()

	if cfg.Service.Name == "" {
		cfg.Service.Name = defaults.Service.Name
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = defaults.Service.LogLevel
	}

	if cfg.Gateway.Listen == "" {
		cfg.Gateway.Listen = defaults.Gateway.Listen
	}
	if cfg.Gateway.Path == "" {
		cfg.Gateway.Path = defaults.Gateway.Path
	}
	if cfg.Gateway.PublicKey == "" {
		cfg.Gateway.PublicKey = os.Getenv(PublicKeyEnv)
	}
	if cfg.Gateway.MaxBodySize == "" {
		cfg.Gateway.MaxBodySize = defaults.Gateway.MaxBodySize
	}

	if cfg.Backends.Rust.Endpoint == "" {
		cfg.Backends.Rust.Endpoint = defaults.Backends.Rust.Endpoint
	}
	if cfg.Backends.Rust.Timeout == 0 {
		cfg.Backends.Rust.Timeout = defaults.Backends.Rust.Timeout
	}
	if cfg.Backends.Rust.Edition == "" {
		cfg.Backends.Rust.Edition = defaults.Backends.Rust.Edition
	}
	if cfg.Backends.Generic.Endpoint == "" {
		cfg.Backends.Generic.Endpoint = defaults.Backends.Generic.Endpoint
	}
	if cfg.Backends.Generic.Timeout == 0 {
		cfg.Backends.Generic.Timeout = defaults.Backends.Generic.Timeout
	}

	if cfg.Limits.MaxLines == 0 {
		cfg.Limits.MaxLines = defaults.Limits.MaxLines
	}
	if cfg.Limits.MaxChars == 0 {
		cfg.Limits.MaxChars = defaults.Limits.MaxChars
	}

	return cfg
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Undefined variables are left as-is so validation can name them.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

// validate performs basic validation on the configuration.
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(cfg.Service.LogLevel)] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}

	if err := checkUnresolved("gateway.public_key", cfg.Gateway.PublicKey); err != nil {
		return err
	}
	if cfg.Gateway.PublicKey == "" {
		return fmt.Errorf("gateway.public_key is required (or set $%s)", PublicKeyEnv)
	}
	if _, err := auth.NewVerifier(cfg.Gateway.PublicKey); err != nil {
		return fmt.Errorf("gateway.public_key: %w", err)
	}
	if !strings.HasPrefix(cfg.Gateway.Path, "/") {
		return fmt.Errorf("gateway.path must start with / (got %q)", cfg.Gateway.Path)
	}
	size, err := ParseSize(cfg.Gateway.MaxBodySize)
	if err != nil {
		return fmt.Errorf("gateway.max_body_size %q: %w", cfg.Gateway.MaxBodySize, err)
	}
	cfg.Gateway.MaxBodyBytes = size

	if err := checkUnresolved("backends.rust.endpoint", cfg.Backends.Rust.Endpoint); err != nil {
		return err
	}
	if err := checkUnresolved("backends.generic.endpoint", cfg.Backends.Generic.Endpoint); err != nil {
		return err
	}
	if cfg.Backends.Rust.Timeout <= 0 {
		return fmt.Errorf("backends.rust.timeout must be positive")
	}
	if cfg.Backends.Generic.Timeout <= 0 {
		return fmt.Errorf("backends.generic.timeout must be positive")
	}

	for alias, lang := range cfg.Languages {
		if execute.Normalize(alias) == "" {
			return fmt.Errorf("languages: alias must not be empty")
		}
		switch lang.Backend {
		case execute.BackendRust:
		case execute.BackendGeneric:
			if lang.Language == "" {
				return fmt.Errorf("languages.%s: language is required for the generic backend", alias)
			}
		default:
			return fmt.Errorf("languages.%s: unknown backend %q (want %s or %s)",
				alias, lang.Backend, execute.BackendRust, execute.BackendGeneric)
		}
	}

	if cfg.Limits.MaxLines <= 0 {
		return fmt.Errorf("limits.max_lines must be positive")
	}
	if cfg.Limits.MaxChars <= 0 {
		return fmt.Errorf("limits.max_chars must be positive")
	}

	return nil
}

func checkUnresolved(field, value string) error {
	if matches := envVarPattern.FindStringSubmatch(value); len(matches) > 1 {
		return fmt.Errorf("%s: environment variable ${%s} is not set", field, matches[1])
	}
	return nil
}

// LanguageRoutes converts configured aliases into dispatcher routes.
func (c *Config) LanguageRoutes() map[string]execute.Route {
	routes := make(map[string]execute.Route, len(c.Languages))
	for alias, lang := range c.Languages {
		routes[alias] = execute.Route{Backend: lang.Backend, Language: lang.Language}
	}
	return routes
}

// ParseSize parses size strings like "1MB", "512KB" or "1048576" to bytes.
func ParseSize(size string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(size))
	multiplier := int64(1)

	switch {
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1024
		upper = strings.TrimSuffix(upper, "KB")
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1024 * 1024
		upper = strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "GB"):
		multiplier = 1024 * 1024 * 1024
		upper = strings.TrimSuffix(upper, "GB")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(upper), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result/multiplier != value {
		return 0, fmt.Errorf("size too large")
	}
	return result, nil
}
