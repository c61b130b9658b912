package config

import "time"

// Config represents the complete runbot configuration.
type Config struct {
	Service   ServiceConfig             `yaml:"service"`
	Gateway   GatewayConfig             `yaml:"gateway"`
	Backends  BackendsConfig            `yaml:"backends"`
	Languages map[string]LanguageConfig `yaml:"languages,omitempty"`
	Limits    LimitsConfig              `yaml:"limits"`

	// SourcePath is the absolute path of the loaded file, empty when the
	// configuration came from defaults and the environment only.
	SourcePath string `yaml:"-"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// GatewayConfig defines the interactions HTTP endpoint.
type GatewayConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`

	// PublicKey is the hex-encoded Ed25519 application public key.
	PublicKey string `yaml:"public_key"`

	// MaxBodySize accepts plain bytes or a KB/MB/GB suffix (default: 1MB).
	MaxBodySize string `yaml:"max_body_size"`

	// MaxBodyBytes is MaxBodySize parsed during validation.
	MaxBodyBytes int64 `yaml:"-"`
}

// BackendsConfig holds per-backend settings.
type BackendsConfig struct {
	Rust    RustBackendConfig    `yaml:"rust"`
	Generic GenericBackendConfig `yaml:"generic"`
}

// RustBackendConfig configures the Rust playground backend.
type RustBackendConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	Edition  string        `yaml:"edition"`
}

// GenericBackendConfig configures the multi-language backend.
type GenericBackendConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LanguageConfig maps an extra alias to a backend.
type LanguageConfig struct {
	Backend  string `yaml:"backend"`
	Language string `yaml:"language"`
}

// LimitsConfig bounds delivered output.
type LimitsConfig struct {
	MaxLines int `yaml:"max_lines"`
	MaxChars int `yaml:"max_chars"`
}

// Defaults returns a Config with default values.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "runbot",
			LogLevel: "info",
		},
		Gateway: GatewayConfig{
			Listen:      "0.0.0.0:8080",
			Path:        "/interactions",
			PublicKey:   "${" + PublicKeyEnv + "}",
			MaxBodySize: "1MB",
		},
		Backends: BackendsConfig{
			Rust: RustBackendConfig{
				Endpoint: "https://play.rust-lang.org/execute",
				Timeout:  15 * time.Second,
				Edition:  "2021",
			},
			Generic: GenericBackendConfig{
				Endpoint: "https://api2.sololearn.com/v2/codeplayground/v2/compile",
				Timeout:  15 * time.Second,
			},
		},
		Limits: LimitsConfig{
			MaxLines: 25,
			MaxChars: 2000,
		},
	}
}
