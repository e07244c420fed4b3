package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvGatewayURL overrides the configured gateway base URL when set.
const EnvGatewayURL = "TRAX_GATEWAY_URL"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Gateway  GatewayConfig  `toml:"gateway"`
	Storage  StorageConfig  `toml:"storage"`
	Feedback FeedbackConfig `toml:"feedback"`
}

// GatewayConfig contains settings for the remote music gateway.
type GatewayConfig struct {
	BaseURL string `toml:"base_url"`
}

// StorageConfig contains settings for the local credential database.
type StorageConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FeedbackConfig contains settings for the notification surface.
type FeedbackConfig struct {
	DismissMS int `toml:"dismiss_ms"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A TRAX_GATEWAY_URL environment variable takes precedence over the file's base URL.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyEnv(&config)
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	applyEnv(&config)
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func applyEnv(config *Config) {
	if url := os.Getenv(EnvGatewayURL); url != "" {
		config.Gateway.BaseURL = url
	}
}
