package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Gateway.BaseURL != "http://localhost:8000" {
			t.Errorf("expected gateway base URL http://localhost:8000, got %s", config.Gateway.BaseURL)
		}

		if config.Storage.Path != "trax.db" {
			t.Errorf("expected storage path trax.db, got %s", config.Storage.Path)
		}

		if config.Feedback.DismissMS != 2200 {
			t.Errorf("expected dismiss delay 2200ms, got %d", config.Feedback.DismissMS)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Gateway.BaseURL != defaultConfig.Gateway.BaseURL {
			t.Errorf("created config gateway URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[gateway]
base_url = "https://gateway.example.com"

[storage]
path = "/custom/trax.db"
max_open_conns = 4
max_idle_conns = 2

[feedback]
dismiss_ms = 1000
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Gateway.BaseURL != "https://gateway.example.com" {
			t.Errorf("expected gateway URL https://gateway.example.com, got %s", config.Gateway.BaseURL)
		}

		if config.Storage.Path != "/custom/trax.db" {
			t.Errorf("expected storage path /custom/trax.db, got %s", config.Storage.Path)
		}

		if config.Feedback.DismissMS != 1000 {
			t.Errorf("expected dismiss delay 1000ms, got %d", config.Feedback.DismissMS)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))

		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Environment Override", func(t *testing.T) {
		t.Setenv(EnvGatewayURL, "https://override.example.com")

		config := DefaultConfig()
		if config.Gateway.BaseURL != "https://override.example.com" {
			t.Errorf("expected env override, got %s", config.Gateway.BaseURL)
		}
	})
}
