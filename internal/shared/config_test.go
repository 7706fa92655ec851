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

		if config.API.BaseURL != "https://vidhisahayak2004.pythonanywhere.com/api/v1" {
			t.Errorf("unexpected default base URL %s", config.API.BaseURL)
		}

		if config.API.ListLimit != 50 {
			t.Errorf("expected list limit 50, got %d", config.API.ListLimit)
		}

		if config.Session.Backend != SessionBackendDatabase {
			t.Errorf("expected database session backend, got %s", config.Session.Backend)
		}

		if config.Database.Path != "./vidhi.db" {
			t.Errorf("expected database path ./vidhi.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "127.0.0.1:3000" {
			t.Errorf("expected server addr 127.0.0.1:3000, got %s", config.Server.Addr())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
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

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
base_url = "http://localhost:8000/api/v1"
list_limit = 10

[session]
backend = "memory"

[server]
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://localhost:8000/api/v1" {
			t.Errorf("unexpected base URL %s", config.API.BaseURL)
		}
		if config.API.ListLimit != 10 {
			t.Errorf("expected list limit 10, got %d", config.API.ListLimit)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected omitted host to keep default, got %s", config.Server.Host)
		}
		if config.Database.Path != "./vidhi.db" {
			t.Errorf("expected omitted database path to keep default, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig rejects unknown session backend", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[session]\nbackend = \"cookie\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(BaseURLEnv, "http://127.0.0.1:9000")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.API.BaseURL != "http://127.0.0.1:9000" {
			t.Errorf("expected env override, got %s", config.API.BaseURL)
		}
	})
}
