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

		if config.Database.Path != "./ytbox.db" {
			t.Errorf("expected database path ./ytbox.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.Acquisition.AudioFormat != "mp3" || config.Acquisition.AudioQuality != "192K" {
			t.Errorf("unexpected acquisition defaults %+v", config.Acquisition)
		}
		if config.Credentials.Spotify.Enabled() {
			t.Error("spotify should be disabled without credentials")
		}
		if config.Lookup.DefaultLimit != 10 {
			t.Errorf("expected default limit 10, got %d", config.Lookup.DefaultLimit)
		}
		if config.Credentials.YouTube.ProxyURL != "" {
			t.Errorf("expected no search proxy by default, got %s", config.Credentials.YouTube.ProxyURL)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
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

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[server]
port = 8080

[credentials.spotify]
client_id = "id"
client_secret = "secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected default host, got %s", config.Server.Host)
		}
		if !config.Credentials.Spotify.Enabled() {
			t.Error("spotify should be enabled")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig malformed", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.toml")
		os.WriteFile(configPath, []byte("[server\nport ="), 0644)
		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvSpotifyClientID, "env-id")
		t.Setenv(EnvSpotifyClientSecret, "env-secret")
		t.Setenv(EnvPort, "9999")
		t.Setenv(EnvWorkdir, "/tmp/ytbox")
		t.Setenv(EnvProxyURL, "http://127.0.0.1:9000")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if config.Credentials.Spotify.ClientID != "env-id" || !config.Credentials.Spotify.Enabled() {
			t.Errorf("spotify credentials not applied: %+v", config.Credentials.Spotify)
		}
		if config.Server.Port != 9999 {
			t.Errorf("expected port 9999, got %d", config.Server.Port)
		}
		if config.Acquisition.Workdir != "/tmp/ytbox" {
			t.Errorf("expected workdir override, got %s", config.Acquisition.Workdir)
		}
		if config.Credentials.YouTube.ProxyURL != "http://127.0.0.1:9000" {
			t.Errorf("expected proxy override, got %s", config.Credentials.YouTube.ProxyURL)
		}
	})

	t.Run("ApplyEnv bad port", func(t *testing.T) {
		t.Setenv(EnvPort, "abc")
		if err := ApplyEnv(DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ResolveConfig without file", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "debug")
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("ResolveConfig() error = %v", err)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level, got %s", config.Log.Level)
		}
	})
}
