package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values read from the config file.
const (
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvProxyURL            = "YTBOX_PROXY_URL"
	EnvWorkdir             = "YTBOX_WORKDIR"
	EnvDatabase            = "YTBOX_DATABASE"
	EnvPort                = "YTBOX_PORT"
	EnvLogLevel            = "YTBOX_LOG_LEVEL"
	EnvYTDLPPath           = "YTBOX_YTDLP_PATH"
	EnvSuccessURL          = "SUCCESS_URL"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Acquisition AcquisitionConfig `toml:"acquisition"`
	Lookup      LookupConfig      `toml:"lookup"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Creator     CreatorConfig     `toml:"creator"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify client credentials. Leaving either value empty disables the provider.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Enabled reports whether both halves of the client credential pair are present.
func (s SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// YouTubeConfig optionally points at a search proxy for YouTube lookups.
// Without one, search runs through yt-dlp.
type YouTubeConfig struct {
	ProxyURL string `toml:"proxy_url"`
}

// AcquisitionConfig controls audio extraction.
type AcquisitionConfig struct {
	AudioFormat  string `toml:"audio_format"`
	AudioQuality string `toml:"audio_quality"`
	YTDLPPath    string `toml:"ytdlp_path"`
	Workdir      string `toml:"workdir"`
}

// LookupConfig controls outbound search calls.
type LookupConfig struct {
	DefaultLimit   int     `toml:"default_limit"`
	RateLimit      float64 `toml:"rate_limit"`
	Burst          int     `toml:"burst"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout as a [time.Duration].
func (l LookupConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
}

// SessionTTL is the idle time after which a server session is reaped.
func (s ServerConfig) SessionTTL() time.Duration {
	if s.SessionTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

// CreatorConfig contains settings for the simulated creator mode.
type CreatorConfig struct {
	Currency      string  `toml:"currency"`
	SuccessURL    string  `toml:"success_url"`
	RatePerStream float64 `toml:"rate_per_stream"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Fields missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads the file at path when it exists and falls back to defaults otherwise.
// A .env file in the working directory is loaded first and the environment is then applied on top.
func ResolveConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		switch {
		case err == nil:
			config = loaded
		case !errors.Is(err, ErrMissingConfig):
			return nil, err
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overlays recognized environment variables onto config.
func ApplyEnv(config *Config) error {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString(&config.Credentials.Spotify.ClientID, EnvSpotifyClientID)
	setString(&config.Credentials.Spotify.ClientSecret, EnvSpotifyClientSecret)
	setString(&config.Credentials.YouTube.ProxyURL, EnvProxyURL)
	setString(&config.Acquisition.Workdir, EnvWorkdir)
	setString(&config.Acquisition.YTDLPPath, EnvYTDLPPath)
	setString(&config.Database.Path, EnvDatabase)
	setString(&config.Log.Level, EnvLogLevel)
	setString(&config.Creator.SuccessURL, EnvSuccessURL)

	if v, ok := os.LookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvPort, v)
		}
		config.Server.Port = port
	}
	return nil
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
