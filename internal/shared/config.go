package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Downloads DownloadsConfig `toml:"downloads"`
	Database  DatabaseConfig  `toml:"database"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	OpenBrowser bool   `toml:"open_browser"`
}

// DownloadsConfig contains download pipeline settings.
type DownloadsConfig struct {
	Dir                string `toml:"dir"`
	Workers            int    `toml:"workers"`
	Retries            int    `toml:"retries"`
	AudioBitrate       string `toml:"audio_bitrate"`
	ProgressIntervalMS int    `toml:"progress_interval_ms"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Addr returns the host:port pair the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RootDir resolves the download root, falling back to the per-user music directory.
func (d DownloadsConfig) RootDir() string {
	if d.Dir != "" {
		return d.Dir
	}
	return DefaultMusicDir()
}

// ProgressInterval returns the minimum delay between progress writes per item.
func (d DownloadsConfig) ProgressInterval() time.Duration {
	if d.ProgressIntervalMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(d.ProgressIntervalMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
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

// DefaultMusicDir returns <home>/Music/YTMusicDownloader, falling back to the
// working directory when the home directory cannot be resolved.
func DefaultMusicDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "YTMusicDownloader"
	}
	return filepath.Join(home, "Music", "YTMusicDownloader")
}
