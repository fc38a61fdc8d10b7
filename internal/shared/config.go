package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Service ServiceConfig `toml:"service"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
}

// ServiceConfig contains settings for the SongHop API.
type ServiceConfig struct {
	BaseURL string `toml:"base_url"`
	// LoginPath is the path on the service that starts the Spotify
	// authorization redirect.
	LoginPath string `toml:"login_path"`
	// RequestsPerSecond caps outgoing API calls. Zero disables the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// StorageConfig contains settings for local credential and state storage.
type StorageConfig struct {
	// Dir is the state directory (default ~/.songhop).
	Dir string `toml:"dir"`
	// CookieFile toggles the cookie-file medium. When disabled, secrets go
	// straight to the key-value fallback.
	CookieFile bool `toml:"cookie_file"`
	// DatabasePath is the sqlite database backing the key-value fallback.
	// ":memory:" is accepted for tests.
	DatabasePath string `toml:"database_path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local callback receiver.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StateDir returns the configured state directory, expanding the default
// when unset.
func (c *Config) StateDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return filepath.Join(os.Getenv("HOME"), ".songhop")
}

// CallbackAddr returns the listen address for the local callback server.
func (c *Config) CallbackAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// SaveConfig writes the configuration back to disk as TOML.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
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
