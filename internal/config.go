package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vaultgraph/internal/storage"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	return c.SQLite.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig describes the vault directory and how it is handled.
type VaultConfig struct {
	Path string `yaml:"path"`
	// Name defaults to the final segment of Path.
	Name      string `yaml:"name"`
	Watch     bool   `yaml:"watch"`
	CacheSize int    `yaml:"cache_size"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.CacheSize, validation.Required, validation.Min(1), validation.Max(1_000_000)),
	)
}

// StorageOptions converts the vault configuration into note store options.
func (c *VaultConfig) StorageOptions() []storage.Option {
	return []storage.Option{
		storage.WithName(c.Name),
		storage.WithWatch(c.Watch),
		storage.WithCacheSize(c.CacheSize),
	}
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path:      "./vault",
			CacheSize: storage.DefaultCacheSize,
		},
		SQLite: SQLiteConfig{
			Path: "./vaultgraph.db",
		},
	}
}
