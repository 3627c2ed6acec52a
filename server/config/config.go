package config

import (
	"os"

	"github.com/gear6io/glacier/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultStoreTable is the store table used when none is configured.
const DefaultStoreTable = "iceberg"

// Config represents the server configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`      // "json" or "console"
	FilePath   string `yaml:"file_path"`   // Path to log file
	Console    bool   `yaml:"console"`     // Whether to log to console
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB
	MaxBackups int    `yaml:"max_backups"` // Max number of backup files
	MaxAge     int    `yaml:"max_age"`     // Max age in days
	Cleanup    bool   `yaml:"cleanup"`     // Whether to cleanup log file on startup
}

// CatalogConfig represents catalog configuration
type CatalogConfig struct {
	Name      string    `yaml:"name"`
	Store     string    `yaml:"store"`      // "dynamodb" or "memory"
	TableName string    `yaml:"table_name"` // store table holding catalog records
	Warehouse string    `yaml:"warehouse"`  // default base location for new tables
	AWS       AWSConfig `yaml:"aws"`
}

// AWSConfig carries connection overrides for the DynamoDB store. Empty
// fields fall through to the SDK's default credential and region chain.
type AWSConfig struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Profile         string `yaml:"profile"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			FilePath:   "logs/glacier-server.log",
			Console:    true,
			MaxSize:    100, // 100MB
			MaxBackups: 3,
			MaxAge:     7, // 7 days
			Cleanup:    true,
		},
		Catalog: CatalogConfig{
			Name:      "glacier",
			Store:     "memory",
			TableName: DefaultStoreTable,
			Warehouse: "file://./warehouse",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return errors.New(ErrCatalogValidationFailed, "catalog validation failed", err)
	}
	return nil
}

// Validate validates the catalog configuration
func (c *CatalogConfig) Validate() error {
	switch c.Store {
	case "":
		return errors.New(ErrCatalogStoreRequired, "catalog store is required", nil)
	case "dynamodb", "memory":
	default:
		return errors.New(ErrCatalogStoreUnknown, "unknown catalog store", nil).
			AddContext("store", c.Store)
	}
	if c.Name == "" {
		return errors.New(ErrCatalogNameRequired, "catalog name is required", nil)
	}
	return nil
}

// GetCatalogName returns the configured catalog name
func (c *Config) GetCatalogName() string {
	return c.Catalog.Name
}

// GetStoreTable returns the store table name, falling back to the default
func (c *Config) GetStoreTable() string {
	if c.Catalog.TableName == "" {
		return DefaultStoreTable
	}
	return c.Catalog.TableName
}

// GetWarehouse returns the default warehouse location
func (c *Config) GetWarehouse() string {
	return c.Catalog.Warehouse
}
