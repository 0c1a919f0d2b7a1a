// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"outscale-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Catalog contains catalog import configuration
	Catalog CatalogConfig `json:"catalog"`

	// Database contains persistence configuration
	Database DatabaseConfig `json:"database"`

	// API contains HTTP API configuration
	API APIConfig `json:"api"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CatalogConfig contains catalog import settings
type CatalogConfig struct {
	// PricesURL is the location of the vendor price sheet
	PricesURL string `json:"prices_url"`

	// HoursPerMonth converts hourly rates to monthly costs
	HoursPerMonth float64 `json:"hours_per_month"`

	// Regions is a regex restricting enabled regions, ".*" for all
	Regions string `json:"regions"`

	// InstanceTypes is a regex restricting enabled instance type codes
	InstanceTypes string `json:"instance_types"`

	// OS is a regex restricting enabled operating systems
	OS string `json:"os"`
}

// DatabaseConfig contains persistence settings
type DatabaseConfig struct {
	// Driver selects the store backend (postgres, memory)
	Driver string `json:"driver"`

	// DSN is the database connection string
	DSN string `json:"dsn,omitempty"`
}

// APIConfig contains HTTP API settings
type APIConfig struct {
	// Address to listen on
	Address string `json:"address"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			PricesURL:     "https://en.outscale.com/pricing/outscale-prices.csv",
			HoursPerMonth: 730,
			Regions:       ".*",
			InstanceTypes: ".*",
			OS:            ".*",
		},
		Database: DatabaseConfig{
			Driver: "memory",
		},
		API: APIConfig{
			Address: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
