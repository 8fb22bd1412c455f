// Package config loads the application configuration from environment
// variables.
package config

import "os"

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Client ClientConfig
	Store  StoreConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ClientConfig holds the synchronization client settings
type ClientConfig struct {
	BaseURL string
}

// StoreConfig holds the saved-dataset store settings
type StoreConfig struct {
	// Path is the sqlite database file; ":memory:" keeps the store
	// process-local, which is the default for development.
	Path string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "5000"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Client: ClientConfig{
			BaseURL: getEnvOrDefault("API_BASE_URL", "http://localhost:5000"),
		},
		Store: StoreConfig{
			Path: getEnvOrDefault("DATASET_DB_PATH", ":memory:"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
