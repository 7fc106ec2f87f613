package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds engine configuration
type Config struct {
	// Environment ("development" or "production"), controls log encoding.
	Env string

	// Path to the sqlite database file backing the ledger store.
	DBPath string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:    getEnv("KASSA_ENV", "development"),
		DBPath: getEnv("KASSA_DB_PATH", "kassa.db"),
	}

	appConfig = config
	return config, nil
}

// Get returns the engine configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
