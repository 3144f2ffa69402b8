package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port               string
	CatalogServiceURL  string
	APIKey             string
	Environment        string
	HTTPTimeoutSeconds int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		CatalogServiceURL:  getEnv("CATALOG_SERVICE_URL", "http://localhost:5000/api"),
		APIKey:             getEnv("API_KEY", ""),
		Environment:        getEnv("ENVIRONMENT", "development"),
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
