package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	Operator   string
	LogLevel   string

	// Server
	Port string

	// Warehouse (PostgreSQL)
	PostgresDSN string

	// Extract archive (MongoDB). Optional: an empty URI disables the
	// raw-batch archive entirely.
	MongoURI string
	MongoDB  string

	// Scheduling provider
	ProviderBaseURL      string
	ProviderClientID     string
	ProviderClientSecret string

	// Load windows, in days around now
	RefreshDaysPast       int
	RefreshDaysFuture     int
	InitialLoadDaysPast   int
	InitialLoadDaysFuture int
}

// LoadConfig loads configuration from environment variables. When an
// operator is given, .env.<operator> is tried first so several operators
// can run side by side from one deployment.
func LoadConfig(operator string) (*Config, error) {
	if operator != "" {
		if err := godotenv.Load(".env." + operator); err != nil {
			godotenv.Load()
		}
	} else {
		godotenv.Load()
	}

	// Set defaults and override with env vars
	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		Operator:   getEnv("OPERATOR", operator),
		LogLevel:   getEnv("LOG_LEVEL", "INFO"),
		Port:       getEnv("PORT", "8080"),

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres dbname=skyfleet port=5432 sslmode=disable"),

		MongoURI: getEnv("MONGODB_DSN", ""),
		MongoDB:  getEnv("MONGO_DB", "skyfleet"),

		ProviderBaseURL:      getEnv("PROVIDER_BASE_URL", ""),
		ProviderClientID:     getEnv("PROVIDER_CLIENT_ID", ""),
		ProviderClientSecret: getEnv("PROVIDER_CLIENT_SECRET", ""),

		RefreshDaysPast:       getEnvAsInt("REFRESH_DAYS_PAST", 3),
		RefreshDaysFuture:     getEnvAsInt("REFRESH_DAYS_FUTURE", 10),
		InitialLoadDaysPast:   getEnvAsInt("INITIAL_LOAD_MONTHS_PAST", 2) * 30,
		InitialLoadDaysFuture: getEnvAsInt("INITIAL_LOAD_DAYS_FUTURE", 10),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
