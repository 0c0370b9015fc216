// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"netsplit-ledger/pkg/db" // Import db package for its Config struct
)

// Storage backend identifiers.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string

	// Storage backend selection: memory, file or postgres.
	StorageBackend string
	StorageDir     string

	DB db.Config

	// AMQP event publishing (optional; disabled when URL is empty).
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// LoadConfig loads configuration from environment variables, with an
// optional .env file for local development.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load() // Missing .env is fine; env vars win anyway

	backend := getEnv("STORAGE_BACKEND", BackendMemory)
	switch backend {
	case BackendMemory, BackendFile, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %s", backend)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	return &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		StorageBackend: backend,
		StorageDir:     getEnv("STORAGE_DIR", "./data"),

		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "netsplitdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "netsplit"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),
	}, nil
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
