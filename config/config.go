// Package config loads application settings from environment variables.
package config

import (
	"fmt"
	"os"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	FrontendURL string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT configuration
	JWTSecret string

	// Groq provider configuration
	GroqAPIKey string
	GroqAPIURL string
	GroqModel  string
}

// LoadConfig creates a new Config instance with values from environment
// variables, applying development defaults where a value is optional.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnv("PORT", "3001"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "recetario"),
		DBSSLMode:   getEnv("DB_SSL_MODE", "disable"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
		GroqAPIURL:  getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that have no safe default. JWT_SECRET and
// GROQ_API_KEY are deliberately not required here: the auth service and
// generator report ConfigurationError at use time so the rest of the
// API stays reachable.
func Validate(cfg *Config) error {
	if cfg.ServerPort == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		return fmt.Errorf("DB_HOST, DB_PORT and DB_NAME are required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
