package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Persistence. DatabaseURL switches the backing store from the local
	// JSON file to postgres when set.
	DataDir     string
	DatabaseURL string
	StoreTable  string

	// Generation collaborator
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIImgModel  string
	GenerateTimeout time.Duration

	// Export
	ExportImageTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		DataDir:     getEnv("DATA_DIR", "data"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		StoreTable:  getEnv("STORE_TABLE", "pitch_store"),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4"),
		OpenAIImgModel:  getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		GenerateTimeout: getDuration("GENERATE_TIMEOUT_SECONDS", 120),

		ExportImageTimeout: getDuration("EXPORT_IMAGE_TIMEOUT_SECONDS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
