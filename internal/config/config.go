package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey string
	DatabaseURL  string
	HTTPPort     string
	LogLevel     string
	PublicURL    string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:  getEnv("DATABASE_URL", "feedback_hub.db"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		PublicURL:    getEnv("PUBLIC_URL", ""),
	}

	if AppConfig.GeminiAPIKey == "" {
		// Not fatal: every analysis call degrades to the rating-based
		// fallback when no language-model key is configured.
		log.Println("GEMINI_API_KEY not set, AI analysis disabled (fallback scoring only)")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
