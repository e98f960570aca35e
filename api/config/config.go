package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ModelProvider   string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	YouTubeAPIKey   string
	TranscriptLang  string
	Port            string
	DBPath          string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ModelProvider:  getEnv("MODEL_PROVIDER", "gemini"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-pro"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		YouTubeAPIKey:  getEnv("YOUTUBE_API_KEY", ""),
		TranscriptLang: getEnv("TRANSCRIPT_LANG", "en"),
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "./storage/instructai.db"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
