package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
// It is constructed once in main and injected; nothing reads the environment
// after startup.
type Config struct {
	ServerPort string

	PostgresDSN string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret string

	// TariffTable maps a paid currency amount to granted credits, encoded
	// as "price:tokens,price:tokens". Empty means the built-in default.
	TariffTable string

	// AI provider settings for the assistant proxy.
	AIProvider      string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	DeepSeekAPIKey  string
	YandexAPIKey    string
	YandexFolderID  string
	GeminiAPIKey    string
	ProviderTimeout time.Duration
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		PostgresDSN:      getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=app port=5432 sslmode=disable"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		TariffTable:      os.Getenv("TARIFF_TABLE"),
		AIProvider:       getEnv("AI_PROVIDER", "openai"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		DeepSeekAPIKey:   os.Getenv("DEEPSEEK_API_KEY"),
		YandexAPIKey:     os.Getenv("YANDEX_API_KEY"),
		YandexFolderID:   os.Getenv("YANDEX_FOLDER_ID"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		ProviderTimeout:  getEnvDuration("AI_PROVIDER_TIMEOUT", 60*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
