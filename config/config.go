package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port string

	// Messenger webhook configuration
	VerifyToken     string
	PageAccessToken string

	// Delegated generation (Ollama-compatible chat endpoint)
	GenerateURL     string
	ModelName       string
	GenerateTimeout time.Duration

	// Knowledge base root; country data lives in DataPath/<cc>/
	DataPath string

	// Session lifecycle
	InactivityTimeout time.Duration
	SweepInterval     time.Duration

	// Append-only training and audit streams
	LogDir string

	// Optional transcript archive; disabled when MongoURI is empty
	MongoURI     string
	DatabaseName string
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		VerifyToken:       getEnv("WEBHOOK_VERIFY_TOKEN", "webhook_verify_token"),
		PageAccessToken:   getEnv("PAGE_ACCESS_TOKEN", ""),
		GenerateURL:       getEnv("GENERATE_URL", "http://127.0.0.1:11434/api/chat"),
		ModelName:         getEnv("MODEL_NAME", "mistral"),
		GenerateTimeout:   getDuration("GENERATE_TIMEOUT_SECONDS", 30*time.Second),
		DataPath:          getEnv("DATA_PATH", "data"),
		InactivityTimeout: getDuration("INACTIVITY_TIMEOUT_SECONDS", 5*time.Minute),
		SweepInterval:     getDuration("SWEEP_INTERVAL_SECONDS", 10*time.Minute),
		LogDir:            getEnv("LOG_DIR", "logs"),
		MongoURI:          getEnv("MONGO_URI", ""),
		DatabaseName:      getEnv("MONGO_DB_NAME", "faq_bot"),
	}

	if cfg.PageAccessToken == "" {
		slog.Warn("PAGE_ACCESS_TOKEN not set; Messenger delivery will fail")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		slog.Warn("Invalid duration value, using default", "key", key, "value", value)
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
