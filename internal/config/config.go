package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the service.
type Config struct {
	DatabaseURL        string
	HTTPAddr           string
	GenerateInterval   time.Duration
	Location           *time.Location
	LogLevel           string
	TelegramToken      string
	TelegramChatID     int64
	NotificationsReady bool
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		DatabaseURL:   getEnv("DATABASE_URL", "recurring_planner.db"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),
	}

	interval, err := parseMinutes(getEnv("GENERATE_INTERVAL_MINUTES", "15"))
	if err != nil {
		return cfg, fmt.Errorf("GENERATE_INTERVAL_MINUTES: %w", err)
	}
	cfg.GenerateInterval = interval

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if raw := getEnv("TELEGRAM_CHAT_ID", ""); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
		}
		cfg.TelegramChatID = chatID
	}
	cfg.NotificationsReady = cfg.TelegramToken != "" && cfg.TelegramChatID != 0

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseMinutes(raw string) (time.Duration, error) {
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be a whole number of minutes: %w", err)
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", minutes)
	}
	return time.Duration(minutes) * time.Minute, nil
}
