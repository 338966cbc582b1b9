package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string

	// SMTP settings for the email notification channel.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// SMS gateway (Infobip-compatible) settings.
	SMSBaseURL     string
	SMSAPIKey      string
	SMSSender      string
	SMSCountryCode string

	// External calendar service used for the availability check and
	// best-effort event creation.
	CalendarBaseURL  string
	CalendarID       string
	CalendarAPIKey   string
	CalendarTimeZone string

	// Student record sync (SIMS) service.
	SyncBaseURL string
	SyncAPIKey  string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "5000"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/clinic?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:  getEnv("JWT_SECRET", "change-me"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		SMSBaseURL:     os.Getenv("INFOBIP_BASE_URL"),
		SMSAPIKey:      os.Getenv("INFOBIP_API_KEY"),
		SMSSender:      os.Getenv("INFOBIP_SENDER"),
		SMSCountryCode: getEnv("SMS_COUNTRY_CODE", "+63"),

		CalendarBaseURL:  os.Getenv("CALENDAR_BASE_URL"),
		CalendarID:       os.Getenv("CALENDAR_ID"),
		CalendarAPIKey:   os.Getenv("CALENDAR_API_KEY"),
		CalendarTimeZone: getEnv("TIME_ZONE", "Asia/Manila"),

		SyncBaseURL: os.Getenv("SIMS_API_URL"),
		SyncAPIKey:  os.Getenv("SIMS_API_KEY"),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
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
