package config

import (
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	Lifecycle LifecycleConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	FeedLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JWTSecret        string
	TokenTTL         time.Duration
	LoginAttemptsMin int // per email, per minute
}

type LifecycleConfig struct {
	Timezone  string
	TrialDays int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			FeedLogFilePath:    getEnv("FEED_LOG_FILE_PATH", "logs/checkin_feed.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "GymFlow"),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			TokenTTL:         time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
			LoginAttemptsMin: getEnvAsInt("LOGIN_ATTEMPTS_PER_MINUTE", 5),
		},
		Lifecycle: LifecycleConfig{
			Timezone:  getEnv("GYM_TIMEZONE", "UTC"),
			TrialDays: getEnvAsInt("OWNER_TRIAL_DAYS", 60),
		},
	}
}

// Location resolves the configured gym timezone, falling back to UTC.
func (c LifecycleConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[WARN] Unknown GYM_TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
