package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPushGatewayURL     = "https://exp.host/--/api/v2/push/send"
	defaultAutoCompleteWindow = 72 * time.Hour
	maxPushBatchSize          = 100
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	// DBSSLMode is passed through to lib/pq; hosted Postgres needs "require".
	DBSSLMode  string
	AppPort    string
	AppEnv     string

	// Scheduler credentials. Either one authorizes the reconciliation trigger.
	CronSecret     string
	ServiceRoleKey string

	JWTSecret string

	PushGatewayURL    string
	PushAccessToken   string
	PushWebhookSecret string
	PushBatchSize     int
	PushConcurrency   int

	AutoCompleteWindow time.Duration
	FanoutChunkSize    int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		AppPort:    getEnv("APP_PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "development"),

		CronSecret:     os.Getenv("CRON_SECRET"),
		ServiceRoleKey: os.Getenv("SERVICE_ROLE_KEY"),
		JWTSecret:      os.Getenv("JWT_SECRET"),

		PushGatewayURL:    getEnv("PUSH_GATEWAY_URL", defaultPushGatewayURL),
		PushAccessToken:   os.Getenv("PUSH_ACCESS_TOKEN"),
		PushWebhookSecret: os.Getenv("PUSH_WEBHOOK_SECRET"),
		PushBatchSize:     getEnvInt("PUSH_BATCH_SIZE", maxPushBatchSize),
		PushConcurrency:   getEnvInt("PUSH_CONCURRENCY", 4),

		AutoCompleteWindow: getEnvDuration("AUTO_COMPLETE_WINDOW", defaultAutoCompleteWindow),
		FanoutChunkSize:    getEnvInt("FANOUT_CHUNK_SIZE", 100),
	}

	// the gateway rejects requests carrying more than 100 messages
	if cfg.PushBatchSize <= 0 || cfg.PushBatchSize > maxPushBatchSize {
		cfg.PushBatchSize = maxPushBatchSize
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
