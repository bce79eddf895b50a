package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Wizard draft persistence
	DraftBackend string // "redis", "dynamodb" or "memory"
	DraftTTL     time.Duration
	DraftTable   string

	// Submission endpoint the wizard posts to. Defaults to this API's own
	// /api/booking route when empty.
	SubmitEndpointURL string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Clinic notifications
	EmailProvider       string // "sendgrid", "ses" or "" (disabled)
	NotifyRecipients    []string
	UseMemoryQueue      bool
	NotifyQueueURL      string
	NotifyWorkerCount   int
	SendGridAPIKey      string
	NotifyFromEmail     string
	NotifyFromName      string
	ArchiveBucket       string
	AdminJWTSecret      string
	RateLimitPerSecond  int
	RateLimitBurst      int
	CORSAllowedOrigins  []string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DraftBackend: strings.ToLower(strings.TrimSpace(getEnv("DRAFT_BACKEND", "memory"))),
		DraftTTL:     getEnvAsDuration("DRAFT_TTL", 14*24*time.Hour),
		DraftTable:   getEnv("DRAFT_TABLE", "booking_drafts"),

		SubmitEndpointURL: getEnv("SUBMIT_ENDPOINT_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		EmailProvider:       strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		NotifyRecipients:    getEnvAsList("NOTIFY_RECIPIENTS", "info@wellvitas.co.uk"),
		UseMemoryQueue:      getEnvAsBool("USE_MEMORY_QUEUE", true),
		NotifyQueueURL:      getEnv("NOTIFY_QUEUE_URL", ""),
		NotifyWorkerCount:   getEnvAsInt("NOTIFY_WORKER_COUNT", 1),
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		NotifyFromEmail:     getEnv("NOTIFY_FROM_EMAIL", "bookings@wellvitas.co.uk"),
		NotifyFromName:      getEnv("NOTIFY_FROM_NAME", "Wellvitas Bookings"),
		ArchiveBucket:       getEnv("ARCHIVE_BUCKET", ""),
		AdminJWTSecret:      getEnv("ADMIN_JWT_SECRET", ""),
		RateLimitPerSecond:  getEnvAsInt("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:      getEnvAsInt("RATE_LIMIT_BURST", 20),
		CORSAllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", ""),
		AWSRegion:           getEnv("AWS_REGION", "eu-west-2"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
