package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	MetricsEnabled     bool
	ShutdownTimeout    time.Duration

	// Lead delivery
	LeadWebhookURL   string
	LeadWebhookToken string
	LeadLogFile      string

	// Shared rate-limit backend; empty keeps counters in process memory.
	RateLimitRedisAddr string
	RedisPassword      string
	RedisTLS           bool

	// SendGrid lead alerts
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	LeadAlertEmail    string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                strings.ToLower(strings.TrimSpace(getEnv("ENV", getEnv("NODE_ENV", "development")))),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		LeadWebhookURL:   strings.TrimSpace(getEnv("LEAD_WEBHOOK_URL", "")),
		LeadWebhookToken: strings.TrimSpace(getEnv("LEAD_WEBHOOK_TOKEN", "")),
		LeadLogFile:      strings.TrimSpace(getEnv("LEAD_LOG_FILE", "")),

		RateLimitRedisAddr: strings.TrimSpace(getEnv("RATE_LIMIT_REDIS_ADDR", "")),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "DFW Design-Build Website"),
		LeadAlertEmail:    getEnv("LEAD_ALERT_EMAIL", ""),
	}
}

// IsProduction reports whether local-file lead delivery must be refused.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
