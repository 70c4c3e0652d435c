package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionSQLite = "sqlite"
)

// Analytics data sources.
const (
	AnalyticsRecords = "records"
	AnalyticsSummary = "summary"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend API
	BackendURL     string
	RequestTimeout time.Duration

	// Sessions
	SessionBackend    string
	SQLiteDBPath      string
	SessionCookieName string
	SessionTTL        time.Duration
	SecureCookies     bool

	// Analytics
	AnalyticsSource string

	// AMQP activity events, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string

	// Rate limiting
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		BackendURL:     getEnv("BACKEND_URL", "https://expensetracker-5c54.onrender.com"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		SessionBackend:    getEnv("SESSION_BACKEND", SessionMemory),
		SQLiteDBPath:      getEnv("SQLITE_DB_PATH", "./data/sessions.db"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "accessToken"),
		SessionTTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		SecureCookies:     getEnvBool("SECURE_COOKIES", false),

		AnalyticsSource: getEnv("ANALYTICS_SOURCE", AnalyticsRecords),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expensetracker"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if u, err := url.Parse(c.BackendURL); err != nil || c.BackendURL == "" {
		errors = append(errors, fmt.Sprintf("invalid backend URL '%s'", c.BackendURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid backend URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	} else if u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid backend URL '%s': missing host", c.BackendURL))
	}

	if c.RequestTimeout < 100*time.Millisecond || c.RequestTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be between 100ms and 2m", c.RequestTimeout))
	}

	validBackends := []string{SessionMemory, SessionSQLite}
	if !slices.Contains(validBackends, c.SessionBackend) {
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of %v", c.SessionBackend, validBackends))
	}
	if c.SessionBackend == SessionSQLite && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite session backend")
	}

	if c.SessionCookieName == "" || strings.ContainsAny(c.SessionCookieName, " ;,=\t") {
		errors = append(errors, fmt.Sprintf("invalid session cookie name '%s'", c.SessionCookieName))
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	validSources := []string{AnalyticsRecords, AnalyticsSummary}
	if !slices.Contains(validSources, c.AnalyticsSource) {
		errors = append(errors, fmt.Sprintf("invalid analytics source '%s': must be one of %v", c.AnalyticsSource, validSources))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
