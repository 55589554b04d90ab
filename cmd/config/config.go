package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port        string
	CORSOrigins []string
	Env         string
	LogLevel    string

	// Database
	DBDriver       string
	DBURL          string
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// AI summary
	AIBaseURL       string
	AIAPIKey        string
	AIModel         string
	SummaryCurrency string

	// SMTP, optional
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

const (
	DefaultAIModel   = "google/gemma-3n-e2b-it:free"
	DefaultAIBaseURL = "https://openrouter.ai/api/v1"
	DefaultTokenTTL  = 5 * 24 * time.Hour
)

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("SERVER_PORT", "8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBURL:          getEnv("DB_URL", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", DefaultTokenTTL),

		AIBaseURL:       getEnv("AI_BASE_URL", DefaultAIBaseURL),
		AIAPIKey:        getEnv("OPENROUTER_API_KEY", ""),
		AIModel:         getEnv("AI_MODEL", DefaultAIModel),
		SummaryCurrency: getEnv("SUMMARY_CURRENCY", "₹"),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", ""),
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// Validate validates the configuration and returns every problem found at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("invalid database driver '%s': must be one of [postgres sqlite]", c.DBDriver))
	}
	if c.DBURL == "" {
		problems = append(problems, "DB_URL is required")
	}
	if c.DBMaxOpenConns < 1 {
		problems = append(problems, fmt.Sprintf("invalid max open connections %d: must be at least 1", c.DBMaxOpenConns))
	}
	if c.DBMaxIdleConns < 0 {
		problems = append(problems, fmt.Sprintf("invalid max idle connections %d: must not be negative", c.DBMaxIdleConns))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid token ttl %v: must be positive", c.TokenTTL))
	}

	if parsed, err := url.Parse(c.AIBaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid AI base URL '%s': %v", c.AIBaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid AI base URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	}
	if c.AIModel == "" {
		problems = append(problems, "AI_MODEL cannot be empty")
	}

	if c.MailEnabled() {
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			problems = append(problems, fmt.Sprintf("invalid SMTP port %d: must be between 1 and 65535", c.SMTPPort))
		}
		if c.SMTPFrom == "" && c.SMTPUser == "" {
			problems = append(problems, "either SMTP_FROM or SMTP_USER must be provided when SMTP_HOST is set")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
