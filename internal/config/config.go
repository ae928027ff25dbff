package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

// Config holds all application configuration
type Config struct {
	BotToken string
	BotMode  string
	Port     string
	Portal   PortalConfig
	Database DatabaseConfig
	// AuditRetentionDays is how long fetch outcomes are kept
	AuditRetentionDays int
}

// PortalConfig holds grade portal settings
type PortalConfig struct {
	BaseURL     string
	Timeout     time.Duration
	GradesTable string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Error is a configuration problem that must stop startup
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Key, e.Reason)
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		BotMode:  getEnv("BOT_MODE", ModeWebhook),
		Port:     getEnv("PORT", "8080"),
		Portal: PortalConfig{
			BaseURL:     os.Getenv("PORTAL_URL"),
			GradesTable: getEnv("PORTAL_GRADES_TABLE", "table#gradesTable"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "gradebot"),
			User:     getEnv("DB_USER", "gradebot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, &Error{Key: "BOT_TOKEN", Reason: "is required"}
	}
	if cfg.Portal.BaseURL == "" {
		return nil, &Error{Key: "PORTAL_URL", Reason: "is required"}
	}
	if cfg.BotMode != ModeWebhook && cfg.BotMode != ModePolling {
		return nil, &Error{Key: "BOT_MODE", Reason: "must be webhook or polling"}
	}

	if raw := os.Getenv("PORTAL_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			return nil, &Error{Key: "PORTAL_TIMEOUT", Reason: "must be a non-negative duration"}
		}
		cfg.Portal.Timeout = timeout
	}

	retention, err := strconv.Atoi(getEnv("AUDIT_RETENTION_DAYS", "30"))
	if err != nil || retention <= 0 {
		return nil, &Error{Key: "AUDIT_RETENTION_DAYS", Reason: "must be a positive integer"}
	}
	cfg.AuditRetentionDays = retention

	return cfg, nil
}

// AuditEnabled reports whether fetch outcomes go to PostgreSQL
func (c *Config) AuditEnabled() bool {
	return c.Database.Password != ""
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
