// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for the lookup cache.
type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetLookupCacheTTL() time.Duration
	IsRedisEnabled() bool
}

// MailConfig provides settings for notification emails.
type MailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetMailFromName() string
	GetMailFromAddress() string
	IsMailEnabled() bool
}

// LeadsConfig provides settings for the leads module.
type LeadsConfig interface {
	GetBoardSessionTTL() time.Duration
	GetImportMaxRows() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	JWTAccessSecret string
	CORSAllowAll    bool
	CORSOrigins     []string
	CORSAllowCreds  bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LookupCacheTTL  time.Duration
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	MailFromName    string
	MailFromAddress string
	MailEnabled     bool
	BoardSessionTTL time.Duration
	ImportMaxRows   int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisAddr() string             { return c.RedisAddr }
func (c *Config) GetRedisPassword() string         { return c.RedisPassword }
func (c *Config) GetRedisDB() int                  { return c.RedisDB }
func (c *Config) GetLookupCacheTTL() time.Duration { return c.LookupCacheTTL }
func (c *Config) IsRedisEnabled() bool             { return c.RedisAddr != "" }

// MailConfig implementation
func (c *Config) GetSMTPHost() string        { return c.SMTPHost }
func (c *Config) GetSMTPPort() int           { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string    { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string    { return c.SMTPPassword }
func (c *Config) GetMailFromName() string    { return c.MailFromName }
func (c *Config) GetMailFromAddress() string { return c.MailFromAddress }
func (c *Config) IsMailEnabled() bool        { return c.MailEnabled && c.SMTPHost != "" }

// LeadsConfig implementation
func (c *Config) GetBoardSessionTTL() time.Duration { return c.BoardSessionTTL }
func (c *Config) GetImportMaxRows() int             { return c.ImportMaxRows }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTAccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		CORSAllowCreds:  strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         mustInt(getEnv("REDIS_DB", "0")),
		LookupCacheTTL:  mustDuration(getEnv("LOOKUP_CACHE_TTL", "5m")),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		MailFromName:    getEnv("MAIL_FROM_NAME", "Safari CRM"),
		MailFromAddress: getEnv("MAIL_FROM_ADDRESS", ""),
		MailEnabled:     strings.EqualFold(getEnv("MAIL_ENABLED", "true"), "true"),
		BoardSessionTTL: mustDuration(getEnv("BOARD_SESSION_TTL", "30m")),
		ImportMaxRows:   mustInt(getEnv("IMPORT_MAX_ROWS", "1000")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func mustDuration(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
