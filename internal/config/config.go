/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment     string
	HTTPBind        string
	HTTPPort        int
	BaseURL         string // Public base URL (e.g., https://stories.example.com)
	SiteName        string
	DBBackend       DatabaseBackend
	DBDSN           string
	JWTSigningKey   string
	UploadDir       string // Root directory for gallery uploads
	MaxUploadSizeMB int    // Multipart upload limit for gallery handlers (MB)
	AutoMigrate     bool   // Run pending migrations on serve startup

	// SMTP fallbacks used when the email_config row is empty
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPTo       string
	SMTPUseTLS   bool

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:     getEnv("STORYHUB_ENV", "development"),
		HTTPBind:        getEnv("STORYHUB_HTTP_BIND", "0.0.0.0"),
		HTTPPort:        getEnvInt("STORYHUB_HTTP_PORT", 8080),
		BaseURL:         getEnv("STORYHUB_BASE_URL", "http://localhost:8080"),
		SiteName:        getEnv("STORYHUB_SITE_NAME", "Story Hub"),
		DBBackend:       DatabaseBackend(getEnv("STORYHUB_DB_BACKEND", string(DatabaseSQLite))),
		DBDSN:           getEnv("STORYHUB_DB_DSN", ""),
		JWTSigningKey:   getEnv("STORYHUB_JWT_SIGNING_KEY", ""),
		UploadDir:       getEnv("STORYHUB_UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB: getEnvInt("STORYHUB_MAX_UPLOAD_SIZE_MB", 16),
		AutoMigrate:     getEnvBool("STORYHUB_AUTO_MIGRATE", true),

		SMTPHost:     getEnvAny([]string{"STORYHUB_SMTP_HOST", "SMTP_HOST"}, ""),
		SMTPPort:     getEnvIntAny([]string{"STORYHUB_SMTP_PORT", "SMTP_PORT"}, 587),
		SMTPUsername: getEnvAny([]string{"STORYHUB_SMTP_USERNAME", "SMTP_USERNAME"}, ""),
		SMTPPassword: getEnvAny([]string{"STORYHUB_SMTP_PASSWORD", "SMTP_PASSWORD"}, ""),
		SMTPFrom:     getEnvAny([]string{"STORYHUB_SMTP_FROM", "SMTP_FROM"}, ""),
		SMTPTo:       getEnvAny([]string{"STORYHUB_SMTP_TO", "SMTP_TO"}, ""),
		SMTPUseTLS:   getEnvBoolAny([]string{"STORYHUB_SMTP_USE_TLS", "SMTP_USE_TLS"}, true),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		if cfg.DBBackend == DatabaseSQLite {
			cfg.DBDSN = "./storyhub.db"
		} else {
			return nil, fmt.Errorf("STORYHUB_DB_DSN must be provided for backend %s", cfg.DBBackend)
		}
	}

	if cfg.JWTSigningKey == "" {
		if strings.EqualFold(cfg.Environment, "production") {
			return nil, fmt.Errorf("STORYHUB_JWT_SIGNING_KEY must be provided in production")
		}
		cfg.JWTSigningKey = "storyhub-dev-secret"
	}

	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"ENVIRONMENT":     "use STORYHUB_ENV",
		"JWT_SIGNING_KEY": "use STORYHUB_JWT_SIGNING_KEY",
		"DATABASE_URL":    "use STORYHUB_DB_DSN",
		"UPLOAD_FOLDER":   "use STORYHUB_UPLOAD_DIR",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

// MaxUploadSizeBytes returns the configured upload limit in bytes.
func (c *Config) MaxUploadSizeBytes() int64 {
	if c == nil || c.MaxUploadSizeMB <= 0 {
		return 16 * 1024 * 1024
	}
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	return getEnvBoolAny([]string{key}, def)
}

// getEnvAny returns the first non-empty environment variable value from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvIntAny returns the first set integer environment variable value from keys, or def.
func getEnvIntAny(keys []string, def int) int {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return def
}

// getEnvBoolAny returns the first set boolean environment variable value from keys, or def.
func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}
