package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the immutable process configuration. It is built once at startup
// from flags, environment variables (QUILL_ prefix), and an optional
// quill.yaml, then passed explicitly to every component that needs it.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Docs     DocsConfig     `yaml:"docs"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls the HTTP server behavior.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig controls the content store connection.
type DatabaseConfig struct {
	// DSN selects the backend: postgres:// for Postgres, mysql:// for MySQL,
	// anything else is treated as a SQLite file path (":memory:" works too).
	DSN string `yaml:"dsn"`
	// Seed inserts a welcome post and sample projects on first boot.
	Seed bool `yaml:"seed"`
}

// AuthConfig holds the single admin identity and token settings.
type AuthConfig struct {
	AdminUsername string        `yaml:"admin_username"`
	AdminPassword string        `yaml:"admin_password"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	// TurnstileSecret enables the login bot challenge when non-empty.
	TurnstileSecret string `yaml:"turnstile_secret"`
}

// DocsConfig controls the OpenAPI documentation endpoint. The path is
// deliberately unset by default: pick a non-guessable one for production.
type DocsConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SetDefaults registers the default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", "http://localhost:5173,http://localhost,http://127.0.0.1")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("database.dsn", "quill.db")
	v.SetDefault("database.seed", true)
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("docs.path", "")
	v.SetDefault("logging.level", "info")
}

// Load materializes a Config from the given viper instance.
func Load(v *viper.Viper) (*Config, error) {
	shutdown, err := time.ParseDuration(v.GetString("server.shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("parse server.shutdown_timeout: %w", err)
	}
	ttl, err := time.ParseDuration(v.GetString("auth.token_ttl"))
	if err != nil {
		return nil, fmt.Errorf("parse auth.token_ttl: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			CORSOrigins:     splitOrigins(v.GetString("server.cors_origins")),
			ShutdownTimeout: shutdown,
		},
		Database: DatabaseConfig{
			DSN:  v.GetString("database.dsn"),
			Seed: v.GetBool("database.seed"),
		},
		Auth: AuthConfig{
			AdminUsername:   v.GetString("auth.admin_username"),
			AdminPassword:   v.GetString("auth.admin_password"),
			JWTSecret:       v.GetString("auth.jwt_secret"),
			TokenTTL:        ttl,
			TurnstileSecret: v.GetString("auth.turnstile_secret"),
		},
		Docs: DocsConfig{
			Path: v.GetString("docs.path"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("logging.level"),
		},
	}
	return cfg, nil
}

// Validate checks the invariants that must hold before the process serves a
// single request. Violations are startup-fatal, never per-request errors.
func (c *Config) Validate() error {
	if c.Auth.AdminUsername == "" {
		return fmt.Errorf("auth.admin_username is required (QUILL_AUTH_ADMIN_USERNAME)")
	}
	if c.Auth.AdminPassword == "" {
		return fmt.Errorf("auth.admin_password is required (QUILL_AUTH_ADMIN_PASSWORD)")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (QUILL_AUTH_JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	return nil
}

// splitOrigins parses the comma-separated allowed-origins value, trimming
// whitespace and dropping empty entries.
func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
