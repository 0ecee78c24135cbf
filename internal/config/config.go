package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Auth        AuthConfig
	Database    DatabaseConfig
	Persistence PersistenceConfig
	Redis       RedisConfig
	Notify      NotifyConfig
	CORS        CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
	SeedDemo bool
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// AdminIDs may sign in with the ADMIN role without an existing admin profile.
	AdminIDs []string
	// IdentitySecret and IdentityIssuer verify identity provider assertions
	// presented at sign-in.
	IdentitySecret string
	IdentityIssuer string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// PersistenceConfig controls snapshotting of the in-memory store.
type PersistenceConfig struct {
	Enabled  bool
	Schedule string
}

// RedisConfig holds the notification broker connection. An empty Addr
// disables Redis delivery.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NotifyConfig holds notification delivery settings.
type NotifyConfig struct {
	ChannelPrefix  string
	OutboxCapacity int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

const minProductionSecretLength = 16

// Load reads configuration from environment variables, after loading a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("JWT_SECRET", "estatehub-dev-secret")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ADMIN_IDS", "")
	v.SetDefault("IDENTITY_SECRET", "estatehub-dev-identity-secret")
	v.SetDefault("IDENTITY_ISSUER", "estatehub-identity")
	v.SetDefault("PERSISTENCE_ENABLED", false)
	v.SetDefault("SNAPSHOT_SCHEDULE", "@every 5m")
	v.SetDefault("DB_HOST", "host.docker.internal")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "estatehub")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NOTIFY_CHANNEL_PREFIX", "estatehub:notifications")
	v.SetDefault("OUTBOX_CAPACITY", 100)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
			SeedDemo: v.GetBool("SEED_DEMO_DATA"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
			AdminIDs:  splitList(v.GetString("ADMIN_IDS")),

			IdentitySecret: v.GetString("IDENTITY_SECRET"),
			IdentityIssuer: v.GetString("IDENTITY_ISSUER"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Persistence: PersistenceConfig{
			Enabled:  v.GetBool("PERSISTENCE_ENABLED"),
			Schedule: v.GetString("SNAPSHOT_SCHEDULE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Notify: NotifyConfig{
			ChannelPrefix:  v.GetString("NOTIFY_CHANNEL_PREFIX"),
			OutboxCapacity: v.GetInt("OUTBOX_CAPACITY"),
		},
		CORS: CORSConfig{
			Origins: splitList(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// Database settings are only checked when persistence is enabled.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Server.Env == "production" && len(c.Auth.JWTSecret) < minProductionSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes in production", minProductionSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be a positive duration")
	}
	if c.Auth.IdentitySecret == "" || c.Auth.IdentityIssuer == "" {
		return fmt.Errorf("IDENTITY_SECRET and IDENTITY_ISSUER are required")
	}
	if c.Server.Env == "production" && len(c.Auth.IdentitySecret) < minProductionSecretLength {
		return fmt.Errorf("IDENTITY_SECRET must be at least %d bytes in production", minProductionSecretLength)
	}
	if c.Auth.IdentitySecret == c.Auth.JWTSecret {
		return fmt.Errorf("IDENTITY_SECRET must differ from JWT_SECRET")
	}

	if c.Persistence.Enabled {
		if err := c.Database.validate(); err != nil {
			return err
		}
		if c.Persistence.Schedule == "" {
			return fmt.Errorf("SNAPSHOT_SCHEDULE is required when persistence is enabled")
		}
	}

	if c.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.Notify.OutboxCapacity < 1 {
		return fmt.Errorf("OUTBOX_CAPACITY must be at least 1")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

func (d DatabaseConfig) validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// splitList splits a comma-separated value into its trimmed, non-empty parts.
func splitList(value string) []string {
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
