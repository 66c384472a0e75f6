// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-default-secret-key"

type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	Env       string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty means the client IP is always the peer address.
	TrustedProxies  []string
}

type JWTConfig struct {
	Secret     string
	TTL        time.Duration
	BcryptCost int
}

// RedisConfig points at the rate limiter backend. An empty URL disables rate limiting.
type RedisConfig struct {
	URL string
}

type RateLimitConfig struct {
	// Requests per minute allowed on the session endpoint.
	Auth int
}

type LoggingConfig struct {
	Level string
}

var keys = []string{
	"ENVIRONMENT",
	"SERVER_PORT", "SERVER_SHUTDOWN_TIMEOUT", "TRUSTED_PROXIES",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"JWT_SECRET", "JWT_TTL", "BCRYPT_COST",
	"REDIS_URL", "RATE_LIMIT_AUTH",
	"LOG_LEVEL",
}

func LoadConfig() (*Config, error) {
	// Values already present in the environment take precedence over .env
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			TrustedProxies:  splitList(v.GetString("TRUSTED_PROXIES")),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			TTL:        v.GetDuration("JWT_TTL"),
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		RateLimit: RateLimitConfig{
			Auth: v.GetInt("RATE_LIMIT_AUTH"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Env: v.GetString("ENVIRONMENT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "tasks")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute)

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("BCRYPT_COST", 8)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_LIMIT_AUTH", 60)

	v.SetDefault("LOG_LEVEL", "info")
}

// splitList parses a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("SERVER_PORT is required")
	}
	for _, proxy := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			return fmt.Errorf("TRUSTED_PROXIES: invalid IP or CIDR %q", proxy)
		}
	}
	if c.Database.DBName == "" {
		return errors.New("DB_NAME is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if !c.IsDevelopment() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set outside development")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.JWT.BcryptCost < 4 || c.JWT.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.JWT.BcryptCost)
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr is the listen address for the HTTP server.
func (c Config) ServerAddr() string {
	return fmt.Sprintf(":%s", c.Server.Port)
}
