package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Cart store backends.
const (
	CartStoreCookie   = "cookie"
	CartStoreRedis    = "redis"
	CartStorePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Cart     CartConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	S3       S3Config
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// BackendConfig holds the product REST backend configuration.
type BackendConfig struct {
	BaseURL string
	// PublicURL is the browser-facing origin of the backend, used to build
	// thumbnail links. Defaults to BaseURL.
	PublicURL string
	Timeout   time.Duration
}

// CartConfig holds cart persistence and reconciliation configuration.
type CartConfig struct {
	Store             string // "cookie", "redis" or "postgres"
	CookieName        string
	CookiePath        string
	CookieMaxAge      int // seconds
	SessionCookieName string
	TTL               time.Duration
	// LookupConcurrency caps in-flight product lookups per reconciliation.
	// Zero means one goroutine per distinct product.
	LookupConcurrency int
}

// RedisConfig holds redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// S3Config holds AWS S3 configuration for product thumbnails.
type S3Config struct {
	Enabled       bool
	Bucket        string
	Region        string
	Prefix        string // Path prefix within bucket (e.g., "thumbnails/")
	PresignExpiry time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	backendURL := getEnv("BACKEND_URL", "http://localhost:4000")

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Backend: BackendConfig{
			BaseURL:   backendURL,
			PublicURL: getEnv("BACKEND_PUBLIC_URL", backendURL),
			Timeout:   getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		Cart: CartConfig{
			Store:             getEnv("CART_STORE", CartStoreCookie),
			CookieName:        getEnv("CART_COOKIE_NAME", "cart"),
			CookiePath:        "/",
			CookieMaxAge:      getEnvAsInt("CART_COOKIE_MAX_AGE", 30*24*60*60),
			SessionCookieName: getEnv("CART_SESSION_COOKIE", "sid"),
			TTL:               getEnvAsDuration("CART_TTL", 30*24*time.Hour),
			LookupConcurrency: getEnvAsInt("CART_LOOKUP_CONCURRENCY", 0),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		S3: S3Config{
			Enabled:       getEnvAsBool("S3_ENABLED", false),
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Prefix:        getEnv("S3_PREFIX", "thumbnails/"),
			PresignExpiry: getEnvAsDuration("S3_PRESIGN_EXPIRY", 15*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if err := c.Backend.validate(); err != nil {
		return err
	}

	if err := c.Cart.validate(); err != nil {
		return err
	}

	switch c.Cart.Store {
	case CartStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required when cart store is redis")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("invalid redis db: %d", c.Redis.DB)
		}
	case CartStorePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
		if c.S3.PresignExpiry <= 0 {
			return fmt.Errorf("S3 presign expiry must be positive")
		}
	}

	return nil
}

func (c *BackendConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("backend URL is required")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend URL: %s", c.BaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	return nil
}

func (c *CartConfig) validate() error {
	switch c.Store {
	case CartStoreCookie, CartStoreRedis, CartStorePostgres:
	default:
		return fmt.Errorf("invalid cart store: %s (must be cookie, redis, or postgres)", c.Store)
	}

	if c.CookieName == "" {
		return fmt.Errorf("cart cookie name is required")
	}

	if c.Store != CartStoreCookie && c.SessionCookieName == "" {
		return fmt.Errorf("session cookie name is required for server-side cart stores")
	}

	if c.LookupConcurrency < 0 {
		return fmt.Errorf("cart lookup concurrency cannot be negative")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
