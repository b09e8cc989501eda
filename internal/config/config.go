package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
	Logging   LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig selects and configures the entity store backend
type StoreConfig struct {
	Driver string // "remote" or "postgres"
	Remote ServiceConfig
}

// ServiceConfig holds configuration for external services
type ServiceConfig struct {
	URL     string
	Timeout time.Duration
	APIKey  string
}

// DatabaseConfig holds database specific configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// LLMConfig holds configuration for the language model provider
type LLMConfig struct {
	Provider    string // "claude" or "gemini"
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// AuthConfig holds authentication specific configuration
type AuthConfig struct {
	JWTSecret  string
	CookieName string
}

// RedisConfig holds Redis specific configuration
type RedisConfig struct {
	Enabled   bool
	URL       string
	Password  string
	DB        int
	CacheTTL  time.Duration
	KeyPrefix string
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	Topic    string
	ClientID string
}

// RateLimitConfig bounds how often one client may trigger a generation
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables.
// A missing file is not an error; defaults and environment still apply.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Environment variables override, e.g. LLM_APIKEY or STORE_REMOTE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that have no usable default
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "remote":
		if c.Store.Remote.URL == "" {
			return errors.New("store.remote.url is required for the remote store")
		}
	case "postgres":
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwtSecret is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.LLM.Provider {
	case "claude", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "90s")
	v.SetDefault("server.idleTimeout", "120s")

	// Store defaults
	v.SetDefault("store.driver", "remote")
	v.SetDefault("store.remote.url", "http://localhost:8081/api")
	v.SetDefault("store.remote.timeout", "10s")
	v.SetDefault("store.remote.apiKey", "")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "dashboard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", "30m")
	v.SetDefault("database.connectTimeout", "1m")

	// LLM defaults
	v.SetDefault("llm.provider", "claude")
	v.SetDefault("llm.model", "claude-sonnet-4-20250514")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.maxTokens", 2048)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.timeout", "60s")

	// Auth defaults
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.cookieName", "access_token")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cacheTTL", "30s")
	v.SetDefault("redis.keyPrefix", "dashboard")

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "dashboard-events")
	v.SetDefault("kafka.clientID", "dashboard-service")

	// Rate limit defaults
	v.SetDefault("rateLimit.requestsPerMinute", 10)
	v.SetDefault("rateLimit.burst", 3)

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.serviceName", "dashboard-service")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
