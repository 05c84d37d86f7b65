package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for catalogctl
type Config struct {
	API     APIConfig
	State   StateConfig
	Upload  UploadConfig
	Log     LogConfig
	Cache   CacheConfig
	Metrics MetricsConfig
	Tracing TracingConfig
	Storage StorageConfig
	Webhook WebhookConfig
	Sandbox SandboxConfig
}

// APIConfig holds admin API client configuration
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	RateLimit     float64 // requests per second, 0 disables
	Burst         int
}

// StateConfig holds the persisted client state location
type StateConfig struct {
	Path string
}

// UploadConfig holds client-side upload ceilings in bytes
type UploadConfig struct {
	MaxImageSize int64
	MaxVideoSize int64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string
	Format     string
	Output     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// CacheConfig holds lookup cache configuration
type CacheConfig struct {
	Backend string // memory, redis
	TTL     time.Duration
	Redis   RedisConfig
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MetricsConfig holds the metrics endpoint configuration
type MetricsConfig struct {
	Port int
}

// TracingConfig holds Jaeger configuration
type TracingConfig struct {
	ServiceName    string
	JaegerEndpoint string
}

// StorageConfig holds object storage configuration for bucket upload sources
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// WebhookConfig lists the endpoints told about finished upload batches
type WebhookConfig struct {
	URLs    []string
	Secret  string
	Timeout time.Duration
}

// SandboxConfig holds the local sandbox backend configuration
type SandboxConfig struct {
	Host          string
	Port          int
	SigningKey    string
	TokenTTL      time.Duration
	AdminLogin    string
	AdminPassword string
	MaxImageSize  int64
	MaxVideoSize  int64
	// RateLimit is requests per second per client; zero disables it
	RateLimit float64
	Burst     int
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return unmarshal(v)
}

// LoadOptional behaves like Load but falls back to defaults and environment
// when configPath does not exist.
func LoadOptional(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	return unmarshal(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// DefaultStatePath returns the per-user state file location
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "catalogctl", "state.json")
}

func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.baseURL", "http://localhost:8080/admin")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.uploadTimeout", "30m")
	v.SetDefault("api.rateLimit", 0)
	v.SetDefault("api.burst", 5)

	// State defaults
	v.SetDefault("state.path", DefaultStatePath())

	// Upload defaults
	v.SetDefault("upload.maxImageSize", 10*1024*1024)  // 10MB
	v.SetDefault("upload.maxVideoSize", 500*1024*1024) // 500MB

	// Log defaults
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.maxSizeMB", 10)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAgeDays", 28)
	v.SetDefault("log.compress", false)

	// Cache defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	// Metrics and tracing defaults
	v.SetDefault("metrics.port", 0)
	v.SetDefault("tracing.serviceName", "catalogctl")
	v.SetDefault("tracing.jaegerEndpoint", "")

	// Storage defaults
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.accessKeyID", "minioadmin")
	v.SetDefault("storage.secretAccessKey", "minioadmin")
	v.SetDefault("storage.bucketName", "media")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.useSSL", false)

	// Webhook defaults
	v.SetDefault("webhook.urls", []string{})
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.timeout", "10s")

	// Sandbox defaults
	v.SetDefault("sandbox.host", "127.0.0.1")
	v.SetDefault("sandbox.port", 8080)
	v.SetDefault("sandbox.signingKey", "sandbox-signing-key")
	v.SetDefault("sandbox.tokenTTL", "12h")
	v.SetDefault("sandbox.adminLogin", "admin")
	v.SetDefault("sandbox.adminPassword", "admin")
	v.SetDefault("sandbox.maxImageSize", 20*1024*1024)
	v.SetDefault("sandbox.maxVideoSize", 500*1024*1024)
	v.SetDefault("sandbox.rateLimit", 0)
	v.SetDefault("sandbox.burst", 20)
}
