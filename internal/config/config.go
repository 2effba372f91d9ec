package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Notification queue backends
const (
	QueueMemory = "memory"
	QueueRedis  = "redis"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port          string        `yaml:"port" env:"SERVER_PORT"`
		Mode          string        `yaml:"mode" env:"SERVER_MODE"`
		PublicBaseURL string        `yaml:"public_base_url" env:"SERVER_PUBLIC_BASE_URL"`
		ReadTimeout   time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout  time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		MaxUploadMB   int           `yaml:"max_upload_mb" env:"SERVER_MAX_UPLOAD_MB"`
		CORSOrigins   []string      `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Storage struct {
		Backend      string `yaml:"backend" env:"STORAGE_BACKEND"`
		Root         string `yaml:"root" env:"STORAGE_ROOT"`
		PublicPrefix string `yaml:"public_prefix" env:"STORAGE_PUBLIC_PREFIX"`
		S3Endpoint   string `yaml:"s3_endpoint" env:"STORAGE_S3_ENDPOINT"`
		S3AccessKey  string `yaml:"s3_access_key" env:"STORAGE_S3_ACCESS_KEY"`
		S3SecretKey  string `yaml:"s3_secret_key" env:"STORAGE_S3_SECRET_KEY"`
		S3Bucket     string `yaml:"s3_bucket" env:"STORAGE_S3_BUCKET"`
		S3Region     string `yaml:"s3_region" env:"STORAGE_S3_REGION"`
		S3UseSSL     bool   `yaml:"s3_use_ssl" env:"STORAGE_S3_USE_SSL"`
	} `yaml:"storage"`

	Notifications struct {
		Queue       string `yaml:"queue" env:"NOTIFY_QUEUE"`
		RedisURL    string `yaml:"redis_url" env:"NOTIFY_REDIS_URL"`
		QueueKey    string `yaml:"queue_key" env:"NOTIFY_QUEUE_KEY"`
		Buffer      int    `yaml:"buffer" env:"NOTIFY_BUFFER"`
		Workers     int    `yaml:"workers" env:"NOTIFY_WORKERS"`
		AdminEmail  string `yaml:"admin_email" env:"NOTIFY_ADMIN_EMAIL"`
		SiteURL     string `yaml:"site_url" env:"NOTIFY_SITE_URL"`
		MaxAttempts int    `yaml:"max_attempts" env:"NOTIFY_MAX_ATTEMPTS"`
	} `yaml:"notifications"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine; defaults plus env can carry a full config.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.PublicBaseURL = "http://localhost:8080"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 60 * time.Second
	config.Server.MaxUploadMB = 32

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "sesi"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "sesi.co.in"

	config.Storage.Backend = StorageLocal
	config.Storage.Root = "uploads"
	config.Storage.PublicPrefix = "/uploads"
	config.Storage.S3Region = "us-east-1"

	config.Notifications.Queue = QueueMemory
	config.Notifications.QueueKey = "sesi:notifications"
	config.Notifications.Buffer = 256
	config.Notifications.Workers = 2
	config.Notifications.AdminEmail = "admin@sesi.co.in"
	config.Notifications.SiteURL = "https://sesi.co.in"
	config.Notifications.MaxAttempts = 3

	config.SMTP.Port = 587
	config.SMTP.FromName = "Shoulder & Elbow Society of India"
	config.SMTP.FromEmail = "no-reply@sesi.co.in"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"

	config.Seed.AdminEmail = "admin@sesi.co.in"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	switch config.Storage.Backend {
	case StorageLocal:
		if config.Storage.Root == "" {
			return fmt.Errorf("storage root is required for the local backend")
		}
	case StorageS3:
		if config.Storage.S3Endpoint == "" || config.Storage.S3Bucket == "" ||
			config.Storage.S3AccessKey == "" || config.Storage.S3SecretKey == "" {
			return fmt.Errorf("s3 storage requires endpoint, bucket, access key and secret key")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}

	if !strings.HasPrefix(config.Storage.PublicPrefix, "/") {
		return fmt.Errorf("storage public prefix must start with /")
	}

	switch config.Notifications.Queue {
	case QueueMemory:
	case QueueRedis:
		if config.Notifications.RedisURL == "" {
			return fmt.Errorf("redis url is required for the redis notification queue")
		}
	default:
		return fmt.Errorf("unknown notification queue %q", config.Notifications.Queue)
	}

	if config.Notifications.Workers < 1 {
		return fmt.Errorf("notification workers must be at least 1")
	}

	return nil
}

// AccessTokenTTL returns the parsed JWT lifetime. validateConfig guarantees it parses.
func (c *Config) AccessTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.AccessTokenExpiration)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// IsProduction reports whether gin should run in release mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
