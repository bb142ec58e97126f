package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	LockLocal = "local"
	LockRedis = "redis"

	EnvProduction = "production"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Store      StoreConfig
	Lock       LockConfig
	Redis      RedisConfig
	Messaging  MessagingConfig
	Telemetry  TelemetryConfig
	CORS       CORSConfig
	Jobs       JobsConfig
	PolicyFile string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// AppConfig holds application configuration
type AppConfig struct {
	Name            string
	Version         string
	Port            int
	Env             string
	LogLevel        string
	Timezone        string
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Driver string // memory, postgres
}

// LockConfig selects the per-record lock. "redis" shares locks between
// replicas.
type LockConfig struct {
	Driver string // local, redis
	Wait   time.Duration
	TTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MessagingConfig struct {
	Enabled            bool
	Region             string
	Endpoint           string
	RecordQueueURL     string
	ViolationsQueueURL string
}

type TelemetryConfig struct {
	Exporter    string // none, stdout, otlp
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

type CORSConfig struct {
	AllowedOrigins []string
}

type JobsConfig struct {
	Enabled     bool
	Interval    time.Duration
	AbsenceHour int
}

// Load reads the environment, after loading .env when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using environment only")
	}

	var errs []error
	config := &Config{}

	config.App = AppConfig{
		Name:            getEnv("APP_NAME", "attendance-engine"),
		Version:         getEnv("APP_VERSION", "v1.0.0"),
		Port:            getEnvInt("APP_PORT", 8080, &errs),
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Timezone:        getEnv("APP_TIMEZONE", "UTC"),
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 5*time.Second, &errs),
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432, &errs),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25, &errs)),
		MinConns: int32(getEnvInt("DB_MIN_CONNS", 5, &errs)),
	}

	config.Store = StoreConfig{
		Driver: getEnv("STORE_DRIVER", StoreMemory),
	}

	config.Lock = LockConfig{
		Driver: getEnv("LOCK_DRIVER", LockLocal),
		Wait:   getEnvDuration("LOCK_WAIT", 2*time.Second, &errs),
		TTL:    getEnvDuration("LOCK_TTL", 10*time.Second, &errs),
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0, &errs),
	}

	config.Messaging = MessagingConfig{
		Enabled:            getEnvBool("MESSAGING_ENABLED", false, &errs),
		Region:             getEnv("AWS_REGION", "us-east-1"),
		Endpoint:           getEnv("AWS_ENDPOINT", ""),
		RecordQueueURL:     getEnv("RECORD_SQS_QUEUE_URL", ""),
		ViolationsQueueURL: getEnv("VIOLATIONS_SQS_QUEUE_URL", ""),
	}

	config.Telemetry = TelemetryConfig{
		Exporter:    getEnv("OTEL_EXPORTER", "none"),
		Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Insecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true, &errs),
		SampleRatio: getEnvFloat("OTEL_SAMPLE_RATIO", 1, &errs),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	config.Jobs = JobsConfig{
		Enabled:     getEnvBool("JOBS_ENABLED", true, &errs),
		Interval:    getEnvDuration("JOBS_INTERVAL", 15*time.Minute, &errs),
		AbsenceHour: getEnvInt("JOBS_ABSENCE_HOUR", 1, &errs),
	}

	config.PolicyFile = getEnv("POLICY_FILE", "")

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
		// the memory directory accepts any employee id
		if c.App.Env == EnvProduction {
			return fmt.Errorf("STORE_DRIVER %q is not allowed when APP_ENV is %q", StoreMemory, EnvProduction)
		}
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreMemory, StorePostgres)
	}

	switch c.Lock.Driver {
	case LockLocal, LockRedis:
	default:
		return fmt.Errorf("LOCK_DRIVER must be %q or %q", LockLocal, LockRedis)
	}
	if c.Lock.Wait <= 0 {
		return fmt.Errorf("LOCK_WAIT must be positive")
	}

	if c.Messaging.Enabled && c.Messaging.RecordQueueURL == "" && c.Messaging.ViolationsQueueURL == "" {
		return fmt.Errorf("RECORD_SQS_QUEUE_URL or VIOLATIONS_SQS_QUEUE_URL is required when messaging is enabled")
	}

	if c.Jobs.AbsenceHour < 0 || c.Jobs.AbsenceHour > 23 {
		return fmt.Errorf("JOBS_ABSENCE_HOUR must be between 0 and 23")
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the zone in which calendar days are reckoned.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
