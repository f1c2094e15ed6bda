package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = "8080"
	defaultDatabaseURL     = "campuscollab.db"
	defaultRedisURL        = "redis://localhost:6379/0"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "720h"
	defaultLogLevel        = "info"
	defaultCleanupSchedule = "0 3 * * *"
	defaultRetention       = "720h"
)

const (
	BackendSQL   = "sql"
	BackendRedis = "redis"
)

type Config struct {
	AppEnv         string   `yaml:"app_env"`
	Port           string   `yaml:"port"`
	StorageBackend string   `yaml:"storage_backend"`
	DatabaseURL    string   `yaml:"database_url"`
	RedisURL       string   `yaml:"redis_url"`
	CORSOrigins    []string `yaml:"cors_allowed_origins"`
	KafkaBrokers   []string `yaml:"kafka_brokers"`
	LogLevel       string   `yaml:"log_level"`

	JWT           JWTConfig          `yaml:"jwt"`
	Notifications NotificationConfig `yaml:"notifications"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type NotificationConfig struct {
	CleanupCron string        `yaml:"cleanup_cron"`
	Retention   time.Duration `yaml:"retention"`
}

// Load builds the config from defaults, an optional YAML file named by
// CONFIG_FILE and finally the environment (.env included).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := defaults()
	if err != nil {
		return nil, err
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() (*Config, error) {
	jwtTTL, _ := time.ParseDuration(defaultJWTTTL)
	retention, _ := time.ParseDuration(defaultRetention)
	return &Config{
		AppEnv:         "dev",
		Port:           defaultPort,
		StorageBackend: BackendSQL,
		DatabaseURL:    defaultDatabaseURL,
		RedisURL:       defaultRedisURL,
		CORSOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		LogLevel:       defaultLogLevel,
		JWT:            JWTConfig{Secret: defaultJWTSecret, TTL: jwtTTL},
		Notifications:  NotificationConfig{CleanupCron: defaultCleanupSchedule, Retention: retention},
	}, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := firstEnv("APP_ENV", "ENV"); v != "" {
		cfg.AppEnv = v
	}
	cfg.AppEnv = strings.ToLower(cfg.AppEnv)

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", cfg.StorageBackend))
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.Notifications.CleanupCron = getEnv("NOTIFICATION_CLEANUP_CRON", cfg.Notifications.CleanupCron)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitList(v)
	}

	var err error
	if cfg.JWT.TTL, err = parseDurationEnv("JWT_TTL", cfg.JWT.TTL); err != nil {
		return err
	}
	if cfg.Notifications.Retention, err = parseDurationEnv("NOTIFICATION_RETENTION", cfg.Notifications.Retention); err != nil {
		return err
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.Notifications.Retention <= 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION must be > 0")
	}
	switch cfg.StorageBackend {
	case BackendSQL:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for the sql backend")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set for the redis backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: sql, redis")
	}

	if cfg.IsProdLike() && isEmptyOrDefault(cfg.JWT.Secret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

func getEnv(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}
