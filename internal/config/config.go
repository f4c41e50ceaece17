package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Storage  StorageConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. The OTP code length and TTL
// are explicit configuration rather than UI-derived constants.
type AuthConfig struct {
	JWTSecret            string
	SessionTTLHours      int
	BcryptCost           int
	OTPCodeLength        int
	OTPCodeTTLSeconds    int
	ResetWindowMinutes   int
	ResetTokenTTLMinutes int
	OTPRequestsPerMinute int
}

// StorageConfig points at the external object-storage provider.
type StorageConfig struct {
	BaseURL        string
	Bucket         string
	TimeoutSeconds int
	SweepSeconds   int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "content-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTTLHours:      getEnvAsInt("AUTH_SESSION_TTL_HOURS", 12),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
			OTPCodeLength:        getEnvAsInt("AUTH_OTP_CODE_LENGTH", 6),
			OTPCodeTTLSeconds:    getEnvAsInt("AUTH_OTP_CODE_TTL_SECONDS", 90),
			ResetWindowMinutes:   getEnvAsInt("AUTH_RESET_WINDOW_MINUTES", 15),
			ResetTokenTTLMinutes: getEnvAsInt("AUTH_RESET_TOKEN_TTL_MINUTES", 30),
			OTPRequestsPerMinute: getEnvAsInt("AUTH_OTP_REQUESTS_PER_MINUTE", 3),
		},
		Storage: StorageConfig{
			BaseURL:        getEnv("STORAGE_BASE_URL", ""),
			Bucket:         getEnv("STORAGE_BUCKET", "content-media"),
			TimeoutSeconds: getEnvAsInt("STORAGE_TIMEOUT_SECONDS", 15),
			SweepSeconds:   getEnvAsInt("STORAGE_SWEEP_SECONDS", 300),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the session lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	if a.SessionTTLHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// OTPCodeTTL returns the one-time-code validity window.
func (a AuthConfig) OTPCodeTTL() time.Duration {
	if a.OTPCodeTTLSeconds <= 0 {
		return 90 * time.Second
	}
	return time.Duration(a.OTPCodeTTLSeconds) * time.Second
}

// ResetWindow returns how long a verified code keeps the reset flow open.
func (a AuthConfig) ResetWindow() time.Duration {
	if a.ResetWindowMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(a.ResetWindowMinutes) * time.Minute
}

// ResetTokenTTL returns the lifetime of single-use reset tokens.
func (a AuthConfig) ResetTokenTTL() time.Duration {
	if a.ResetTokenTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(a.ResetTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
