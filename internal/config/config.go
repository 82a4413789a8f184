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
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Identity     IdentityConfig
	Flowchart    FlowchartConfig
	Notification NotificationConfig
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
	// Format is "json" or "console".
	Format string
}

// IdentityConfig defines how the acting principal is determined.
type IdentityConfig struct {
	// PrincipalHeader names the request header carrying the externally
	// supplied username (set by the fronting proxy).
	PrincipalHeader string
	// DefaultPrincipal is used when no header is present, typically in
	// local development.
	DefaultPrincipal string
	// DefaultRoleID is the least-privileged role, assigned to unmatched
	// principals.
	DefaultRoleID int64
	// OverrideCookie names the cookie carrying the signed act-as token.
	OverrideCookie     string
	OverrideSecret     string
	OverrideTTLMinutes int
}

// FlowchartConfig tunes diagram rendering.
type FlowchartConfig struct {
	CacheTTLSeconds  int
	DefaultDirection string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
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
			Name:                  getEnv("APP_NAME", "ticket-workflow-service"),
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
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Identity: IdentityConfig{
			PrincipalHeader:    getEnv("IDENTITY_PRINCIPAL_HEADER", "X-Remote-User"),
			DefaultPrincipal:   getEnv("REMOTE_USER", ""),
			DefaultRoleID:      int64(getEnvAsInt("IDENTITY_DEFAULT_ROLE_ID", 1)),
			OverrideCookie:     getEnv("IDENTITY_OVERRIDE_COOKIE", "act_as"),
			OverrideSecret:     getEnv("IDENTITY_OVERRIDE_SECRET", "dev-secret"),
			OverrideTTLMinutes: getEnvAsInt("IDENTITY_OVERRIDE_TTL_MINUTES", 60),
		},
		Flowchart: FlowchartConfig{
			CacheTTLSeconds:  getEnvAsInt("FLOWCHART_CACHE_TTL_SECONDS", 60),
			DefaultDirection: getEnv("FLOWCHART_DIRECTION", "TD"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
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

// OverrideTTL returns the act-as token lifetime.
func (i IdentityConfig) OverrideTTL() time.Duration {
	if i.OverrideTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(i.OverrideTTLMinutes) * time.Minute
}

// CacheTTL returns the flowchart render cache lifetime.
func (f FlowchartConfig) CacheTTL() time.Duration {
	if f.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(f.CacheTTLSeconds) * time.Second
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
