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
	Auth         AuthConfig
	Advisor      AdvisorConfig
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
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// AdvisorConfig points at the suggestion backend. An empty APIKey
// disables the remote call and the rule-based fallback is used.
type AdvisorConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	TimeoutSeconds  int
	CacheTTLMinutes int
}

// NotificationConfig selects and configures delivery channels.
type NotificationConfig struct {
	EmailEnabled   bool
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	EmailFrom      string
	WebhookEnabled bool
	WebhookURL     string
	SMSEnabled     bool
	SMSAPIURL      string
	SMSAPIKey      string
	MaxAttempts    int
	BackoffSeconds int
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
			Name:                  getEnv("APP_NAME", "campus-helpdesk"),
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
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 30),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Advisor: AdvisorConfig{
			BaseURL:         getEnv("ADVISOR_BASE_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:          os.Getenv("ADVISOR_API_KEY"),
			Model:           getEnv("ADVISOR_MODEL", "gpt-3.5-turbo"),
			TimeoutSeconds:  getEnvAsInt("ADVISOR_TIMEOUT_SECONDS", 5),
			CacheTTLMinutes: getEnvAsInt("ADVISOR_CACHE_TTL_MINUTES", 60),
		},
		Notification: NotificationConfig{
			EmailEnabled:   getEnvAsBool("NOTIFY_EMAIL_ENABLED", false),
			SMTPHost:       getEnv("NOTIFY_SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:       getEnvAsInt("NOTIFY_SMTP_PORT", 587),
			SMTPUsername:   os.Getenv("NOTIFY_SMTP_USERNAME"),
			SMTPPassword:   os.Getenv("NOTIFY_SMTP_PASSWORD"),
			EmailFrom:      getEnv("NOTIFY_EMAIL_FROM", "noreply@campus-helpdesk.local"),
			WebhookEnabled: getEnvAsBool("NOTIFY_WEBHOOK_ENABLED", false),
			WebhookURL:     os.Getenv("NOTIFY_WEBHOOK_URL"),
			SMSEnabled:     getEnvAsBool("NOTIFY_SMS_ENABLED", false),
			SMSAPIURL:      os.Getenv("NOTIFY_SMS_API_URL"),
			SMSAPIKey:      os.Getenv("NOTIFY_SMS_API_KEY"),
			MaxAttempts:    getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 3),
			BackoffSeconds: getEnvAsInt("NOTIFY_BACKOFF_SECONDS", 1),
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

// Timeout returns the advisor call deadline.
func (a AdvisorConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached suggestions stay fresh.
func (a AdvisorConfig) CacheTTL() time.Duration {
	if a.CacheTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.CacheTTLMinutes) * time.Minute
}

// Backoff returns the base delay between delivery attempts.
func (n NotificationConfig) Backoff() time.Duration {
	if n.BackoffSeconds <= 0 {
		return time.Second
	}
	return time.Duration(n.BackoffSeconds) * time.Second
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
