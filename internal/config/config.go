package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for both the poller and the relay.
type Config struct {
	App      AppConfig
	Syncro   SyncroConfig
	Poller   PollerConfig
	Relay    RelayConfig
	Teams    TeamsConfig
	Mapping  MappingConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logger   LoggerConfig
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

// SyncroConfig holds ticketing API connection values.
type SyncroConfig struct {
	BaseURL string
	APIKey  string
}

// PollerConfig controls the poll cycle and watermark persistence.
type PollerConfig struct {
	IntervalSeconds int
	WatermarkFile   string
	ProcessedFile   string
	RelayURL        string
}

// RelayConfig controls access to the notification endpoint.
type RelayConfig struct {
	SharedSecret    string
	TokenTTLMinutes int
}

// TeamsConfig identifies the bot application and the destination channel.
type TeamsConfig struct {
	AppID          string
	AppPassword    string
	TenantID       string
	ServiceURL     string
	ConversationID string
	LoginURL       string
	WelcomeText    string
}

// MappingConfig locates the technician mapping table.
type MappingConfig struct {
	File             string
	DefaultMentionID string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
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

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
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
			Name:                  getEnv("APP_NAME", "ticket-relay"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3978"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Syncro: SyncroConfig{
			BaseURL: getEnv("SYNCRO_API_URL", "https://cloudavize.syncromsp.com/api/v1"),
			APIKey:  os.Getenv("SYNCRO_API_KEY"),
		},
		Poller: PollerConfig{
			IntervalSeconds: getEnvAsInt("POLL_INTERVAL_SECONDS", 300),
			WatermarkFile:   getEnv("WATERMARK_FILE", "last_processed.txt"),
			ProcessedFile:   getEnv("PROCESSED_TICKETS_FILE", "processed_tickets.json"),
			RelayURL:        getEnv("RELAY_URL", "http://127.0.0.1:3978"),
		},
		Relay: RelayConfig{
			SharedSecret:    os.Getenv("RELAY_SHARED_SECRET"),
			TokenTTLMinutes: getEnvAsInt("RELAY_TOKEN_TTL_MINUTES", 5),
		},
		Teams: TeamsConfig{
			AppID:          os.Getenv("TEAMS_APP_ID"),
			AppPassword:    os.Getenv("TEAMS_APP_PASSWORD"),
			TenantID:       os.Getenv("TEAMS_TENANT_ID"),
			ServiceURL:     os.Getenv("TEAMS_SERVICE_URL"),
			ConversationID: os.Getenv("TEAMS_CONVERSATION_ID"),
			LoginURL:       getEnv("TEAMS_LOGIN_URL", "https://login.microsoftonline.com/botframework.com/oauth2/v2.0/token"),
			WelcomeText:    getEnv("BOT_WELCOME_TEXT", "Welcome to the helpdesk channel! Say \"my id\" to discover your mention identity."),
		},
		Mapping: MappingConfig{
			File:             getEnv("MAPPING_FILE", "technician_mapping.csv"),
			DefaultMentionID: os.Getenv("DEFAULT_MENTION_ID"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
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

// Interval returns the poll cycle duration.
func (p PollerConfig) Interval() time.Duration {
	if p.IntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(p.IntervalSeconds) * time.Second
}

// ChannelConfigured reports whether a destination channel is fully configured.
func (t TeamsConfig) ChannelConfigured() bool {
	return t.ServiceURL != "" && t.ConversationID != ""
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
