// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Providers   ProvidersConfig
	Collector   CollectorConfig
	Analytics   AnalyticsConfig
	Debug       bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// ProvidersConfig holds credentials for the external scraping APIs
type ProvidersConfig struct {
	ScrapeCreatorsAPIKey  string
	ScrapeCreatorsBaseURL string
	TGStatToken           string
	TGStatBaseURL         string
	RequestTimeout        time.Duration
}

// CollectorConfig holds collection configuration
type CollectorConfig struct {
	EventsTopic       string
	ScheduleEnabled   bool
	ScheduleSpec      string
	DefaultWindowDays int
}

// AnalyticsConfig holds analytics configuration
type AnalyticsConfig struct {
	DefaultPeriod string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Debug:       getEnvAsBool("DEBUG", false),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "creatorpulse"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Providers: ProvidersConfig{
			ScrapeCreatorsAPIKey:  getEnv("SCRAPECREATORS_API_KEY", ""),
			ScrapeCreatorsBaseURL: getEnv("SCRAPECREATORS_API_URL", "https://api.scrapecreators.com"),
			TGStatToken:           getEnv("TGSTAT_API_TOKEN", ""),
			TGStatBaseURL:         getEnv("TGSTAT_API_URL", "https://api.tgstat.ru"),
			RequestTimeout:        getEnvAsDuration("PROVIDER_REQUEST_TIMEOUT", 120*time.Second),
		},
		Collector: CollectorConfig{
			EventsTopic:       getEnv("COLLECT_EVENTS_TOPIC", "collect"),
			ScheduleEnabled:   getEnvAsBool("COLLECT_SCHEDULE_ENABLED", false),
			ScheduleSpec:      getEnv("COLLECT_SCHEDULE_SPEC", "0 0 6 * * *"),
			DefaultWindowDays: getEnvAsInt("COLLECT_DEFAULT_WINDOW_DAYS", 30),
		},
		Analytics: AnalyticsConfig{
			DefaultPeriod: getEnv("ANALYTICS_DEFAULT_PERIOD", "30d"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Analytics.DefaultPeriod {
	case "7d", "30d", "90d", "365d":
	default:
		return fmt.Errorf("unknown analytics period %q", config.Analytics.DefaultPeriod)
	}

	if config.Collector.DefaultWindowDays <= 0 {
		return fmt.Errorf("collect window must be positive, got %d", config.Collector.DefaultWindowDays)
	}

	if config.Providers.ScrapeCreatorsAPIKey == "" && config.Environment != "development" {
		return fmt.Errorf("scrapecreators API key must be set in non-development environments")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
