package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Business hours and slot shape for the booking engine.
	BusinessStartHour int    `mapstructure:"BUSINESS_START_HOUR"`
	BusinessEndHour   int    `mapstructure:"BUSINESS_END_HOUR"`
	SlotDurationMin   int    `mapstructure:"SLOT_DURATION_MIN"`
	BusinessTimezone  string `mapstructure:"BUSINESS_TIMEZONE"`
	LookaheadDays     int    `mapstructure:"LOOKAHEAD_DAYS"`

	// External calendar.
	CalendarProvider   string `mapstructure:"CALENDAR_PROVIDER"` // "google" or "memory"
	CalendarID         string `mapstructure:"CALENDAR_ID"`
	CalendarTimeoutSec int    `mapstructure:"CALENDAR_TIMEOUT_SEC"`
	GoogleCredentials  string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`

	// CRM sheet.
	CRMSheetID string `mapstructure:"CRM_SHEET_ID"`

	// Shared secret for the agent tool-call surface. Empty disables auth
	// (local playground).
	AgentJWTSecret string `mapstructure:"AGENT_JWT_SECRET"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("BUSINESS_START_HOUR", 9)
	viper.SetDefault("BUSINESS_END_HOUR", 17)
	viper.SetDefault("SLOT_DURATION_MIN", 30)
	viper.SetDefault("BUSINESS_TIMEZONE", "Asia/Dhaka")
	viper.SetDefault("LOOKAHEAD_DAYS", 7)
	viper.SetDefault("CALENDAR_PROVIDER", "google")
	viper.SetDefault("CALENDAR_ID", "")
	viper.SetDefault("CALENDAR_TIMEOUT_SEC", 5)
	viper.SetDefault("GOOGLE_APPLICATION_CREDENTIALS", "")
	viper.SetDefault("CRM_SHEET_ID", "")
	viper.SetDefault("AGENT_JWT_SECRET", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := AppConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
}

// Validate rejects configurations the engine cannot run with. Everything else
// is handled per-call.
func (c Config) Validate() error {
	if c.BusinessStartHour < 0 || c.BusinessEndHour > 24 || c.BusinessStartHour >= c.BusinessEndHour {
		return fmt.Errorf("business hours %d-%d are not a valid daily window", c.BusinessStartHour, c.BusinessEndHour)
	}
	if c.SlotDurationMin <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", c.SlotDurationMin)
	}
	if _, err := time.LoadLocation(c.BusinessTimezone); err != nil {
		return fmt.Errorf("unknown business timezone %q: %w", c.BusinessTimezone, err)
	}
	if c.CalendarProvider == "google" {
		if c.CalendarID == "" {
			return fmt.Errorf("CALENDAR_ID is required when CALENDAR_PROVIDER is google")
		}
		if c.GoogleCredentials == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is required when CALENDAR_PROVIDER is google")
		}
	}
	return nil
}

// BusinessLocation returns the configured timezone. LoadConfig has already
// validated it.
func (c Config) BusinessLocation() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
