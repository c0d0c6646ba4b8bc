package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort      string `mapstructure:"APP_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	Env          string `mapstructure:"ENV"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Scheduling.
	ClinicTimezone    string `mapstructure:"CLINIC_TIMEZONE"`
	SlotStrideMinutes int    `mapstructure:"SLOT_STRIDE_MIN"`
	SlotCacheTTLSec   int    `mapstructure:"SLOT_CACHE_TTL_SEC"`

	// Realtime and reconciler.
	ReconcileIntervalSec int `mapstructure:"RECONCILE_INTERVAL_SEC"`
	BacklogLimit         int `mapstructure:"BACKLOG_LIMIT"`
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
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "dencare")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	viper.SetDefault("CLINIC_TIMEZONE", "UTC")
	viper.SetDefault("SLOT_STRIDE_MIN", 30)
	viper.SetDefault("SLOT_CACHE_TTL_SEC", 30)
	viper.SetDefault("RECONCILE_INTERVAL_SEC", 60)
	viper.SetDefault("BACKLOG_LIMIT", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// ClinicLocation resolves the configured clinic timezone. All appointment
// dates and the reminder "tomorrow" window are interpreted in this zone.
func ClinicLocation() *time.Location {
	loc, err := time.LoadLocation(AppConfig.ClinicTimezone)
	if err != nil {
		log.Printf("Invalid CLINIC_TIMEZONE %q, falling back to UTC", AppConfig.ClinicTimezone)
		return time.UTC
	}
	return loc
}

// ReconcileInterval returns the reconciler tick period.
func ReconcileInterval() time.Duration {
	return time.Duration(AppConfig.ReconcileIntervalSec) * time.Second
}
