package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret string

	// SchedulerSecret keys the HMAC signature on the external trigger for the
	// batch job endpoints.
	SchedulerSecret string

	// Built-in ticker scheduler for the aging batch, for deployments without
	// an external scheduler.
	AgingJobEnabled  bool
	AgingJobInterval time.Duration

	BillingBaseURL string
	BillingAPIKey  string
	BillingTimeout time.Duration

	// NatsURL is the notification broker address; empty disables publishing.
	NatsURL string

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Real environment variables win over .env values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SCHEDULER_SECRET", "")
	viper.SetDefault("AGING_JOB_ENABLED", false)
	viper.SetDefault("AGING_JOB_INTERVAL", "24h")
	viper.SetDefault("BILLING_BASE_URL", "")
	viper.SetDefault("BILLING_API_KEY", "")
	viper.SetDefault("BILLING_TIMEOUT", "15s")
	viper.SetDefault("NATS_URL", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     viper.GetString("PGSQL_URL"),
		Port:            viper.GetString("PORT"),
		IsProduction:    viper.GetBool("IS_PRODUCTION"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		SchedulerSecret: viper.GetString("SCHEDULER_SECRET"),
		AgingJobEnabled: viper.GetBool("AGING_JOB_ENABLED"),
		BillingBaseURL:  viper.GetString("BILLING_BASE_URL"),
		BillingAPIKey:   viper.GetString("BILLING_API_KEY"),
		NatsURL:         viper.GetString("NATS_URL"),
		RateLimit:       viper.GetString("RATE_LIMIT"),
		PosthogAPIKey:   viper.GetString("POSTHOG_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	var err error
	if cfg.AgingJobInterval, err = time.ParseDuration(viper.GetString("AGING_JOB_INTERVAL")); err != nil {
		log.Printf("Warning: Invalid AGING_JOB_INTERVAL (%q). Defaulting to 24h.\n", viper.GetString("AGING_JOB_INTERVAL"))
		cfg.AgingJobInterval = 24 * time.Hour
	}
	if cfg.BillingTimeout, err = time.ParseDuration(viper.GetString("BILLING_TIMEOUT")); err != nil {
		log.Printf("Warning: Invalid BILLING_TIMEOUT (%q). Defaulting to 15s.\n", viper.GetString("BILLING_TIMEOUT"))
		cfg.BillingTimeout = 15 * time.Second
	}

	return cfg, nil
}
