package config

import (
	"fmt"
	"os"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// PlacesConfig configures the place-search provider. An empty APIKey selects
// the demo provider at startup.
type PlacesConfig struct {
	APIKey string
}

// StripeConfig configures the payment provider. An empty SecretKey selects
// the demo provider at startup.
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
}

type AuthConfig struct {
	JWTSecret string
}

type Config struct {
	Repositories RepositoriesConfig
	Places       PlacesConfig
	Stripe       StripeConfig
	Auth         AuthConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "machimap"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Places: PlacesConfig{
			APIKey: os.Getenv("GOOGLE_PLACES_API_KEY"),
		},
		Stripe: StripeConfig{
			SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
			PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
			WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnvOrDefault("JWT_SECRET_KEY", "dev-secret-change-in-production-min-32-chars"),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

// PlacesDemoMode reports whether place search should serve placeholder data.
func (c *Config) PlacesDemoMode() bool {
	return c.Places.APIKey == ""
}

// PaymentsDemoMode reports whether payments run without a live processor.
func (c *Config) PaymentsDemoMode() bool {
	return c.Stripe.SecretKey == ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
