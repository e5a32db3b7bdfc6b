package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// StatusPolicy controls how order status transitions are validated.
type StatusPolicy string

const (
	PolicyPermissive StatusPolicy = "permissive"
	PolicyStrict     StatusPolicy = "strict"
)

// Config holds all configuration for the food ordering service.
type Config struct {
	HTTP     HTTPConfig
	Storage  StorageConfig
	Database DatabaseConfig
	AMQP     AMQPConfig
	Auth     AuthConfig
	Orders   OrdersConfig
}

type HTTPConfig struct {
	Port int
}

type StorageConfig struct {
	// Backend selects the entity store implementation: "memory" or "postgres".
	Backend string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type AMQPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
}

type AuthConfig struct {
	Secret string
}

type OrdersConfig struct {
	StatusPolicy StatusPolicy
	VerifyTotal  bool
	DeliveryFee  decimal.Decimal
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: HTTPConfig{
			Port: envInt("HTTP_PORT", 3000),
		},
		Storage: StorageConfig{
			Backend: envString("STORAGE_BACKEND", "memory"),
		},
		Database: DatabaseConfig{
			Host:     envString("DB_HOST", "localhost"),
			Port:     envInt("DB_PORT", 5432),
			User:     envString("DB_USER", "postgres"),
			Password: envString("DB_PASSWORD", "postgres"),
			Database: envString("DB_NAME", "food_orders"),
		},
		AMQP: AMQPConfig{
			Enabled:  envBool("AMQP_ENABLED", false),
			Host:     envString("AMQP_HOST", "localhost"),
			Port:     envInt("AMQP_PORT", 5672),
			User:     envString("AMQP_USER", "guest"),
			Password: envString("AMQP_PASSWORD", "guest"),
		},
		Auth: AuthConfig{
			Secret: envString("AUTH_SECRET", ""),
		},
		Orders: OrdersConfig{
			StatusPolicy: StatusPolicy(envString("ORDER_STATUS_POLICY", string(PolicyPermissive))),
			VerifyTotal:  envBool("ORDER_VERIFY_TOTAL", false),
		},
	}

	if cfg.Storage.Backend != "memory" && cfg.Storage.Backend != "postgres" {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: must be memory or postgres", cfg.Storage.Backend)
	}

	if cfg.Orders.StatusPolicy != PolicyPermissive && cfg.Orders.StatusPolicy != PolicyStrict {
		return nil, fmt.Errorf("invalid ORDER_STATUS_POLICY %q: must be permissive or strict", cfg.Orders.StatusPolicy)
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}

	fee, err := decimal.NewFromString(envString("DELIVERY_FEE", "2.99"))
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_FEE: %w", err)
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("DELIVERY_FEE must not be negative")
	}
	cfg.Orders.DeliveryFee = fee

	return cfg, nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// AMQPURL returns an AMQP connection URL.
func (c *Config) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.AMQP.User, c.AMQP.Password, c.AMQP.Host, c.AMQP.Port)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
