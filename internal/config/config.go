package config

import (
	"fmt"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the order-service configuration.
type Config struct {
	// Server settings
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// PostgreSQL settings
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Secret field, loaded from file
	DBPassword string

	// RabbitMQ settings
	RabbitMQURL      string `envconfig:"RABBITMQ_URL" required:"true"`
	ChangeEventQueue string `envconfig:"CHANGE_EVENT_QUEUE" default:"request_change_events"`

	// Redis settings (intake rate limiter)
	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB          int           `envconfig:"REDIS_DB" default:"0"`
	IntakeRateLimit  int           `envconfig:"INTAKE_RATE_LIMIT" default:"5"`
	IntakeRateWindow time.Duration `envconfig:"INTAKE_RATE_WINDOW" default:"1m"`

	// Transactional email provider
	EmailAPIBaseURL string        `envconfig:"EMAIL_API_BASE_URL" default:"https://api.resend.com"`
	EmailFrom       string        `envconfig:"EMAIL_FROM" default:"Cuentos Personalizados <pedidos@cuentospersonalizados.com>"`
	StaffEmail      string        `envconfig:"STAFF_EMAIL" default:"equipo@cuentospersonalizados.com"`
	EmailTimeout    time.Duration `envconfig:"EMAIL_TIMEOUT" default:"15s"`
	// Secret field, loaded from file
	EmailAPIKey string

	// Payment gateway
	PaymentAPIBaseURL  string        `envconfig:"PAYMENT_API_BASE_URL" default:"https://api.mercadopago.com"`
	PaymentTimeout     time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"15s"`
	StoryPriceAmount   int           `envconfig:"STORY_PRICE_AMOUNT" default:"45000"`
	StoryPriceCurrency string        `envconfig:"STORY_PRICE_CURRENCY" default:"COP"`
	// Secret field, loaded from file
	PaymentAccessToken string

	// Public site base URL, used for payment links and gateway back_urls
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:3000"`
}

// GetDSN returns the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig loads configuration from environment variables and secret files.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load order-service configuration: %w", err)
	}

	var loadErr error
	cfg.DBPassword, loadErr = ReadSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.EmailAPIKey, loadErr = ReadSecret("email_api_key")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.PaymentAccessToken, loadErr = ReadSecret("payment_access_token")
	if loadErr != nil {
		return nil, loadErr
	}

	log.Printf("Order service configuration loaded (secrets from files):")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	log.Printf("  RabbitMQ URL: %s", cfg.RabbitMQURL)
	log.Printf("  Change Event Queue: %s", cfg.ChangeEventQueue)
	log.Printf("  Redis Addr: %s", cfg.RedisAddr)
	log.Printf("  Email API: %s", cfg.EmailAPIBaseURL)
	log.Printf("  Payment API: %s", cfg.PaymentAPIBaseURL)
	log.Printf("  Public Base URL: %s", cfg.PublicBaseURL)

	return &cfg, nil
}
