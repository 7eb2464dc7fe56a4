// Package config loads storefront settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/contact"
	"github.com/ManuC12/Raices-de-vida/internal/kv"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPPort           string        `env:"HTTP_PORT" envDefault:"8080"`
	GRPCPort           string        `env:"GRPC_PORT" envDefault:"50051"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Store    StoreConfig    `envPrefix:"STORE_"`
	Catalog  CatalogConfig  `envPrefix:"CATALOG_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Checkout CheckoutConfig `envPrefix:"CHECKOUT_"`
	Contact  ContactConfig  `envPrefix:"CONTACT_"`
}

// StoreConfig picks where carts and auth sessions live.
type StoreConfig struct {
	Backend       string        `env:"BACKEND" envDefault:"memory"`
	Dir           string        `env:"DIR" envDefault:"./data/sessions"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"./data/sessions.db"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"0"`
	MongoURI      string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB       string        `env:"MONGO_DB" envDefault:"storefront"`
	MongoTTL      time.Duration `env:"MONGO_TTL" envDefault:"0"`
}

func (c StoreConfig) Options() kv.Options {
	return kv.Options{
		Backend:       c.Backend,
		Dir:           c.Dir,
		SQLitePath:    c.SQLitePath,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisTTL:      c.RedisTTL,
		MongoURI:      c.MongoURI,
		MongoDB:       c.MongoDB,
		MongoTTL:      c.MongoTTL,
	}
}

// CatalogConfig points at the products table. An empty driver serves the
// built-in catalog only.
type CatalogConfig struct {
	Driver         string `env:"DRIVER"`
	DSN            string `env:"DSN"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"./internal/catalog/migrations"`
}

// MigrationsDir is the migration directory of the configured driver.
func (c CatalogConfig) MigrationsDir() string {
	return fmt.Sprintf("%s/%s", c.MigrationsPath, c.Driver)
}

type AuthConfig struct {
	Provider string        `env:"PROVIDER" envDefault:"local"`
	URL      string        `env:"URL"`
	APIKey   string        `env:"API_KEY"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`

	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	ConfirmEmail   bool          `env:"CONFIRM_EMAIL" envDefault:"false"`
	RateLimit      float64       `env:"RATE_LIMIT" envDefault:"1"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
}

type CheckoutConfig struct {
	Delay        time.Duration `env:"DELAY" envDefault:"2s"`
	KafkaBrokers []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string        `env:"KAFKA_TOPIC" envDefault:"storefront.orders"`
	KafkaGroup   string        `env:"KAFKA_GROUP" envDefault:"storefront-admin"`
}

type ContactConfig struct {
	WhatsAppNumber string `env:"WHATSAPP_NUMBER" envDefault:"542614607518"`
	Phone          string `env:"PHONE" envDefault:"+54 261 460 7518"`
	Email          string `env:"EMAIL" envDefault:"devidaraices@gmail.com"`
	Address        string `env:"ADDRESS" envDefault:"Martínez de Rosas & Javier Morales, Godoy Cruz, Mendoza"`
	InstagramURL   string `env:"INSTAGRAM_URL" envDefault:"https://instagram.com"`
}

func (c ContactConfig) Links() contact.Links {
	return contact.Links{
		WhatsAppNumber: c.WhatsAppNumber,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		InstagramURL:   c.InstagramURL,
	}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Catalog.Driver {
	case "", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("CATALOG_DRIVER: unsupported driver %q", c.Catalog.Driver))
	}
	if c.Catalog.Driver != "" && c.Catalog.DSN == "" {
		errs = append(errs, errors.New("CATALOG_DSN is required when CATALOG_DRIVER is set"))
	}
	switch c.Auth.Provider {
	case "local":
	case "gotrue":
		if c.Auth.URL == "" {
			errs = append(errs, errors.New("AUTH_URL is required for the gotrue provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_PROVIDER: unsupported provider %q", c.Auth.Provider))
	}
	if c.Checkout.Delay < 0 {
		errs = append(errs, errors.New("CHECKOUT_DELAY must not be negative"))
	}
	return errors.Join(errs...)
}
