package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DriverMemory stores products in an ordered in-process slice.
	DriverMemory = "memory"
	// DriverSQLite stores products through GORM on SQLite.
	DriverSQLite = "sqlite"
)

// Config holds the runtime settings of the product API.
type Config struct {
	Port        string
	Environment string
	StoreDriver string
	SQLiteDSN   string
	RabbitMQURL string
	JWTSecret   string
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("SQLITE_DSN", "file:products?mode=memory&cache=shared")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "")
}

// LoadDotEnv loads variables from .env files into the process environment.
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment through v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("APP_ENV"),
		StoreDriver: v.GetString("STORE_DRIVER"),
		SQLiteDSN:   v.GetString("SQLITE_DSN"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		JWTSecret:   v.GetString("JWT_SECRET"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLiteDSN == "" {
			return errors.New("SQLITE_DSN is required when STORE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}
