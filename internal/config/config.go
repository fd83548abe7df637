package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Connection modes for the storage layer.
const (
	ModePerRequest = "per_request"
	ModePooled     = "pooled"
)

// Supported storage drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the service configuration, resolved once at startup.
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	RabbitMQ RabbitMQConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name     string `mapstructure:"APP_NAME"`
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// DBConfig describes how to reach the Products table.
type DBConfig struct {
	Driver         string `mapstructure:"DB_DRIVER"`
	DSN            string `mapstructure:"DB_DSN"`
	Host           string `mapstructure:"DB_HOST"`
	Port           int    `mapstructure:"DB_PORT"`
	User           string `mapstructure:"DB_USER"`
	Password       string `mapstructure:"DB_PASSWORD"`
	Name           string `mapstructure:"DB_NAME"`
	ConnectionMode string `mapstructure:"DB_CONNECTION_MODE"`
	AutoMigrate    bool   `mapstructure:"DB_AUTO_MIGRATE"`
}

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Port               string `mapstructure:"APP_PORT"`
	CORSAllowOrigins   string `mapstructure:"CORS_ALLOW_ORIGINS"`
	StrictValidation   bool   `mapstructure:"STRICT_VALIDATION"`
	ExposeErrorDetails bool   `mapstructure:"EXPOSE_ERROR_DETAILS"`
}

// RabbitMQConfig enables product events when URL is set.
type RabbitMQConfig struct {
	URL   string `mapstructure:"RABBITMQ_URL"`
	Queue string `mapstructure:"RABBITMQ_QUEUE"`
}

// Enabled reports whether a broker is configured.
func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

// ConnectionString returns DSN when set, otherwise one built for the driver.
func (c DBConfig) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case DriverPostgres:
		u := &url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:     "/" + c.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	case DriverSQLite:
		return c.Name + ".db"
	default:
		m := mysql.NewConfig()
		m.User = c.User
		m.Passwd = c.Password
		m.Net = "tcp"
		m.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		m.DBName = c.Name
		m.ParseTime = true
		return m.FormatDSN()
	}
}

// Load reads the configuration from the environment and an optional .env file.
// Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "catalog-service")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("STRICT_VALIDATION", false)
	v.SetDefault("EXPOSE_ERROR_DETAILS", true)

	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "ecommerce_project")
	v.SetDefault("DB_CONNECTION_MODE", ModePerRequest)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	// Each section is decoded from the same flat key space.
	for _, section := range []any{&cfg.App, &cfg.DB, &cfg.HTTP, &cfg.RabbitMQ} {
		if err := v.Unmarshal(section); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	cfg.DB.Driver = strings.ToLower(cfg.DB.Driver)
	cfg.DB.ConnectionMode = strings.ToLower(cfg.DB.ConnectionMode)
	if !strings.Contains(cfg.HTTP.Port, ":") {
		cfg.HTTP.Port = ":" + cfg.HTTP.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and connection modes.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.DB.ConnectionMode {
	case ModePerRequest, ModePooled:
	default:
		return fmt.Errorf("unsupported DB_CONNECTION_MODE %q", c.DB.ConnectionMode)
	}
	return nil
}
