package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Checkout      CheckoutConfig      `mapstructure:"checkout"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AdminJWTSecret string `mapstructure:"admin_jwt_secret"`
}

// GatewayConfig holds the merchant settings for the hosted payment page.
type GatewayConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Sandbox      bool   `mapstructure:"is_sandbox"`
	Title        string `mapstructure:"title"`
	Description  string `mapstructure:"description"`
	Instructions string `mapstructure:"instructions"`
	StoreID      string `mapstructure:"store_id"`
	SharedSecret string `mapstructure:"shared_secret"`
	Timezone     string `mapstructure:"timezone"`
	Currency     string `mapstructure:"currency"`
}

type CheckoutConfig struct {
	// URL is the public checkout page; order-received pages hang off it.
	URL string `mapstructure:"url"`
}

type NotificationConfig struct {
	From       string `mapstructure:"from"`
	MaxWorkers int    `mapstructure:"max_workers"`
	QueueSize  int    `mapstructure:"queue_size"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- DEFAULTS -----------------

// SetDefaults registers the values used when config.yml leaves a key out.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	gw := DefaultGatewayConfig()
	v.SetDefault("gateway.enabled", gw.Enabled)
	v.SetDefault("gateway.is_sandbox", gw.Sandbox)
	v.SetDefault("gateway.title", gw.Title)
	v.SetDefault("gateway.description", gw.Description)
	v.SetDefault("gateway.instructions", gw.Instructions)
	v.SetDefault("gateway.store_id", gw.StoreID)
	v.SetDefault("gateway.shared_secret", gw.SharedSecret)
	v.SetDefault("gateway.timezone", gw.Timezone)
	v.SetDefault("gateway.currency", gw.Currency)

	v.SetDefault("checkout.url", "http://localhost:8080/checkout/")

	v.SetDefault("notification.from", "no-reply@localhost")
	v.SetDefault("notification.max_workers", 4)
	v.SetDefault("notification.queue_size", 100)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")
}

// DefaultGatewayConfig returns the sandbox credentials the gateway hands out
// for integration testing.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Enabled:      true,
		Sandbox:      true,
		Title:        "FirstData IPG Payment",
		Description:  "You will be able to pay in the next step",
		Instructions: "",
		StoreID:      "3910010",
		SharedSecret: "sharedsecret",
		Timezone:     "America/Mexico_City",
		Currency:     "484",
	}
}

// LoadConfigFromEnv builds the config from plain environment variables, used
// for container deployments where no config.yml is mounted.
func LoadConfigFromEnv() *Config {
	gw := DefaultGatewayConfig()

	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("HTTP_BASE_URL", ""),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Security: SecurityConfig{
			AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
		Gateway: GatewayConfig{
			Enabled:      getEnvAsBool("IPG_ENABLED", gw.Enabled),
			Sandbox:      getEnvAsBool("IPG_SANDBOX", gw.Sandbox),
			Title:        getEnv("IPG_TITLE", gw.Title),
			Description:  getEnv("IPG_DESCRIPTION", gw.Description),
			Instructions: getEnv("IPG_INSTRUCTIONS", gw.Instructions),
			StoreID:      getEnv("IPG_STORE_ID", gw.StoreID),
			SharedSecret: getEnv("IPG_SHARED_SECRET", gw.SharedSecret),
			Timezone:     getEnv("IPG_TIMEZONE", gw.Timezone),
			Currency:     getEnv("IPG_CURRENCY", gw.Currency),
		},
		Checkout: CheckoutConfig{
			URL: getEnv("CHECKOUT_URL", "http://localhost:8080/checkout/"),
		},
		Notification: NotificationConfig{
			From:       getEnv("NOTIFICATION_FROM", "no-reply@localhost"),
			MaxWorkers: getEnvAsInt("NOTIFICATION_MAX_WORKERS", 4),
			QueueSize:  getEnvAsInt("NOTIFICATION_QUEUE_SIZE", 100),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("METRICS_ENABLED", true),
				Path:    getEnv("METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Gateway.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("gateway config: %v", err))
	}

	if err := c.Checkout.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("checkout config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

// Validate rejects a gateway section that could only ever produce requests
// the gateway refuses. An unresolvable timezone is an error, never a fallback.
func (c *GatewayConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.StoreID == "" {
		return errors.New("store_id is required")
	}
	if c.SharedSecret == "" {
		return errors.New("shared_secret is required")
	}
	if c.Currency == "" {
		return errors.New("currency is required")
	}
	if c.Timezone == "" {
		return fmt.Errorf("timezone is required: %w", ErrInvalidTimezone)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, ErrInvalidTimezone.WithCause(err))
	}
	return nil
}

func (c *CheckoutConfig) Validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url %s: %w", c.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %s must be absolute", c.URL)
	}
	return nil
}
