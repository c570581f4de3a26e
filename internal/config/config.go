package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver"` // "postgres" or "memory"
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	SSLMode       string `yaml:"ssl_mode"`
	MaxOpenConns  int    `yaml:"max_open_conns"`
	RunMigrations bool   `yaml:"run_migrations"`
}

// SMTPConfig is optional; an empty host turns email notifications off.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

type AuthConfig struct {
	// AdminEmails register with the admin role.
	AdminEmails []string `yaml:"admin_emails"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig holds cron specs (with seconds field, UTC).
type SchedulerConfig struct {
	Enabled                      bool   `yaml:"enabled"`
	ReconcileExpiredReservations string `yaml:"reconcile_expired_reservations"`
}

// Load reads the YAML file at configPath, applies a .env file from the
// working directory if one exists, then environment overrides and defaults.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) overrideWithEnv() error {
	strs := map[string]*string{
		"DB_DRIVER":     &c.Database.Driver,
		"DB_HOST":       &c.Database.Host,
		"DB_USER":       &c.Database.User,
		"DB_PASSWORD":   &c.Database.Password,
		"DB_NAME":       &c.Database.Database,
		"DB_SSL_MODE":   &c.Database.SSLMode,
		"SMTP_HOST":     &c.SMTP.Host,
		"SMTP_USER":     &c.SMTP.User,
		"SMTP_PASSWORD": &c.SMTP.Password,
		"SMTP_FROM":     &c.SMTP.From,
		"JWT_SECRET":    &c.JWT.Secret,
		"SERVER_HOST":   &c.Server.Host,
		"LOG_LEVEL":     &c.Log.Level,
		"LOG_FORMAT":    &c.Log.Format,
	}
	for key, dst := range strs {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}

	ints := map[string]*int{
		"DB_PORT":     &c.Database.Port,
		"SMTP_PORT":   &c.SMTP.Port,
		"SERVER_PORT": &c.Server.Port,
	}
	for key, dst := range ints {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, val, err)
		}
		*dst = n
	}

	if val := os.Getenv("ADMIN_EMAILS"); val != "" {
		c.Auth.AdminEmails = strings.Split(val, ",")
	}
	return nil
}

// Validate checks required settings and fills defaults for the rest.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 15
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
		if c.Database.MaxOpenConns == 0 {
			c.Database.MaxOpenConns = 10
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	if c.SMTP.Enabled() {
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("SMTP from address is required when SMTP is enabled")
		}
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	for i, e := range c.Auth.AdminEmails {
		c.Auth.AdminEmails[i] = strings.ToLower(strings.TrimSpace(e))
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Scheduler.ReconcileExpiredReservations == "" {
		c.Scheduler.ReconcileExpiredReservations = "0 */15 * * * *" // every 15 minutes
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}
