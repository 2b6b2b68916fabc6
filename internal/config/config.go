package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "SALES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Import ImportConfig
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the service cannot start with.
func (c *Config) Validate() error {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q, use %s or %s", c.DB.Driver, DriverSQLite, DriverPostgres)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.Import.MaxUploadMB <= 0 {
		return fmt.Errorf("import upload cap must be positive, got %d", c.Import.MaxUploadMB)
	}
	return nil
}

type AppConfig struct {
	Env      string `envconfig:"SALES_APP_ENV" default:"dev"`
	Port     string `envconfig:"SALES_APP_PORT" default:"8081"`
	LogLevel string `envconfig:"SALES_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver      string `envconfig:"SALES_DB_DRIVER" default:"sqlite"`
	DSN         string `envconfig:"SALES_DB_DSN" default:"sales.db"`
	LogQueries  bool   `envconfig:"SALES_DB_LOG_QUERIES" default:"false"`
	AutoMigrate bool   `envconfig:"SALES_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"SALES_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SALES_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SALES_DB_CONN_MAX_LIFETIME" default:"1h"`
}

type ImportConfig struct {
	MaxUploadMB int `envconfig:"SALES_IMPORT_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes is the upload cap of a CSV import in bytes.
func (i ImportConfig) MaxUploadBytes() int64 {
	return int64(i.MaxUploadMB) << 20
}
