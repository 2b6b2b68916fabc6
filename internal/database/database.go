package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"api_sales/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client owns the gorm handle of the sales database and the sql pool under it.
type Client struct {
	orm  *gorm.DB
	pool *sql.DB
}

// New connects to cfg.DSN with the configured driver and checks that the
// database answers before returning.
func New(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	orm, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 queryLogger(cfg.LogQueries),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialector.Name(), err)
	}
	pool, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	client := &Client{orm: orm, pool: pool}
	if err := client.Ping(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	logger.Info("database ready",
		zap.String("driver", dialector.Name()),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return client, nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true}), nil
	case config.DriverSQLite, "":
		return sqlite.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func queryLogger(enabled bool) gormlogger.Interface {
	if enabled {
		return gormlogger.Default.LogMode(gormlogger.Info)
	}
	return gormlogger.New(log.New(io.Discard, "", 0), gormlogger.Config{LogLevel: gormlogger.Silent})
}

// DB scopes the gorm handle to ctx.
func (c *Client) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return c.orm
	}
	return c.orm.WithContext(ctx)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.pool.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.pool.Close()
}

// WithTx runs fn in one transaction. A returned error or a panic inside fn
// rolls it back; the panic is then re-raised.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.DB(ctx).Transaction(fn)
}

// AutoMigrate creates or alters the tables backing models.
func (c *Client) AutoMigrate(ctx context.Context, models ...any) error {
	if err := c.DB(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
