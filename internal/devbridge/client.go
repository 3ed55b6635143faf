// Package devbridge is the bundled data bridge for local runs and tests. It
// serves the same contract as the host process's RPC endpoint from an
// embedded GORM database, so the stores cannot tell the two apart.
package devbridge

import (
	"context"
	"database/sql"
	"io"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinicdesk/clinicdesk/pkg/config"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

// Client wraps the embedded GORM connection.
type Client struct {
	conn *gorm.DB
}

// New boots the embedded database from configuration.
func New(ctx context.Context, cfg config.DevBridgeConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "devbridge DSN is required")
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true})
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown devbridge driver "+cfg.Driver)
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening devbridge database")
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "getting sql db handle")
	}
	applyPoolSettings(sqlDB, cfg)

	if cfg.AutoMigrate {
		if err := conn.AutoMigrate(
			&Patient{},
			&Appointment{},
			&InventoryItem{},
			&Payment{},
			&LabOrder{},
			&ClinicSettings{},
		); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrating devbridge schema")
		}
	}

	if logg != nil {
		logg.Info(ctx, "devbridge database ready")
	}
	return &Client{conn: conn}, nil
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DevBridgeConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
