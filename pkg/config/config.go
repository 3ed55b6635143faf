package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes all environment variables consumed by the app.
const EnvPrefix = "CLINICDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	Bridge    BridgeConfig
	DevBridge DevBridgeConfig
	Reports   ReportsConfig
	Diag      DiagConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Bridge.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CLINICDESK_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"CLINICDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CLINICDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BridgeConfig selects how the stores reach the data bridge: "rpc" talks to
// the host process over a local HTTP endpoint, "embedded" runs the bundled
// GORM-backed bridge in-process.
type BridgeConfig struct {
	Mode     string        `envconfig:"CLINICDESK_BRIDGE_MODE" default:"embedded"`
	Endpoint string        `envconfig:"CLINICDESK_BRIDGE_ENDPOINT" default:"http://127.0.0.1:18650"`
	Timeout  time.Duration `envconfig:"CLINICDESK_BRIDGE_TIMEOUT" default:"15s"`
}

const (
	BridgeModeRPC      = "rpc"
	BridgeModeEmbedded = "embedded"
)

func (b BridgeConfig) validate() error {
	switch strings.ToLower(b.Mode) {
	case BridgeModeRPC, BridgeModeEmbedded:
		return nil
	default:
		return fmt.Errorf("unknown bridge mode %q", b.Mode)
	}
}

func (b BridgeConfig) IsEmbedded() bool {
	return strings.EqualFold(b.Mode, BridgeModeEmbedded)
}

type DevBridgeConfig struct {
	Driver          string        `envconfig:"CLINICDESK_DEVBRIDGE_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"CLINICDESK_DEVBRIDGE_DSN" default:"file:clinicdesk.db?_pragma=busy_timeout(5000)"`
	AutoMigrate     bool          `envconfig:"CLINICDESK_DEVBRIDGE_AUTO_MIGRATE" default:"true"`
	MaxOpenConns    int           `envconfig:"CLINICDESK_DEVBRIDGE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"CLINICDESK_DEVBRIDGE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"CLINICDESK_DEVBRIDGE_CONN_MAX_LIFETIME" default:"1h"`
}

const (
	DevBridgeDriverSQLite   = "sqlite"
	DevBridgeDriverPostgres = "postgres"
)

type ReportsConfig struct {
	RefreshInterval time.Duration `envconfig:"CLINICDESK_REPORTS_REFRESH_INTERVAL" default:"5m"`
}

type DiagConfig struct {
	Enabled bool   `envconfig:"CLINICDESK_DIAG_ENABLED" default:"true"`
	Addr    string `envconfig:"CLINICDESK_DIAG_ADDR" default:"127.0.0.1:9464"`
}
