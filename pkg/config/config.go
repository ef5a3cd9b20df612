package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RAJAGROCER"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv           = "RAJAGROCER_APP_ENV"
	EnvPort             = "RAJAGROCER_APP_PORT"
	EnvDBDSN            = "RAJAGROCER_DB_DSN"
	EnvSheetSubmitURL   = "RAJAGROCER_SHEET_SUBMIT_URL"
	EnvSheetApprovalURL = "RAJAGROCER_SHEET_APPROVAL_URL"
	EnvStoreEmail       = "RAJAGROCER_STORE_EMAIL"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Sheet        SheetConfig
	Store        StoreConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RAJAGROCER_APP_ENV" required:"true"`
	Port         string `envconfig:"RAJAGROCER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RAJAGROCER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RAJAGROCER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"RAJAGROCER_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"RAJAGROCER_DB_DSN" default:"rajagrocer.db"`

	MaxOpenConns    int           `envconfig:"RAJAGROCER_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"RAJAGROCER_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"RAJAGROCER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RAJAGROCER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db driver %q (expected sqlite or postgres)", db.Driver)
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

// SheetConfig holds the two remote sheet-backed endpoints. Both are plain
// configured string values; the submit endpoint receives order payloads and
// the approval endpoint serves the approved order-code list.
type SheetConfig struct {
	SubmitURL   string        `envconfig:"RAJAGROCER_SHEET_SUBMIT_URL" required:"true"`
	ApprovalURL string        `envconfig:"RAJAGROCER_SHEET_APPROVAL_URL" required:"true"`
	Timeout     time.Duration `envconfig:"RAJAGROCER_SHEET_TIMEOUT" default:"10s"`
}

// StoreConfig identifies the shop on receipts and order payloads.
type StoreConfig struct {
	Name           string `envconfig:"RAJAGROCER_STORE_NAME" default:"Raja Rice & Grocery"`
	Email          string `envconfig:"RAJAGROCER_STORE_EMAIL" required:"true"`
	CurrencySymbol string `envconfig:"RAJAGROCER_CURRENCY_SYMBOL" default:"₹"`
}

// RedisConfig is optional; when URL is empty the checkout idempotency
// middleware is disabled and the in-process guard stands alone.
type RedisConfig struct {
	URL          string        `envconfig:"RAJAGROCER_REDIS_URL"`
	PoolSize     int           `envconfig:"RAJAGROCER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RAJAGROCER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RAJAGROCER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RAJAGROCER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RAJAGROCER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate            bool          `envconfig:"RAJAGROCER_AUTO_MIGRATE" default:"false"`
	CheckoutIdempotency    bool          `envconfig:"RAJAGROCER_CHECKOUT_IDEMPOTENCY" default:"true"`
	CheckoutIdempotencyTTL time.Duration `envconfig:"RAJAGROCER_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}
