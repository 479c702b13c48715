package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by the app.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Artwork      ArtworkConfig
	Dashboard    DashboardConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRINTFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"PRINTFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRINTFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRINTFLOW_LOG_WARN_STACK" default:"false"`
	CORSOrigin   string `envconfig:"PRINTFLOW_CORS_ORIGIN" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRINTFLOW_DB_DSN"`
	Driver string `envconfig:"PRINTFLOW_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PRINTFLOW_DB_HOST"`
	Port     int    `envconfig:"PRINTFLOW_DB_PORT" default:"5432"`
	User     string `envconfig:"PRINTFLOW_DB_USER"`
	Password string `envconfig:"PRINTFLOW_DB_PASSWORD"`
	Name     string `envconfig:"PRINTFLOW_DB_NAME"`
	SSLMode  string `envconfig:"PRINTFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRINTFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRINTFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRINTFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRINTFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database config incomplete: set PRINTFLOW_DB_DSN or host/user/name")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	// URL empty disables redis: the dashboard cache is skipped and cron
	// workers fall back to an in-process lock.
	URL          string        `envconfig:"PRINTFLOW_REDIS_URL"`
	PoolSize     int           `envconfig:"PRINTFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRINTFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRINTFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRINTFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRINTFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type ArtworkConfig struct {
	Dir          string `envconfig:"PRINTFLOW_ARTWORK_DIR" default:"uploads/artwork"`
	PublicPrefix string `envconfig:"PRINTFLOW_ARTWORK_PUBLIC_PREFIX" default:"/uploads/artwork"`
	MaxSizeBytes int64  `envconfig:"PRINTFLOW_ARTWORK_MAX_SIZE_BYTES" default:"15728640"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `envconfig:"PRINTFLOW_DASHBOARD_CACHE_TTL" default:"30s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PRINTFLOW_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"PRINTFLOW_CRON_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRINTFLOW_AUTO_MIGRATE" default:"false"`
}
