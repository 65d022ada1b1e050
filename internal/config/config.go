package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"planner-go/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	WeeksLatest = "latest"
	WeeksAll    = "all"
)

const configFileEnv = "PLANNER_CONFIG"

type Config struct {
	Env     string        `toml:"env" env:"ENV"`
	HTTP    HTTPConfig    `toml:"http"`
	DB      DBConfig      `toml:"db"`
	Summary SummaryConfig `toml:"summary"`
	Log     LogConfig     `toml:"log"`
}

type HTTPConfig struct {
	Port           string        `toml:"port" env:"HTTP_PORT"`
	RequestTimeout time.Duration `toml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT"`
	AllowedOrigins []string      `toml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AdminToken     string        `toml:"admin_token" env:"ADMIN_API_TOKEN"`
}

type DBConfig struct {
	Driver          string        `toml:"driver" env:"DB_DRIVER"`
	DSN             string        `toml:"dsn" env:"DB_DSN"`
	Host            string        `toml:"host" env:"DB_HOST"`
	Port            string        `toml:"port" env:"DB_PORT"`
	User            string        `toml:"user" env:"DB_USER"`
	Password        string        `toml:"password" env:"DB_PASSWORD"`
	Name            string        `toml:"name" env:"DB_NAME"`
	SSLMode         string        `toml:"sslmode" env:"DB_SSLMODE"`
	TimeZone        string        `toml:"timezone" env:"DB_TIMEZONE"`
	SQLitePath      string        `toml:"sqlite_path" env:"DB_SQLITE_PATH"`
	MaxOpenConns    int           `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	AutoMigrate     bool          `toml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

type SummaryConfig struct {
	// DefaultWeeks is the listing mode used when a request does not pick one.
	DefaultWeeks string `toml:"default_weeks" env:"SUMMARY_DEFAULT_WEEKS"`
	// Timezone decides which Monday counts as "this week".
	Timezone string `toml:"timezone" env:"PLANNER_TIMEZONE"`
	// CacheTTL keeps computed listings in memory. Zero disables the cache.
	CacheTTL time.Duration `toml:"cache_ttl" env:"SUMMARY_CACHE_TTL"`
}

type LogConfig struct {
	Level      string `toml:"level" env:"LOG_LEVEL"`
	Format     string `toml:"format" env:"LOG_FORMAT"`
	File       string `toml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `toml:"max_backups" env:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `toml:"max_age_days" env:"LOG_MAX_AGE_DAYS"`
}

func Default() Config {
	return Config{
		Env: "development",
		HTTP: HTTPConfig{
			Port:           "8080",
			RequestTimeout: 30 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		DB: DBConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			Name:            "planner",
			SSLMode:         "disable",
			TimeZone:        "UTC",
			SQLitePath:      "planner.sqlite",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			AutoMigrate:     true,
		},
		Summary: SummaryConfig{
			DefaultWeeks: WeeksLatest,
			Timezone:     "UTC",
		},
		Log: LogConfig{
			Format: "json",
		},
	}
}

// Load layers configuration: defaults, then the TOML file named by
// PLANNER_CONFIG, then environment variables (including those read from .env).
func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(configFileEnv)); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
		log.Info("config: loaded file", "path", path)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("db driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DB.Driver)
	}

	switch c.Summary.DefaultWeeks {
	case WeeksLatest, WeeksAll:
	default:
		return fmt.Errorf("summary default weeks must be %q or %q, got %q", WeeksLatest, WeeksAll, c.Summary.DefaultWeeks)
	}

	if c.Summary.CacheTTL < 0 {
		return fmt.Errorf("summary cache ttl must not be negative, got %s", c.Summary.CacheTTL)
	}

	if _, err := c.Summary.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Summary.Timezone, err)
	}

	if strings.TrimSpace(c.HTTP.Port) == "" {
		return fmt.Errorf("http port is required")
	}
	return nil
}

func (c SummaryConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c LogConfig) Options(env string) logger.Options {
	return logger.Options{
		Env:        env,
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
