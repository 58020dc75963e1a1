package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort string
	AppEnv  string

	DatabaseDriver   string // "sqlite" (default) | "postgres" | "memory"
	DatabaseDSN      string
	DBMaxOpenConns   int
	StaticDir        string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Empty URL/addr disables the integration.
	RabbitMQURL      string
	RabbitMQExchange string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisTTL         time.Duration

	LayoutThemeFile      string
	LayoutLegacyTemplate bool
	LayoutPaginate       bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "resumes.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("STATIC_DIR", "client/build")
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "30s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "resume")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "1h")
	v.SetDefault("LAYOUT_THEME_FILE", "")
	v.SetDefault("LAYOUT_LEGACY_TEMPLATE", false)
	v.SetDefault("LAYOUT_PAGINATE", true)
}

// Load reads defaults, an optional config file named by CONFIG_FILE and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:              v.GetString("APP_PORT"),
		AppEnv:               v.GetString("APP_ENV"),
		DatabaseDriver:       strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		DatabaseDSN:          v.GetString("DATABASE_DSN"),
		DBMaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
		StaticDir:            v.GetString("STATIC_DIR"),
		HTTPReadTimeout:      v.GetDuration("HTTP_READ_TIMEOUT"),
		HTTPWriteTimeout:     v.GetDuration("HTTP_WRITE_TIMEOUT"),
		RabbitMQURL:          strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		RabbitMQExchange:     v.GetString("RABBITMQ_EXCHANGE"),
		RedisAddr:            strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		RedisTTL:             v.GetDuration("REDIS_TTL"),
		LayoutThemeFile:      strings.TrimSpace(v.GetString("LAYOUT_THEME_FILE")),
		LayoutLegacyTemplate: v.GetBool("LAYOUT_LEGACY_TEMPLATE"),
		LayoutPaginate:       v.GetBool("LAYOUT_PAGINATE"),
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.DBMaxOpenConns < 1 {
		cfg.DBMaxOpenConns = 1
	}
	if !strings.HasPrefix(cfg.AppPort, ":") && !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}
	return cfg, nil
}

// EventsEnabled reports whether resume lifecycle events should be published.
func (c *Config) EventsEnabled() bool { return c.RabbitMQURL != "" }

// CacheEnabled reports whether rendered documents should be cached in redis.
func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }
