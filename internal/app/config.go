package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/rsvp-backend/internal/data/db"
	"github.com/yungbote/rsvp-backend/internal/observability"
	"github.com/yungbote/rsvp-backend/internal/platform/envutil"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
	"github.com/yungbote/rsvp-backend/internal/realtime/bus"
	"github.com/yungbote/rsvp-backend/internal/services/auth"
	"github.com/yungbote/rsvp-backend/internal/services/stats"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type Config struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	DB    db.Config   `yaml:"db"`
	Redis RedisConfig `yaml:"redis"`

	StatsCacheTTL       time.Duration `yaml:"stats_cache_ttl"`
	StatsRefreshTimeout time.Duration `yaml:"stats_refresh_timeout"`
	ReorderBase         int           `yaml:"reorder_base"`
	ReorderStep         int           `yaml:"reorder_step"`

	JWTSecretKey      string        `yaml:"jwt_secret_key"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	AdminTokenTTL     time.Duration `yaml:"admin_token_ttl"`

	CORSAllowedOrigins []string                 `yaml:"cors_allowed_origins"`
	MetricsInterval    time.Duration            `yaml:"metrics_interval"`
	Otel               observability.OtelConfig `yaml:"otel"`

	SeedDemo bool `yaml:"seed_demo"`
}

func defaultConfig() Config {
	return Config{
		Port:                "8080",
		LogMode:             "development",
		DB:                  db.Config{Driver: db.DriverPostgres, PostgresPort: "5432"},
		Redis:               RedisConfig{Channel: bus.DefaultChannel},
		StatsCacheTTL:       stats.DefaultTTL,
		StatsRefreshTimeout: stats.DefaultRefreshTimeout,
		ReorderStep:         1,
		AdminTokenTTL:       auth.DefaultTokenTTL,
		MetricsInterval:     15 * time.Second,
		Otel:                observability.OtelConfig{ServiceName: "rsvp-backend", SampleRatio: 1},
	}
}

// LoadConfig reads the optional YAML file named by CONFIG_FILE and then
// applies environment overrides on top of it.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if log != nil {
			log.Info("config file loaded", "path", path)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)

	cfg.DB.Driver = strings.ToLower(envutil.String("DB_DRIVER", cfg.DB.Driver))
	cfg.DB.PostgresHost = envutil.String("POSTGRES_HOST", cfg.DB.PostgresHost)
	cfg.DB.PostgresPort = envutil.String("POSTGRES_PORT", cfg.DB.PostgresPort)
	cfg.DB.PostgresUser = envutil.String("POSTGRES_USER", cfg.DB.PostgresUser)
	cfg.DB.PostgresPassword = envutil.String("POSTGRES_PASSWORD", cfg.DB.PostgresPassword)
	cfg.DB.PostgresName = envutil.String("POSTGRES_NAME", cfg.DB.PostgresName)
	cfg.DB.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.PostgresSSLMode)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)
	cfg.DB.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", cfg.DB.MaxOpenConns)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	if ms := envutil.Int("STATS_CACHE_TTL_MS", -1); ms >= 0 {
		cfg.StatsCacheTTL = time.Duration(ms) * time.Millisecond
	}
	cfg.StatsRefreshTimeout = envutil.Duration("STATS_REFRESH_TIMEOUT", cfg.StatsRefreshTimeout)
	cfg.ReorderBase = envutil.Int("REORDER_BASE", cfg.ReorderBase)
	cfg.ReorderStep = envutil.Int("REORDER_STEP", cfg.ReorderStep)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.AdminPasswordHash = envutil.String("ADMIN_PASSWORD_HASH", cfg.AdminPasswordHash)
	cfg.AdminTokenTTL = envutil.Duration("ADMIN_TOKEN_TTL", cfg.AdminTokenTTL)

	cfg.CORSAllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)
	cfg.MetricsInterval = envutil.Duration("METRICS_INTERVAL", cfg.MetricsInterval)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.Otel.Environment)
	cfg.Otel.Version = envutil.String("OTEL_SERVICE_VERSION", cfg.Otel.Version)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	if raw := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); raw != "" {
		cfg.Otel.Headers = observability.ParseHeaders(raw)
	}
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)

	cfg.SeedDemo = envutil.Bool("SEED_DEMO", cfg.SeedDemo)
}

func (c Config) validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.StatsCacheTTL < 0 {
		return fmt.Errorf("stats cache ttl must not be negative")
	}
	if c.ReorderStep <= 0 {
		return fmt.Errorf("REORDER_STEP must be positive, got %d", c.ReorderStep)
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
