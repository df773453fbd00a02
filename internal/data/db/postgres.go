package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string `yaml:"driver"`

	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresName     string `yaml:"postgres_name"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"`

	SQLitePath string `yaml:"sqlite_path"`

	MaxOpenConns int `yaml:"max_open_conns"`
}

func (c Config) postgresDSN() string {
	sslmode := c.PostgresSSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
		sslmode,
	)
}

type PostgresService struct {
	db     *gorm.DB
	log    *logger.Logger
	driver string
}

// NewPostgresService opens the guest store. Despite the name it also serves
// the sqlite driver used for local development.
func NewPostgresService(logg *logger.Logger, cfg Config) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService", "driver", cfg.Driver)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormCfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "rsvp.db"
		}
		db, err = gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=on"), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
		}
		// sqlite serializes writers; one connection avoids SQLITE_BUSY under concurrent reorders.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	case DriverPostgres, "":
		db, err = gorm.Open(postgres.Open(cfg.postgresDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		if cfg.MaxOpenConns > 0 {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, fmt.Errorf("postgres handle: %w", err)
			}
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	serviceLog.Info("database connected")
	return &PostgresService{db: db, log: serviceLog, driver: cfg.Driver}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *PostgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
