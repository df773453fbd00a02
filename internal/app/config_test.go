package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/rsvp-backend/internal/data/db"
	"github.com/yungbote/rsvp-backend/internal/services/stats"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StatsCacheTTL != stats.DefaultTTL {
		t.Fatalf("ttl: want=%s got=%s", stats.DefaultTTL, cfg.StatsCacheTTL)
	}
	if cfg.ReorderStep != 1 || cfg.DB.Driver != db.DriverPostgres || cfg.Addr() != ":8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rsvp.yaml")
	raw := []byte(`
port: "9000"
db:
  driver: sqlite
  sqlite_path: /tmp/rsvp.db
stats_cache_ttl: 2s
reorder_step: 10
jwt_secret_key: from-file
cors_allowed_origins:
  - https://rsvp.example.com
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("STATS_CACHE_TTL_MS", "250")
	t.Setenv("REORDER_STEP", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DB.Driver != db.DriverSQLite || cfg.DB.SQLitePath != "/tmp/rsvp.db" {
		t.Fatalf("db config: %+v", cfg.DB)
	}
	if cfg.StatsCacheTTL != 250*time.Millisecond {
		t.Fatalf("env ttl should win: got=%s", cfg.StatsCacheTTL)
	}
	if cfg.ReorderStep != 10 || cfg.JWTSecretKey != "from-file" || cfg.Addr() != ":9000" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://rsvp.example.com" {
		t.Fatalf("origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET_KEY", "s")

	t.Setenv("REORDER_STEP", "0")
	if _, err := LoadConfig(nil); err == nil {
		t.Fatalf("expected error for zero step")
	}
	t.Setenv("REORDER_STEP", "")

	t.Setenv("DB_DRIVER", "mysql")
	if _, err := LoadConfig(nil); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	t.Setenv("DB_DRIVER", "")

	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := LoadConfig(nil); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}
