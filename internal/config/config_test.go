package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
redis:
  addr: localhost:6379
  ttl: 5m
catalog:
  source: dir
  dir: ./data
game:
  questions: 5
  numberMax: 50
cors:
  allowedOrigins: ["http://localhost:3000"]
certificate:
  fonts: ["/fonts/NotoSansTelugu-Regular.ttf"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Redis.Addr != "localhost:6379" || cfg.Catalog.Dir != "./data" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Game.Questions != 5 || cfg.Game.NumberMax != 50 || len(cfg.CORS.AllowedOrigins) != 1 {
		t.Fatalf("unexpected game/cors config %+v", cfg)
	}
	if len(cfg.Certificate.Fonts) != 1 || cfg.Certificate.Fonts[0] != "/fonts/NotoSansTelugu-Regular.ttf" {
		t.Fatalf("unexpected certificate fonts %v", cfg.Certificate.Fonts)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9000\"\n")
	t.Setenv("EXPLORER_PORT", "7070")
	t.Setenv("EXPLORER_CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected env port, got %s", cfg.Server.Port)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Catalog.Source != SourceEmbedded {
		t.Fatalf("expected embedded catalogs by default, got %q", cfg.Catalog.Source)
	}
}

func TestUnknownCatalogSource(t *testing.T) {
	path := writeConfig(t, "catalog:\n  source: ftp\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for bad input, got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected parsed value, got %v", got)
	}
}
