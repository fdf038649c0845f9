package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"EXPLORER_PORT"`
		ShutdownTimeout string `yaml:"shutdownTimeout" env:"EXPLORER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`
	Redis struct {
		Addr       string `yaml:"addr" env:"EXPLORER_REDIS_ADDR"`
		Password   string `yaml:"password" env:"EXPLORER_REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"EXPLORER_REDIS_DB"`
		TTL        string `yaml:"ttl" env:"EXPLORER_REDIS_TTL"`
		CatalogTTL string `yaml:"catalogTtl" env:"EXPLORER_REDIS_CATALOG_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"EXPLORER_POSTGRES_URL"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path" env:"EXPLORER_SQLITE_PATH"`
	} `yaml:"sqlite"`
	Catalog struct {
		// Source is one of embedded, dir or postgres.
		Source string `yaml:"source" env:"EXPLORER_CATALOG_SOURCE"`
		Dir    string `yaml:"dir" env:"EXPLORER_CATALOG_DIR"`
	} `yaml:"catalog"`
	Game struct {
		Questions    int    `yaml:"questions" env:"EXPLORER_GAME_QUESTIONS"`
		Points       int    `yaml:"points" env:"EXPLORER_GAME_POINTS"`
		AdvanceDelay string `yaml:"advanceDelay" env:"EXPLORER_GAME_ADVANCE_DELAY"`
		NumberMax    int    `yaml:"numberMax" env:"EXPLORER_GAME_NUMBER_MAX"`
		ResultTTL    string `yaml:"resultTtl" env:"EXPLORER_GAME_RESULT_TTL"`
	} `yaml:"game"`
	Certificate struct {
		// Fonts are extra TTF/OTF files tried in order for glyphs the bundled Go fonts lack.
		Fonts []string `yaml:"fonts" env:"EXPLORER_CERTIFICATE_FONTS" envSeparator:","`
	} `yaml:"certificate"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins" env:"EXPLORER_CORS_ORIGINS" envSeparator:","`
	} `yaml:"cors"`
}

// Catalog sources.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourcePostgres = "postgres"
)

// Load reads YAML config from path and applies EXPLORER_* environment overrides.
// A missing file is not an error; the service then runs on defaults and environment.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = SourceEmbedded
	}
	switch cfg.Catalog.Source {
	case SourceEmbedded, SourceDir, SourcePostgres:
	default:
		return cfg, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
