package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("Expected default driver sqlite, got %s", cfg.DB.Driver)
	}
	if cfg.DB.URL == "" {
		t.Error("Expected a default DATABASE_URL")
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Expected memory cache backend, got %s", cfg.Cache.Backend)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.DB.Driver != "postgres" {
		t.Errorf("Expected driver postgres, got %s", cfg.DB.Driver)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Expected cache ttl 90s, got %s", cfg.Cache.TTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"unknown cache backend", "CACHE_BACKEND", "memcached"},
		{"unknown event backend", "EVENT_BACKEND", "kafka"},
		{"zero workers", "HISTORY_WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
