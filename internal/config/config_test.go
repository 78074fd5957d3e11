package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_EXPIRE", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Database.Driver != "postgres" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.Expire != 7*24*time.Hour {
		t.Fatalf("JWT expire = %v", cfg.JWT.Expire)
	}
	if cfg.JWT.SecretKey == "" {
		t.Fatal("development mode must fall back to a secret")
	}
	if cfg.RedisAddr() != "" {
		t.Fatalf("redis must be disabled by default, got %q", cfg.RedisAddr())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("JWT_EXPIRE", "3600")
	t.Setenv("GMAIL_POLL_INTERVAL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.JWT.Expire != time.Hour {
		t.Errorf("expire = %v", cfg.JWT.Expire)
	}
	if cfg.Gmail.PollInterval != 90*time.Second {
		t.Errorf("poll interval = %v", cfg.Gmail.PollInterval)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.RedisAddr() != "cache:6379" {
		t.Errorf("redis addr = %q", cfg.RedisAddr())
	}
}

func TestFromEnvRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"release without secret", map[string]string{"GIN_MODE": "release", "JWT_SECRET_KEY": ""}},
		{"bad duration", map[string]string{"JWT_EXPIRE": "soon"}},
		{"bad int", map[string]string{"REDIS_DB": "one"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
