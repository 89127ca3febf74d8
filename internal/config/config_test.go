package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("CACHE_USER_TTL_SECONDS", "")
	t.Setenv("RABBITMQ_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %s", cfg.App.Addr())
	}
	if cfg.Cache.UserTTL() != time.Minute {
		t.Fatalf("unexpected cache ttl %s", cfg.Cache.UserTTL())
	}
	if cfg.RabbitMQ.URL != "" {
		t.Fatalf("expected rabbitmq disabled by default")
	}
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid REDIS_DB")
	}
}

func TestClientTimeoutDisabledByDefault(t *testing.T) {
	t.Setenv("MODCTL_TIMEOUT_SECONDS", "")
	t.Setenv("MODCTL_SESSION_FILE", "/tmp/modctl-session.json")

	cfg := LoadClient()
	if cfg.Timeout() != 0 {
		t.Fatalf("expected no timeout, got %s", cfg.Timeout())
	}
	if cfg.SessionFile != "/tmp/modctl-session.json" {
		t.Fatalf("unexpected session file %s", cfg.SessionFile)
	}
}
