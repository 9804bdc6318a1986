package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != EnvDevelopment {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.Timeout != 15*time.Minute {
		t.Fatalf("expected 15m session timeout, got %s", cfg.Session.Timeout)
	}
	if cfg.MockAPI.LatencyMin != 300*time.Millisecond || cfg.MockAPI.LatencyMax != 800*time.Millisecond {
		t.Fatalf("unexpected latency range: %s-%s", cfg.MockAPI.LatencyMin, cfg.MockAPI.LatencyMax)
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %s", cfg.Storage.Driver)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_TIMEOUT":   "30s",
		"STORAGE_DRIVER":    "redis",
		"REDIS_ADDR":        "cache:6379",
		"MOCKAPI_FAIL_NEXT": "2",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Session.Timeout != 30*time.Second || cfg.Storage.Driver != StorageRedis || cfg.Redis.Addr != "cache:6379" || cfg.MockAPI.FailNext != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":    {"STORAGE_DRIVER": "etcd"},
		"inverted latency":  {"MOCKAPI_LATENCY_MIN": "900ms", "MOCKAPI_LATENCY_MAX": "100ms"},
		"production secret": {"ENV": "production"},
	}
	for name, env := range cases {
		if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
