package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "REDIS_ADDR", "STAGING_TTL", "SAMPLE_SIZE", "LOG_MODE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.HTTPAddr != ":8080" || c.DBDriver != "sqlite" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.StagingTTL != 600*time.Second {
		t.Fatalf("staging ttl = %v, want 600s", c.StagingTTL)
	}
	if c.SampleSize != 20 {
		t.Fatalf("sample size = %d, want 20", c.SampleSize)
	}
	if c.RedisAddr != "" {
		t.Fatalf("redis addr should default to empty, got %q", c.RedisAddr)
	}
	if !c.EnableLocalAuth || c.LogMode != "dev" {
		t.Fatalf("offline mode should enable local auth and dev logs: %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("STAGING_TTL", "90")
	t.Setenv("SAMPLE_SIZE", "5")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")
	c := FromEnv()
	if c.StagingTTL != 90*time.Second {
		t.Fatalf("staging ttl = %v", c.StagingTTL)
	}
	if c.SampleSize != 5 {
		t.Fatalf("sample size = %d", c.SampleSize)
	}
	got := c.CORSOrigins()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("cors origins = %v", got)
	}
	if c.LogMode != "prod" {
		t.Fatalf("online mode should default to prod logs, got %q", c.LogMode)
	}

	t.Setenv("STAGING_TTL", "2m")
	if d := FromEnv().StagingTTL; d != 2*time.Minute {
		t.Fatalf("duration form: %v", d)
	}
	t.Setenv("SAMPLE_SIZE", "nope")
	if n := FromEnv().SampleSize; n != 20 {
		t.Fatalf("bad int should fall back, got %d", n)
	}
}
