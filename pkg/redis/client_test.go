package redis

import (
	"testing"

	"github.com/printflowhq/printflow-backend/pkg/config"
)

func TestOptionsFromConfigRequiresURL(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without URL")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://localhost:6379/2",
		PoolSize: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 15 {
		t.Fatalf("pool size fallback not applied: %d", opts.PoolSize)
	}
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}
	if got := c.CacheKey("dashboard", "summary"); got != "pfw:cache:dashboard:summary" {
		t.Fatalf("unexpected cache key %q", got)
	}
	if got := c.LockKey("cron-worker"); got != "pfw:lock:cron-worker" {
		t.Fatalf("unexpected lock key %q", got)
	}
}
