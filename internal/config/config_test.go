package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"REDIS_URL", "SERVER_PORT", "ORDER_LOCK_TTL", "INVOICE_DUE_DAYS", "LOG_LEVEL", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "", cfg.RedisURL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.OrderLockTTL)
	assert.Equal(t, 14, cfg.InvoiceDueDays)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20.0, cfg.RateLimitPerSecond)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://invoices.db")
	t.Setenv("ORDER_LOCK_TTL", "5")
	t.Setenv("INVOICE_DUE_DAYS", "not-a-number")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()
	assert.Equal(t, "sqlite://invoices.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.OrderLockTTL)
	assert.Equal(t, 14, cfg.InvoiceDueDays)
	assert.Equal(t, 2.5, cfg.RateLimitPerSecond)
	assert.Equal(t, "json", cfg.LoggerConfig().Format)
}

func TestLoadRejectsNonPositiveLockTTL(t *testing.T) {
	for _, value := range []string{"0", "-5"} {
		t.Setenv("ORDER_LOCK_TTL", value)
		assert.Equal(t, 30*time.Second, Load().OrderLockTTL, "ORDER_LOCK_TTL=%s", value)
	}
}
