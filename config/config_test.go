package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8090", cfg.Server.GRPCPort)
	assert.Equal(t, "omnipos_ledger.db", cfg.SQLite.Path)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "MT", cfg.Business.Currency)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SQLITE_PATH", "/tmp/pos.db")
	t.Setenv("SQLITE_MAX_OPEN_CONNS", "2")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SCHEDULER_ENABLED", "not-a-bool")

	cfg := LoadEnv()

	assert.Equal(t, "/tmp/pos.db", cfg.SQLite.Path)
	assert.Equal(t, 2, cfg.SQLite.MaxOpenConns)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	// unparsable values fall back
	assert.True(t, cfg.Scheduler.Enabled)
}
