package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("LICENSEGUARD_SECURITY_MASTER_SECRET", testSecret)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 60, cfg.Engine.RateLimitPerHour)
		assert.Equal(t, 10, cfg.Detector.ExcessiveChecks)
		assert.Equal(t, 24*time.Hour, cfg.Detector.DomainsWindow)
		assert.Equal(t, 3, cfg.Detector.UserAgentsPerDomain)
		assert.Equal(t, 5, cfg.Detector.ProductMismatches)
		assert.Equal(t, 30*time.Minute, cfg.Countermeasure.ExcessiveFailuresBlock)
		assert.Equal(t, time.Hour, cfg.Sweeper.Interval)
		assert.Empty(t, cfg.Postgres.DSN)
		assert.Empty(t, cfg.Kafka.Brokers)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("LICENSEGUARD_SECURITY_MASTER_SECRET", testSecret)
		t.Setenv("LICENSEGUARD_ENGINE_RATE_LIMIT_PER_HOUR", "120")
		t.Setenv("LICENSEGUARD_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.Engine.RateLimitPerHour)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("LICENSEGUARD_SECURITY_MASTER_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects non-positive detector and countermeasure settings", func(t *testing.T) {
		cases := map[string]string{
			"LICENSEGUARD_DETECTOR_CHECKS_WINDOW":                   "0s",
			"LICENSEGUARD_DETECTOR_FAILURES_WINDOW":                 "-1m",
			"LICENSEGUARD_DETECTOR_EXCESSIVE_CHECKS":                "0",
			"LICENSEGUARD_DETECTOR_USER_AGENTS_PER_DOMAIN":          "-3",
			"LICENSEGUARD_DETECTOR_MISMATCH_WINDOW":                 "0s",
			"LICENSEGUARD_COUNTERMEASURE_EXCESSIVE_CHECKS_THROTTLE": "0s",
			"LICENSEGUARD_COUNTERMEASURE_MULTIPLE_DOMAINS_BLOCK":    "-24h",
		}
		for env, value := range cases {
			t.Run(env, func(t *testing.T) {
				t.Setenv("LICENSEGUARD_SECURITY_MASTER_SECRET", testSecret)
				t.Setenv(env, value)
				_, err := Load()
				assert.Error(t, err)
			})
		}
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("LICENSEGUARD_SECURITY_MASTER_SECRET", "short")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDeriveKeys(t *testing.T) {
	cfg := &Config{Security: SecurityConfig{MasterSecret: testSecret}}

	keys, err := cfg.DeriveKeys()
	require.NoError(t, err)
	assert.Len(t, keys.Fingerprint, derivedKeyLength)
	assert.Len(t, keys.Signing, derivedKeyLength)
	assert.NotEqual(t, keys.Fingerprint, keys.Signing)

	again, err := cfg.DeriveKeys()
	require.NoError(t, err)
	assert.Equal(t, keys, again)
}
