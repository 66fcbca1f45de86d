package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchesServerContract(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 20*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, time.Second, cfg.BackoffBase)
	assert.Equal(t, 15*time.Second, cfg.BackoffCap)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SCRAWL_WS_URL", "wss://play.example.com/ws")
	t.Setenv("SCRAWL_API_URL", "https://play.example.com")
	t.Setenv("SCRAWL_HEARTBEAT_SECONDS", "10")
	t.Setenv("SCRAWL_MAX_RECONNECT_ATTEMPTS", "8")

	cfg := FromEnv()

	assert.Equal(t, "wss://play.example.com/ws", cfg.Endpoint)
	assert.Equal(t, "https://play.example.com", cfg.APIBase)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 8, cfg.MaxAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("SCRAWL_HEARTBEAT_SECONDS", "not-a-number")
	t.Setenv("SCRAWL_MAX_RECONNECT_ATTEMPTS", "-2")

	cfg := FromEnv()

	assert.Equal(t, 20*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 5, cfg.MaxAttempts)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"http scheme", func(c *EngineConfig) { c.Endpoint = "http://host/ws" }},
		{"missing host", func(c *EngineConfig) { c.Endpoint = "ws:///ws" }},
		{"zero backoff base", func(c *EngineConfig) { c.BackoffBase = 0 }},
		{"cap below base", func(c *EngineConfig) { c.BackoffCap = c.BackoffBase / 2 }},
		{"zero attempts", func(c *EngineConfig) { c.MaxAttempts = 0 }},
		{"zero heartbeat", func(c *EngineConfig) { c.HeartbeatInterval = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
