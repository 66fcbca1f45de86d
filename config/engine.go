package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// EngineConfig holds every tunable of the client engine.
type EngineConfig struct {
	// Endpoint is the WebSocket URL of the game server, e.g. wss://host/ws.
	Endpoint string
	// APIBase is the HTTP base URL for one-shot pulls, e.g. https://host.
	APIBase string

	// HeartbeatInterval is the ping cadence in both directions. The
	// server uses the same value; silence for two intervals counts as
	// a dead connection.
	HeartbeatInterval time.Duration

	// Reconnect backoff: delay = min(BackoffBase * 2^attempt, BackoffCap),
	// giving 1s, 2s, 4s, 8s, 15s with the defaults. After MaxAttempts
	// the engine gives up and surfaces a fatal connection-lost notice.
	BackoffBase time.Duration
	BackoffCap  time.Duration
	MaxAttempts int

	// HandshakeTimeout bounds the wait for the welcome frame.
	HandshakeTimeout time.Duration

	// PullDelay is how long after joining a room the engine waits
	// before issuing the fallback state pull.
	PullDelay time.Duration

	// KeepAliveInterval is the cadence of the cheap HTTP ping that
	// proactively detects dead connections. Zero disables it.
	KeepAliveInterval time.Duration
}

// Default returns the engine defaults, matched to the server's 20s
// heartbeat and the observed 5-attempt reconnect policy.
func Default() *EngineConfig {
	return &EngineConfig{
		Endpoint:          "ws://localhost:8080/ws",
		APIBase:           "http://localhost:8080",
		HeartbeatInterval: 20 * time.Second,
		BackoffBase:       1 * time.Second,
		BackoffCap:        15 * time.Second,
		MaxAttempts:       5,
		HandshakeTimeout:  10 * time.Second,
		PullDelay:         500 * time.Millisecond,
		KeepAliveInterval: 5 * time.Minute,
	}
}

// FromEnv loads the configuration from environment variables, falling
// back to defaults for any missing values. A .env file in the working
// directory is honored via godotenv.
func FromEnv() *EngineConfig {
	cfg := Default()

	if v := os.Getenv("SCRAWL_WS_URL"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("SCRAWL_API_URL"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("SCRAWL_HEARTBEAT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HeartbeatInterval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("SCRAWL_MAX_RECONNECT_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}
	return cfg
}

// Validate rejects configurations the transport cannot work with.
func (c *EngineConfig) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("endpoint %q: scheme must be ws or wss", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q: missing host", c.Endpoint)
	}
	if c.BackoffBase <= 0 || c.BackoffCap < c.BackoffBase {
		return fmt.Errorf("backoff base %v and cap %v are inconsistent", c.BackoffBase, c.BackoffCap)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %v", c.HeartbeatInterval)
	}
	return nil
}
