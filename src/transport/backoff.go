package transport

import (
	"github.com/cenkalti/backoff/v4"

	"github.com/scrawlparty/client/config"
)

// newBackoffPolicy builds the reconnect delay schedule:
// min(base * 2^attempt, cap), deterministic. With the defaults that is
// 1s, 2s, 4s, 8s, 15s.
func newBackoffPolicy(cfg *config.EngineConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BackoffBase
	b.Multiplier = 2
	b.MaxInterval = cfg.BackoffCap
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
