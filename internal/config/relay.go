package config

import "time"

// Relay tunes the outbox poller that publishes sale and product events.
type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
	// MetricsPort serves /metrics when the relay runs as its own binary.
	MetricsPort uint32 `env:"RELAY_METRICS_PORT" envDefault:"9091"`
}
