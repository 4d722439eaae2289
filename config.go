package xfeed

import "strings"

type Option = func(*config)

// WithMetrics configures the Prometheus metrics of both queues. Build the
// config with [Prometheus].
func WithMetrics(metrics *PrometheusConfig) Option {
	if metrics == nil {
		panic("metrics config can't be nil")
	}
	return func(c *config) {
		c.metrics = metrics
	}
}

// WithJournal enables the SQLite lifecycle journal. Build the config with
// [Journal].
func WithJournal(journal *JournalConfig) Option {
	if journal == nil {
		panic("journal config can't be nil")
	}
	return func(c *config) {
		c.journal = journal
	}
}

type config struct {
	metrics *PrometheusConfig
	journal *JournalConfig
}

func newConfig(options ...Option) *config {
	options = append([]Option{
		WithMetrics(Prometheus(nil)),
	}, options...)

	cfg := config{}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}

// JournalConfig selects where the lifecycle journal is kept.
//
// An instance can be created only by the [Journal] function. The zero value
// is invalid.
type JournalConfig struct {
	file    string
	durable bool
}

// Journal returns a JournalConfig writing to file. Use ":memory:" to keep
// the journal in memory for the manager's lifetime.
func Journal(file string) *JournalConfig {
	return &JournalConfig{file: strings.TrimSpace(file)}
}

// Durable makes every journal write wait for a full fsync. Off by default:
// the journal is observability, not data of record.
func (c *JournalConfig) Durable(durable bool) *JournalConfig {
	c.durable = durable
	return c
}
