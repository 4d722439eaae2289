package xfeed

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the
// manager. Every metric carries a "direction" label ("infeed"/"outfeed").
//
// An instance can be created only by the [Prometheus] function. The zero
// value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the pending buffers gauge.
	Pending prometheus.GaugeOpts
	// Options for the enqueued buffers counter.
	Enqueued prometheus.CounterOpts
	// Options for the released buffers counter.
	Released prometheus.CounterOpts
	// Options for the counter of buffers dropped by Reset.
	Dropped prometheus.CounterOpts
	// Options for the dequeue wait duration histogram.
	DequeueWait prometheus.HistogramOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If
// registerer is nil, metrics will not be registered. Many default parameters
// can be configured by passing configuration functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	const (
		namespace = "xfeed"
		subsystem = ""
	)

	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		Pending: prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "buffers_pending",
			Help:      "Number of buffers waiting to be dequeued",
		},
		Enqueued: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "buffers_enqueued",
			Help:      "Number of buffers handed to the queue",
		},
		Released: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "buffers_released",
			Help:      "Number of buffers released by the consumer",
		},
		Dropped: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "buffers_dropped",
			Help:      "Number of unconsumed buffers dropped by Reset",
		},
		DequeueWait: prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dequeue_wait_duration",
			Help:      "Seconds the consumer spent blocked in Dequeue",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 10, 8),
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	labels := []string{"direction"}

	m := metrics{
		pending:     prometheus.NewGaugeVec(c.Pending, labels),
		enqueued:    prometheus.NewCounterVec(c.Enqueued, labels),
		released:    prometheus.NewCounterVec(c.Released, labels),
		dropped:     prometheus.NewCounterVec(c.Dropped, labels),
		dequeueWait: prometheus.NewHistogramVec(c.DequeueWait, labels),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.pending,
			m.enqueued,
			m.released,
			m.dropped,
			m.dequeueWait,
		)
	}

	return &m
}

type metrics struct {
	pending     *prometheus.GaugeVec
	enqueued    *prometheus.CounterVec
	released    *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	dequeueWait *prometheus.HistogramVec
}
