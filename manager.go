package xfeed

import (
	"errors"
	"fmt"

	"github.com/teenjuna/xfeed/journal"
)

// Transfer directions, used as metric labels and journal keys.
const (
	DirectionInfeed  = "infeed"
	DirectionOutfeed = "outfeed"
)

// Manager owns one [QueueManager] per transfer direction: infeed carries
// data into the running computation, outfeed carries results out. The two
// queues are fully independent; they share no state and never block each
// other.
//
// A Manager is created once per runtime session and reset on session
// boundaries.
type Manager struct {
	infeed  *QueueManager
	outfeed *QueueManager
	journal *journal.Journal
}

// New creates a Manager.
//
// Default configuration:
//   - Metrics: unregistered (see [Prometheus])
//   - Journal: disabled (see [Journal])
func New(options ...Option) (*Manager, error) {
	cfg := newConfig(options...)

	var jnl *journal.Journal
	if cfg.journal != nil {
		var err error
		jnl, err = journal.New(
			journal.WithFile(cfg.journal.file),
			journal.WithDurable(cfg.journal.durable),
		)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
	}

	m := cfg.metrics.metrics()

	manager := Manager{
		infeed:  newQueueManager(DirectionInfeed, m, jnl),
		outfeed: newQueueManager(DirectionOutfeed, m, jnl),
		journal: jnl,
	}

	return &manager, nil
}

// Infeed returns the queue carrying data into the computation.
func (m *Manager) Infeed() *QueueManager {
	return m.infeed
}

// Outfeed returns the queue carrying data out of the computation.
func (m *Manager) Outfeed() *QueueManager {
	return m.outfeed
}

// Journal returns the lifecycle journal, or nil when journaling is
// disabled.
func (m *Manager) Journal() *journal.Journal {
	return m.journal
}

// Reset drains both directions, see [QueueManager.Reset]. The order is
// infeed first, then outfeed, though the two are independent and the order
// is not observable to compliant callers.
func (m *Manager) Reset() {
	m.infeed.Reset()
	m.outfeed.Reset()
}

// Close releases resources held by the manager. Buffers still queued are
// not touched; call Reset first to drain them.
func (m *Manager) Close() error {
	errs := make([]error, 0)

	if m.journal != nil {
		if err := m.journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}

	return errors.Join(errs...)
}
