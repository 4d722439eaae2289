// Package journal records buffer lifecycle events to SQLite.
//
// The journal is an observability aid for debugging feed stalls and leaks:
// one row per event, metadata only, never buffer contents.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/teenjuna/xfeed/internal"
)

var (
	// ErrClosed is returned by Journal methods when the journal has been closed.
	ErrClosed = errors.New("journal is closed")
)

// Buffer lifecycle events.
const (
	// EventEnqueue: the buffer entered the pending queue.
	EventEnqueue = "enqueue"
	// EventDequeue: the consumer took the buffer as its current buffer.
	EventDequeue = "dequeue"
	// EventRelease: the consumer released the buffer.
	EventRelease = "release"
	// EventDrop: a reset dropped the buffer unconsumed.
	EventDrop = "drop"
)

const (
	memory = ":memory:"
)

// Journal is an append-only record of buffer lifecycle events backed by
// SQLite. All methods are safe for concurrent use.
type Journal struct {
	cfg *Config
	db  *sql.DB
}

// New creates a new Journal with the provided configuration functions.
//
// Default configuration:
//   - File: ":memory:" (in-memory database)
//   - Durable: false
//
// Returns an error if the SQLite database cannot be opened or initialized.
func New(configFuncs ...ConfigFunc) (*Journal, error) {
	cfg := &Config{}
	cfg.File(memory)
	for _, cf := range configFuncs {
		cf(cfg)
	}

	db, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if err := setup(db); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	journal := Journal{
		cfg: cfg,
		db:  db,
	}

	return &journal, nil
}

// Record appends one event for a buffer of the given byte length moving
// through the given direction.
//
// Returns [ErrClosed] if the journal has been closed.
func (j *Journal) Record(direction, event string, length int32) error {
	_, err := j.db.Exec(
		`
		insert into event (
			direction,
			event,
			length,
			at
		) values (
			:direction,
			:event,
			:length,
			:at
		)
		`,
		sql.Named("direction", direction),
		sql.Named("event", event),
		sql.Named("length", length),
		sql.Named("at", toTimestamp(time.Now())),
	)
	if err != nil && err.Error() == "sql: database is closed" {
		return ErrClosed
	}
	return err
}

// Events returns up to limit of the most recent events, newest first.
//
// Returns [ErrClosed] if the journal has been closed.
func (j *Journal) Events(limit int) ([]Event, error) {
	rows, err := j.db.Query(
		`
		select
			id,
			direction,
			event,
			length,
			at
		from
			event
		order by
			id desc
		limit :limit
		`,
		sql.Named("limit", limit),
	)
	if err != nil && err.Error() == "sql: database is closed" {
		return nil, ErrClosed
	} else if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)

	for rows.Next() {
		var (
			e  Event
			at int64
		)
		if err := rows.Scan(&e.ID, &e.Direction, &e.Event, &e.Length, &at); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		e.At = fromTimestamp(at)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return events, nil
}

// Stats returns per-event counts over the whole journal, broken down by
// direction. Directions with no events are absent from the map.
func (j *Journal) Stats() (map[string]Stats, error) {
	rows, err := j.db.Query(
		`
		select
			direction,
			coalesce(sum(event = 'enqueue'), 0) as enqueued,
			coalesce(sum(event = 'dequeue'), 0) as dequeued,
			coalesce(sum(event = 'release'), 0) as released,
			coalesce(sum(event = 'drop'), 0) as dropped
		from
			event
		group by
			direction
		`,
	)
	if err != nil && err.Error() == "sql: database is closed" {
		return nil, ErrClosed
	} else if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]Stats)

	for rows.Next() {
		var (
			direction string
			s         Stats
		)
		if err := rows.Scan(&direction, &s.Enqueued, &s.Dequeued, &s.Released, &s.Dropped); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		stats[direction] = s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return stats, nil
}

// Close closes the underlying SQLite database.
//
// After closing, all methods on Journal will return [ErrClosed].
func (j *Journal) Close() error {
	return j.db.Close()
}

// Event is one recorded buffer lifecycle event.
type Event struct {
	// ID is the monotonically increasing event number.
	ID int64
	// Direction the buffer was moving through.
	Direction string
	// Event is one of the Event* constants.
	Event string
	// Length is the buffer's byte length.
	Length int32
	// At is the time the event was recorded.
	At time.Time
}

// Stats are per-direction event counts.
type Stats struct {
	// Enqueued is the number of buffers handed to the queue.
	Enqueued int
	// Dequeued is the number of buffers taken by the consumer.
	Dequeued int
	// Released is the number of buffers released by the consumer.
	Released int
	// Dropped is the number of buffers dropped unconsumed by a reset.
	Dropped int
}

func open(cfg *Config) (*sql.DB, error) {
	params := url.Values{}
	params.Add("_txlock", "immediate")
	params.Add("_timeout", "5000") // 5s
	file := cfg.file
	if file == memory {
		file = internal.GenerateID()
		params.Add("mode", "memory")
		params.Add("cache", "shared")
	} else {
		params.Add("_journal", "wal")
		if cfg.durable {
			params.Add("_sync", "full")
		} else {
			params.Add("_sync", "normal")
		}
	}

	db, err := sql.Open("sqlite3", "file:"+file+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}

func setup(db *sql.DB) error {
	// Create table for events.
	if _, err := db.Exec(
		`
		create table if not exists event (
			id        integer primary key autoincrement,
			direction text not null,
			event     text not null,
			length    int not null,
			at        int not null
		) strict
		`,
	); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	// Create the index for the stats logic.
	if _, err := db.Exec(
		`
		create index if not exists idx_event_stats
		on event (direction, event)
		`,
	); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	return nil
}

func toTimestamp(time time.Time) int64 {
	return time.UnixNano()
}

func fromTimestamp(timestamp int64) time.Time {
	return time.Unix(0, timestamp)
}
