package journal

import (
	"strings"
)

type Config struct {
	file    string
	durable bool
}

type ConfigFunc = func(c *Config)

// WithFile sets the SQLite database file, ":memory:" for an in-memory
// journal.
func WithFile(file string) ConfigFunc {
	return func(c *Config) {
		c.File(file)
	}
}

// WithDurable makes every write wait for a full fsync.
func WithDurable(durable bool) ConfigFunc {
	return func(c *Config) {
		c.Durable(durable)
	}
}

func (c *Config) File(file string) {
	file = strings.TrimSpace(file)
	if file == "" {
		panic("file can't be blank")
	}
	if strings.Contains(file, "?") {
		panic("file can't contain ?")
	}
	c.file = file
}

func (c *Config) Durable(durable bool) {
	c.durable = durable
}
