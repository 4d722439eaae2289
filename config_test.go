package xfeed_test

import (
	"testing"

	"github.com/teenjuna/xfeed"
	"github.com/teenjuna/xfeed/internal/testing/require"
)

func TestOptions(t *testing.T) {
	require.PanicWithError(t, "metrics config can't be nil", func() {
		xfeed.WithMetrics(nil)
	})

	require.PanicWithError(t, "journal config can't be nil", func() {
		xfeed.WithJournal(nil)
	})
}

func TestJournalConfig(t *testing.T) {
	// Validation happens when the journal is opened, not when the config is
	// built.
	require.PanicWithError(t, "file can't be blank", func() {
		_, _ = xfeed.New(xfeed.WithJournal(xfeed.Journal("  ")))
	})
	require.PanicWithError(t, "file can't contain ?", func() {
		_, _ = xfeed.New(xfeed.WithJournal(xfeed.Journal("file?key=value")))
	})
}
