// Package journal provides implementations of smartlaunch's Journaler
// interface: a line-delimited JSON writer for the journal file, a human
// readable writer for the console, and a reader for the journal file.
package journal

import (
	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch"
)

// multiWriter combines multiple journalers.
type multiWriter struct {
	writers []smartlaunch.Journaler
}

// MultiWriter creates a journaler that writes to multiple other journalers.
// Nil journalers are skipped.
func MultiWriter(ws ...smartlaunch.Journaler) smartlaunch.Journaler {
	writers := make([]smartlaunch.Journaler, 0, len(ws))
	for _, w := range ws {
		if w != nil {
			writers = append(writers, w)
		}
	}

	return &multiWriter{writers}
}

// Write writes the event to every journaler, even if some fail. The first
// error is returned.
func (w *multiWriter) Write(event smartlaunch.Event) error {
	var firstErr error
	for _, writer := range w.writers {
		if err := writer.Write(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
