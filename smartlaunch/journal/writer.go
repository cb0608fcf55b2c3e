package journal

import (
	"bytes"
	"io"
	"sync"
	"time"

	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings for the journal file.
const (
	DefaultMaxSizeMB  = 5
	DefaultMaxBackups = 3
)

// Event describes the JSON structure of an event to be written.
type Event struct {
	Time time.Time         `json:"time"`
	Type string            `json:"type"`
	Data smartlaunch.Event `json:"data"`
}

// Writer is a simple journaler that writes line-delimited JSON events into the
// writer.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

var _ smartlaunch.Journaler = (*Writer)(nil)

// NewWriter creates a new journal writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, now: time.Now}
}

// Write writes the given event into the writer. Writes are concurrently safe
// and each event is written in a single call.
func (l *Writer) Write(ev smartlaunch.Event) error {
	evJSON := Event{
		Time: l.now(),
		Type: ev.Type(),
		Data: ev,
	}

	buf := bytes.Buffer{}
	buf.Grow(512)

	// The encoder terminates each event with a new line.
	if err := json.NewEncoder(&buf).Encode(evJSON); err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write event")
	}

	return nil
}

// FileJournaler is a journaler writing into a size-rotated journal file. It
// must be closed by the caller.
type FileJournaler struct {
	*Writer
	f *lj.Logger
}

// NewFileJournaler creates a journaler that appends to the file at path,
// rotating it once it grows past DefaultMaxSizeMB.
func NewFileJournaler(path string) *FileJournaler {
	f := &lj.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
	}

	return &FileJournaler{
		Writer: NewWriter(f),
		f:      f,
	}
}

// Close closes the journal file.
func (f *FileJournaler) Close() error {
	return f.f.Close()
}
