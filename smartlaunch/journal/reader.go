package journal

import (
	"bufio"
	"io"
	"os"
	"time"

	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ErrMalformed is returned by Reader when a line is not a valid event.
var ErrMalformed = errors.New("malformed journal entry")

// Reader implements a primitive reader that can parse journals written by
// Writer from top to bottom.
type Reader struct {
	s *bufio.Scanner
}

// NewReader creates a new journal reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{bufio.NewScanner(r)}
}

// Read reads a single entry. An EOF error is returned if the reader has been
// fully consumed.
func (r *Reader) Read() (smartlaunch.Event, time.Time, error) {
	var line []byte

	for len(line) == 0 {
		if !r.s.Scan() {
			if err := r.s.Err(); err != nil {
				return nil, time.Time{}, err
			}
			return nil, time.Time{}, io.EOF
		}
		line = r.s.Bytes()
	}

	var rawEvent struct {
		Time time.Time       `json:"time"`
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(line, &rawEvent); err != nil {
		return nil, time.Time{}, errors.Wrapf(ErrMalformed, "failed to decode JSON: %v", err)
	}

	event := smartlaunch.NewEvent(rawEvent.Type)
	if event == nil {
		return nil, time.Time{}, errors.Wrapf(ErrMalformed, "unknown event %q", rawEvent.Type)
	}

	if err := json.Unmarshal(rawEvent.Data, event); err != nil {
		return nil, time.Time{}, errors.Wrapf(ErrMalformed, "failed to decode event data: %v", err)
	}

	return event, rawEvent.Time, nil
}

// Entry is a journaled event and the time it was written.
type Entry struct {
	Time  time.Time
	Event smartlaunch.Event
}

// ReadLastRunFromFile reads the last run from the journal file at path.
func ReadLastRunFromFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadLastRun(f)
}

// ReadLastRun returns the entries since the last EventScheduled, which starts
// every run. Lines that fail to decode are skipped.
func ReadLastRun(r io.Reader) ([]Entry, error) {
	reader := NewReader(r)

	var entries []Entry

	for {
		ev, t, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			if errors.Is(err, ErrMalformed) {
				// The file may have been cut off mid-line by a crash.
				continue
			}
			return entries, err
		}

		if _, ok := ev.(*smartlaunch.EventScheduled); ok {
			entries = entries[:0]
		}

		entries = append(entries, Entry{Time: t, Event: ev})
	}
}
