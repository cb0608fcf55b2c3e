package smartlaunch

import (
	"reflect"
	"sync"
	"testing"
)

// mockJournal records every event in memory. The zero value is ready to use.
type mockJournal struct {
	mutex    sync.Mutex
	journals []Event
}

var _ Journaler = (*mockJournal)(nil)

func (m *mockJournal) Write(ev Event) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.journals = append(m.journals, ev)
	return nil
}

// Journals returns a copy of the journal slice.
func (m *mockJournal) Journals() []Event {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]Event(nil), m.journals...)
}

// Filter returns all journaled events of the same type as the given event.
func (m *mockJournal) Filter(like Event) []Event {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var events []Event
	for _, ev := range m.journals {
		if ev.Type() == like.Type() {
			events = append(events, ev)
		}
	}

	return events
}

// Verify checks that the recorded events start with the given ones, then
// consumes them. With strict, the lengths must match too. The events left over
// are returned, so that a later call continues where this one stopped.
func (m *mockJournal) Verify(t *testing.T, strict bool, journals []Event) []Event {
	t.Helper()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if strict && len(journals) != len(m.journals) {
		t.Errorf("expected %d events, got %d", len(journals), len(m.journals))
		for i, ev := range m.journals {
			t.Logf("journal %d: %#v", i, ev)
		}
		return nil
	}

	if len(journals) > len(m.journals) {
		t.Errorf("journal too short, got %d, expected at least %d", len(m.journals), len(journals))
		return nil
	}

	for i, ev := range journals {
		if !reflect.DeepEqual(m.journals[i], ev) {
			t.Errorf("event %d: got %#v, expected %#v", i, m.journals[i], ev)
		}
	}

	m.journals = m.journals[len(journals):]
	return m.journals
}
