package smartlaunch

import (
	"testing"
	"time"
)

func TestReminders(t *testing.T) {
	t.Run("sweep", func(t *testing.T) {
		var r Reminders
		var fired []int

		for remaining := 2 * time.Hour; remaining > 0; remaining -= time.Second {
			th, ok := r.Next(remaining)
			if !ok {
				continue
			}

			if remaining >= th.Before {
				t.Errorf("%d minute reminder fired early at %v", th.Minutes(), remaining)
			}
			if remaining < th.Before-time.Second {
				t.Errorf("%d minute reminder fired late at %v", th.Minutes(), remaining)
			}

			fired = append(fired, th.Minutes())
		}

		expect := []int{60, 30, 15, 5, 1}
		if !equalInts(fired, expect) {
			t.Errorf("expected reminders %v, got %v", expect, fired)
		}

		for _, th := range Thresholds {
			if !r.Fired(th.Before) {
				t.Errorf("%d minute reminder not marked as fired", th.Minutes())
			}
		}
	})

	t.Run("clock jump", func(t *testing.T) {
		var r Reminders

		// The last tick saw 6 minutes left without firing anything, the next
		// one sees 4 minutes.
		if th, ok := r.Next(4 * time.Minute); !ok || th.Minutes() != 5 {
			t.Fatalf("expected 5 minute reminder, got %v (ok=%v)", th, ok)
		}

		for remaining := 4*time.Minute - time.Second; remaining >= time.Minute; remaining -= time.Second {
			if th, ok := r.Next(remaining); ok {
				t.Fatalf("unexpected %d minute reminder at %v", th.Minutes(), remaining)
			}
		}

		if th, ok := r.Next(59 * time.Second); !ok || th.Minutes() != 1 {
			t.Fatalf("expected 1 minute reminder, got %v (ok=%v)", th, ok)
		}

		for _, minutes := range []time.Duration{15, 30, 60} {
			if r.Fired(minutes * time.Minute) {
				t.Errorf("skipped %d minute reminder marked as fired", minutes)
			}
		}
	})

	t.Run("exactly once", func(t *testing.T) {
		var r Reminders

		if _, ok := r.Next(30 * time.Second); !ok {
			t.Fatal("expected 1 minute reminder")
		}

		// Nothing wider can fire after the tightest one did, even if the
		// clock goes backwards.
		for _, remaining := range []time.Duration{30 * time.Second, 2 * time.Minute, 50 * time.Minute} {
			if th, ok := r.Next(remaining); ok {
				t.Errorf("unexpected %d minute reminder at %v", th.Minutes(), remaining)
			}
		}
	})

	t.Run("outside windows", func(t *testing.T) {
		var r Reminders

		for _, remaining := range []time.Duration{time.Hour, 3 * time.Hour} {
			if th, ok := r.Next(remaining); ok {
				t.Errorf("unexpected %d minute reminder at %v", th.Minutes(), remaining)
			}
		}
	})
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
