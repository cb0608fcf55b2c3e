package smartlaunch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// TimeLayout is the layout used whenever the scheduled time is shown to
// players, in the server banner or in webhook messages.
const TimeLayout = "2006-01-02 15:04:05 -07:00"

// Schedule is the moment a shutdown must be initiated. It is always in the
// future relative to when it was resolved.
type Schedule struct {
	At time.Time
}

// String formats the schedule using TimeLayout.
func (s Schedule) String() string {
	return s.At.Format(TimeLayout)
}

// Remaining returns the time left until the schedule, which is negative once
// it has passed.
func (s Schedule) Remaining(now time.Time) time.Duration {
	return s.At.Sub(now)
}

// RangeError is returned when an hour or minute is out of range.
type RangeError struct {
	Field string // "hours" or "minutes"
	Value int
	Max   int
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("%s must be between 0 and %d, got %d", err.Field, err.Max, err.Value)
}

// Resolve returns the next occurrence of hour:minute:00 after now, in now's
// location. If that time of day has already passed today (or is exactly now),
// it is moved to tomorrow.
func Resolve(hour, minute int, now time.Time) (Schedule, error) {
	if hour < 0 || hour > 23 {
		return Schedule{}, &RangeError{Field: "hours", Value: hour, Max: 23}
	}
	if minute < 0 || minute > 59 {
		return Schedule{}, &RangeError{Field: "minutes", Value: minute, Max: 59}
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}

	return Schedule{At: at}, nil
}

// ParseClock parses a "HH:MM" time of day.
func ParseClock(clock string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, 0, errors.Errorf("invalid time %q, expected HH:MM", clock)
	}

	hour, err = parseField("hours", h, 23)
	if err != nil {
		return 0, 0, err
	}

	minute, err = parseField("minutes", m, 59)
	if err != nil {
		return 0, 0, err
	}

	return hour, minute, nil
}

func parseField(field, s string, limit int) (int, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse %s", field)
	}
	if v > uint64(limit) {
		return 0, &RangeError{Field: field, Value: int(v), Max: limit}
	}
	return int(v), nil
}

// Prompt interactively asks for the hours and minutes of the shutdown on r,
// writing prompts and warnings to w. Invalid input restarts the prompt from
// the hours. An error is only returned if r fails or runs out.
func Prompt(r io.Reader, w io.Writer, now time.Time) (Schedule, error) {
	scanner := bufio.NewScanner(r)

	ask := func(prompt, field string, limit int) (int, bool, error) {
		fmt.Fprint(w, prompt)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, false, errors.Wrap(err, "failed to read input")
			}
			return 0, false, io.ErrUnexpectedEOF
		}

		v, err := parseField(field, scanner.Text(), limit)
		if err != nil {
			fmt.Fprintln(w, "[WARN]", err)
			return 0, false, nil
		}

		return v, true, nil
	}

	for {
		fmt.Fprintln(w, "\nInsert time for scheduled server shutdown")

		hour, ok, err := ask("Hours > ", "hours", 23)
		if err != nil {
			return Schedule{}, err
		}
		if !ok {
			continue
		}

		minute, ok, err := ask("Minutes > ", "minutes", 59)
		if err != nil {
			return Schedule{}, err
		}
		if !ok {
			continue
		}

		return Resolve(hour, minute, now)
	}
}
