package smartlaunch

import "time"

// Threshold is a remaining-time boundary that triggers a one-shot reminder.
type Threshold struct {
	Before  time.Duration
	Message string
}

// Minutes returns the threshold in whole minutes.
func (t Threshold) Minutes() int {
	return int(t.Before / time.Minute)
}

// Thresholds lists the reminder thresholds from the tightest to the widest.
// Reminders only ever fire in the reverse of this order.
var Thresholds = []Threshold{
	{time.Minute, "Server closing in one minute!"},
	{5 * time.Minute, "Server closing in five minutes!"},
	{15 * time.Minute, "Server closing in fifteen minutes."},
	{30 * time.Minute, "Server closing in thirty minutes."},
	{time.Hour, "Server closing in one hour."},
}

// Reminders tracks which thresholds have fired. A zero-value instance has
// fired nothing. Thresholds are checked from the tightest to the widest, and a
// threshold can only fire while neither it nor any tighter threshold has fired,
// so each fires at most once and in descending order.
type Reminders struct {
	fired uint8 // bit i is set once Thresholds[i] has fired
}

// Next returns the reminder to announce for the given remaining time, if any,
// and marks it as fired. Only the tightest window that remaining is in is
// considered, so windows skipped over between two calls never fire.
func (r *Reminders) Next(remaining time.Duration) (Threshold, bool) {
	for i, t := range Thresholds {
		if remaining >= t.Before {
			continue
		}

		if r.fired&(1<<(i+1)-1) != 0 {
			return Threshold{}, false
		}

		r.fired |= 1 << i
		return t, true
	}

	return Threshold{}, false
}

// Fired returns true if the reminder for the threshold with the given
// duration has been announced. Thresholds that were skipped over are reported
// as not fired.
func (r *Reminders) Fired(before time.Duration) bool {
	for i, t := range Thresholds {
		if t.Before == before {
			return r.fired&(1<<i) != 0
		}
	}

	return false
}
