package medication

import "time"

// MinuteOf truncates t to whole minutes. Minute granularity is the canonical
// key unit: generated instances and logged entries join on it, so every
// comparison between scheduled times must go through this function.
func MinuteOf(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// Schedule is an immutable value describing one medication's dosing pattern.
// Edits to a medication always produce a new Schedule value; a schedule is
// never mutated during a reconciliation pass.
type Schedule struct {
	Anchor         time.Time
	FrequencyHours int
	DurationDays   int
}

// NewSchedule builds a Schedule with the anchor truncated to the minute.
func NewSchedule(anchor time.Time, frequencyHours, durationDays int) Schedule {
	return Schedule{
		Anchor:         MinuteOf(anchor),
		FrequencyHours: frequencyHours,
		DurationDays:   durationDays,
	}
}

// Valid reports whether the schedule can generate any instances. A
// non-positive frequency or duration yields zero instances, never an error:
// partially configured medications must still render.
func (s Schedule) Valid() bool {
	return s.FrequencyHours > 0 && s.DurationDays > 0 && !s.Anchor.IsZero()
}

// Interval is the fixed elapsed time between doses. Stepping adds this fixed
// interval rather than calendar hours so successive instances are always
// exactly FrequencyHours apart in elapsed seconds, regardless of DST.
func (s Schedule) Interval() time.Duration {
	return time.Duration(s.FrequencyHours) * time.Hour
}

// End is the exclusive end of the schedule: DurationDays calendar days after
// the anchor. Calendar day arithmetic, not 24h multiplication, to match
// calendar-based "N days".
func (s Schedule) End() time.Time {
	return s.Anchor.AddDate(0, 0, s.DurationDays)
}

// Expand generates the ordered expected dose instants inside the half-open
// window [from, to), further bounded by the schedule end. An invalid schedule
// expands to nil.
//
// When the anchor predates the window, the first candidate is found by
// fast-forwarding whole multiples of the interval in one step, so expanding a
// window far from the anchor stays O(instances in window) rather than
// O(elapsed time since anchor).
func (s Schedule) Expand(from, to time.Time) []time.Time {
	if !s.Valid() {
		return nil
	}

	interval := s.Interval()
	if end := s.End(); end.Before(to) {
		to = end
	}

	first := s.Anchor
	if first.Before(from) {
		elapsed := from.Sub(first)
		steps := elapsed / interval
		if elapsed%interval != 0 {
			steps++
		}
		first = first.Add(steps * interval)
	}

	var out []time.Time
	for t := first; t.Before(to); t = t.Add(interval) {
		out = append(out, t)
	}
	return out
}

// Instances generates every expected dose instant over the schedule's whole
// lifetime.
func (s Schedule) Instances() []time.Time {
	if !s.Valid() {
		return nil
	}
	return s.Expand(s.Anchor, s.End())
}
