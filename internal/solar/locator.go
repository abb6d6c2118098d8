package solar

import "sort"

// Locate returns the event at the given offset from the "current" event for
// a moment of the day. The current event (offset 0) is the latest event
// starting at or before atSeconds; before the first event of the day it
// wraps to the last event (conceptually the previous day's), and past the
// last event the next lookup (offset 1) wraps into the first event of the
// following day.
func Locate(events []Event, atSeconds, offset int) Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	at := ((atSeconds % SecondsPerDay) + SecondsPerDay) % SecondsPerDay

	n := len(sorted)
	idx := sort.Search(n, func(i int) bool {
		return sorted[i].StartTime >= at
	})

	// idx is the first event not yet started; the one before it is current.
	// idx == 0 and idx == n both wrap to the last event of the day.
	current := ((idx - 1) + n) % n

	return sorted[((current+offset)%n+n)%n]
}
