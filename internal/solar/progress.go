package solar

import "fmt"

// Progress returns how far atSeconds sits between the current and next
// event as a percentage in [0, 100]. Pairs that straddle midnight are
// handled by unrolling the span across the day boundary. A result outside
// [0, 100] indicates a timeline ordering defect and is surfaced as an
// error, never clamped.
func Progress(current, next Event, atSeconds int) (float64, error) {
	at := ((atSeconds % SecondsPerDay) + SecondsPerDay) % SecondsPerDay

	var span, remaining int
	if current.StartTime > next.StartTime {
		// The pair straddles midnight
		span = SecondsPerDay - current.StartTime + next.StartTime
		if at < next.StartTime {
			// Already past midnight
			remaining = next.StartTime - at
		} else {
			remaining = SecondsPerDay - at + next.StartTime
		}
	} else {
		span = next.StartTime - current.StartTime
		remaining = next.StartTime - at
	}

	if span == 0 {
		return 0, nil
	}

	progress := 100 * float64(span-remaining) / float64(span)
	if progress < 0 || progress > 100 {
		return 0, fmt.Errorf("transition progress %v outside [0, 100] (current %s@%d, next %s@%d, at %d)",
			progress, current.Name, current.StartTime, next.Name, next.StartTime, at)
	}

	return progress, nil
}
