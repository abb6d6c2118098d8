package solar

import (
	"math"
	"testing"
)

func TestProgress_SameDayPair(t *testing.T) {
	current := Event{Name: EventNoon, StartTime: 12 * 3600}
	next := Event{Name: EventSunset, StartTime: 18 * 3600}

	progress, err := Progress(current, next, 15*3600)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress != 50 {
		t.Errorf("Expected progress 50, got %v", progress)
	}
}

func TestProgress_AtBoundaries(t *testing.T) {
	current := Event{Name: EventNoon, StartTime: 12 * 3600}
	next := Event{Name: EventSunset, StartTime: 18 * 3600}

	progress, err := Progress(current, next, 12*3600)
	if err != nil {
		t.Fatalf("Progress failed at start: %v", err)
	}
	if progress != 0 {
		t.Errorf("Expected progress 0 at current event, got %v", progress)
	}

	progress, err = Progress(current, next, 18*3600)
	if err != nil {
		t.Fatalf("Progress failed at end: %v", err)
	}
	if progress != 100 {
		t.Errorf("Expected progress 100 at next event, got %v", progress)
	}
}

func TestProgress_MidnightStraddle(t *testing.T) {
	// Dusk at 23:00, next dawn at 00:30; at 23:30 a third of the 90
	// minute span has elapsed
	current := Event{Name: EventDusk, StartTime: 23 * 3600}
	next := Event{Name: EventDawn, StartTime: 1800}

	progress, err := Progress(current, next, 23*3600+1800)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if math.Abs(progress-100.0/3) > 0.001 {
		t.Errorf("Expected progress %.4f, got %v", 100.0/3, progress)
	}
}

func TestProgress_MidnightStraddleAfterMidnight(t *testing.T) {
	current := Event{Name: EventDusk, StartTime: 23 * 3600}
	next := Event{Name: EventDawn, StartTime: 1800}

	// 00:15 is 75 minutes into the 90 minute span
	progress, err := Progress(current, next, 900)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if math.Abs(progress-100.0*75/90) > 0.001 {
		t.Errorf("Expected progress %.4f, got %v", 100.0*75/90, progress)
	}
}

func TestProgress_ZeroSpan(t *testing.T) {
	current := Event{Name: EventSunset, StartTime: 18 * 3600}
	next := Event{Name: EventDusk, StartTime: 18 * 3600}

	progress, err := Progress(current, next, 18*3600)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress != 0 {
		t.Errorf("Expected progress 0 for zero span, got %v", progress)
	}
}

func TestProgress_OutOfRangeIsError(t *testing.T) {
	current := Event{Name: EventNoon, StartTime: 12 * 3600}
	next := Event{Name: EventSunset, StartTime: 18 * 3600}

	// 20:00 is past the pair; the result must be surfaced, not clamped
	if _, err := Progress(current, next, 20*3600); err == nil {
		t.Error("Expected error for time past the event pair")
	}
}
