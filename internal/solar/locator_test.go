package solar

import "testing"

func testEvents() []Event {
	return []Event{
		{Name: EventDawn, StartTime: 6 * 3600},
		{Name: EventSunrise, StartTime: 7 * 3600},
		{Name: EventNoon, StartTime: 12 * 3600},
		{Name: EventSunset, StartTime: 18 * 3600},
		{Name: EventDusk, StartTime: 19 * 3600},
	}
}

func TestLocate_MidDay(t *testing.T) {
	events := testEvents()

	current := Locate(events, 13*3600, 0)
	if current.Name != EventNoon {
		t.Errorf("Expected current event 'noon', got '%s'", current.Name)
	}

	next := Locate(events, 13*3600, 1)
	if next.Name != EventSunset {
		t.Errorf("Expected next event 'sunset', got '%s'", next.Name)
	}
}

func TestLocate_ExactlyAtEventStart(t *testing.T) {
	events := testEvents()

	// At an event's exact start the previous event is still current
	current := Locate(events, 12*3600, 0)
	if current.Name != EventSunrise {
		t.Errorf("Expected current event 'sunrise' at exact noon start, got '%s'", current.Name)
	}
}

func TestLocate_BeforeFirstEventWrapsToLast(t *testing.T) {
	events := testEvents()

	// 03:00 is before dawn, so yesterday's dusk is still current
	current := Locate(events, 3*3600, 0)
	if current.Name != EventDusk {
		t.Errorf("Expected current event 'dusk' before dawn, got '%s'", current.Name)
	}

	next := Locate(events, 3*3600, 1)
	if next.Name != EventDawn {
		t.Errorf("Expected next event 'dawn' before dawn, got '%s'", next.Name)
	}
}

func TestLocate_AfterLastEventWrapsToFirst(t *testing.T) {
	events := testEvents()

	current := Locate(events, 23*3600, 0)
	if current.Name != EventDusk {
		t.Errorf("Expected current event 'dusk' late evening, got '%s'", current.Name)
	}

	next := Locate(events, 23*3600, 1)
	if next.Name != EventDawn {
		t.Errorf("Expected next event 'dawn' late evening, got '%s'", next.Name)
	}
}

func TestLocate_UnsortedInput(t *testing.T) {
	events := []Event{
		{Name: EventDusk, StartTime: 19 * 3600},
		{Name: EventDawn, StartTime: 6 * 3600},
		{Name: EventNoon, StartTime: 12 * 3600},
		{Name: EventSunset, StartTime: 18 * 3600},
		{Name: EventSunrise, StartTime: 7 * 3600},
	}

	current := Locate(events, 13*3600, 0)
	if current.Name != EventNoon {
		t.Errorf("Expected current event 'noon' with unsorted input, got '%s'", current.Name)
	}
}

func TestLocate_TimeOutsideDayNormalized(t *testing.T) {
	events := testEvents()

	// 13:00 tomorrow normalizes to 13:00 today
	current := Locate(events, SecondsPerDay+13*3600, 0)
	if current.Name != EventNoon {
		t.Errorf("Expected current event 'noon' for wrapped time, got '%s'", current.Name)
	}
}
