package solar

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/etokheim/scene-extrapolation/internal/extrapolate"
)

// SecondsPerDay is the length of the timeline's domain
const SecondsPerDay = 86400

// minFallbackGap keeps a fallback-substituted event at least this far after
// its predecessor so substitution never reorders the timeline
const minFallbackGap = 30 * 60

// Solar event names, in chronological order
const (
	EventDawn    = "dawn"
	EventSunrise = "sunrise"
	EventNoon    = "noon"
	EventSunset  = "sunset"
	EventDusk    = "dusk"
)

// EventNames lists the five solar events in chronological order
var EventNames = []string{EventDawn, EventSunrise, EventNoon, EventSunset, EventDusk}

// Event is one solar event of a day's timeline: a name, a start time in
// seconds since local midnight, and the scene bound to it. Timelines are
// built fresh per activation and discarded afterwards.
type Event struct {
	Name      string
	StartTime int
	Scene     extrapolate.Snapshot
}

// suncalcNames maps our event names to the suncalc day time names
var suncalcNames = map[string]suncalc.DayTimeName{
	EventDawn:    suncalc.Dawn,
	EventSunrise: suncalc.Sunrise,
	EventNoon:    suncalc.SolarNoon,
	EventSunset:  suncalc.Sunset,
	EventDusk:    suncalc.Dusk,
}

// BuildTimeline computes the five solar event times for a date and location,
// in seconds since local midnight. Events the astronomy cannot define
// (polar day or night) get a deterministic seasonal fallback raised to at
// least 30 minutes after the previous event. Dusk is clamped upward to
// duskMinimum, never downward. Scenes on the returned events are left empty
// for the caller to bind.
func BuildTimeline(date time.Time, latitude, longitude float64, tz *time.Location, duskMinimum int, logger *slog.Logger) ([]Event, error) {
	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("invalid latitude %v", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("invalid longitude %v", longitude)
	}

	localDate := date.In(tz)
	localNoon := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 12, 0, 0, 0, tz)
	times := suncalc.GetTimes(localNoon, latitude, longitude)

	events := make([]Event, 0, len(EventNames))
	previous := -1

	for _, name := range EventNames {
		startTime, ok := eventSeconds(times[suncalcNames[name]].Value, localNoon, tz)
		if ok {
			// An earlier fallback can sit past a computed successor;
			// raising the successor keeps the timeline ordered
			if startTime < previous {
				startTime = previous
			}
		} else {
			startTime = seasonalFallback(name, localDate.Month(), latitude)
			if previous >= 0 && startTime < previous+minFallbackGap {
				startTime = previous + minFallbackGap
			}
			logger.Info("Solar event undefined, using seasonal fallback",
				"event", name,
				"fallback_seconds", startTime,
				"latitude", latitude,
				"month", int(localDate.Month()))
		}

		if name == EventDusk && startTime < duskMinimum {
			logger.Debug("Clamping dusk to configured minimum",
				"computed_seconds", startTime,
				"minimum_seconds", duskMinimum)
			startTime = duskMinimum
		}

		events = append(events, Event{Name: name, StartTime: startTime})
		previous = startTime
	}

	return events, nil
}

// eventSeconds converts an astronomical event time to seconds since local
// midnight, reporting false for the garbage values suncalc produces when
// the event does not occur (continuous daylight or darkness)
func eventSeconds(t time.Time, localNoon time.Time, tz *time.Location) (int, bool) {
	if t.IsZero() {
		return 0, false
	}

	diff := t.Sub(localNoon)
	if diff < -24*time.Hour || diff > 24*time.Hour {
		return 0, false
	}

	local := t.In(tz)
	return local.Hour()*3600 + local.Minute()*60 + local.Second(), true
}

// SecondsSinceMidnight returns t's position within its local day
func SecondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
