package solar

import "time"

// Seasonal fallback times of day (seconds since midnight) used when the
// astronomy leaves an event undefined. Two six-month tables per event,
// selected by hemisphere and calendar month, so repeated calls for the
// same date and location always yield the same substitute.
var seasonalFallbacks = map[string]struct{ winter, summer int }{
	EventDawn:    {winter: 7 * 3600, summer: 5 * 3600},
	EventSunrise: {winter: 8 * 3600, summer: 6 * 3600},
	EventNoon:    {winter: 12 * 3600, summer: 13 * 3600},
	EventSunset:  {winter: 16 * 3600, summer: 21 * 3600},
	EventDusk:    {winter: 17 * 3600, summer: 22 * 3600},
}

// seasonalFallback returns the substitute time of day for an event the
// astronomy could not define
func seasonalFallback(event string, month time.Month, latitude float64) int {
	entry := seasonalFallbacks[event]
	if isSummerHalf(month, latitude) {
		return entry.summer
	}
	return entry.winter
}

// isSummerHalf reports whether the month falls in the bright half of the
// year for the hemisphere. The equator is grouped with the north.
func isSummerHalf(month time.Month, latitude float64) bool {
	northernSummer := month >= time.April && month <= time.September
	if latitude >= 0 {
		return northernSummer
	}
	return !northernSummer
}
