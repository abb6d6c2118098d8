package solar

import "math"

// Shift converts the transition modifier percentage into a signed second
// offset applied to the evaluation time. A positive modifier pulls the
// effective time toward noon regardless of the hour; a negative one pulls
// it toward dawn before noon and toward dusk after.
func Shift(transitionModifier, nowSeconds int, dawn, noon, dusk Event) int {
	if transitionModifier == 0 {
		return 0
	}

	target := noon.StartTime
	if transitionModifier < 0 {
		if nowSeconds < noon.StartTime {
			target = dawn.StartTime
		} else {
			target = dusk.StartTime
		}
	}

	magnitude := transitionModifier
	if magnitude < 0 {
		magnitude = -magnitude
	}

	delta := target - nowSeconds
	return int(math.Round(float64(delta) * float64(magnitude) / 100))
}
