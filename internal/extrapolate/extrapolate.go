package extrapolate

import (
	"fmt"
	"math"
)

// The extrapolator family: pure functions computing the intermediate value
// of one attribute between a "from" and "to" scene at a given transition
// progress (0-100). Discrete attributes flip at the 50% threshold; numeric
// attributes interpolate linearly per channel. A nil side borrows the other
// side's value instead of interpolating against a guessed default, except
// brightness which defaults a missing side to 0.

// discreteThreshold is the progress at or below which a discrete attribute
// keeps the "from" side's value
const discreteThreshold = 50.0

// Value computes the intermediate scalar between from and to at progress.
// The outer abs keeps negative-safe hue handling; for non-negative inputs
// the formula is plain linear interpolation. A result outside the range
// spanned by the endpoints is a computation defect and is surfaced, never
// clamped.
func Value(from, to, progress float64) (float64, error) {
	value := math.Abs(from - (from-to)*progress/100)

	lower := math.Min(from, to)
	upper := math.Max(from, to)
	if value < lower || value > upper {
		return 0, fmt.Errorf("extrapolated value %v outside endpoints [%v, %v] at progress %v",
			value, from, to, progress)
	}

	return value, nil
}

// roundedValue is Value rounded to the nearest integer
func roundedValue(from, to, progress float64) (int, error) {
	value, err := Value(from, to, progress)
	if err != nil {
		return 0, err
	}
	return int(math.Round(value)), nil
}

// State selects the discrete state for the transition: the "from" side up to
// and including 50% progress, the "to" side after. A side without a state
// borrows the other side's value.
func State(from, to *string, progress float64) *string {
	return pickDiscrete(from, to, progress)
}

// Effect selects the effect string with the same threshold rule as State
func Effect(from, to *string, progress float64) *string {
	return pickDiscrete(from, to, progress)
}

// ColorMode selects which color mode's channels are extrapolated. If only
// one side declares a mode it is adopted for both; if both declare
// different modes the side chosen by the discrete threshold wins.
func ColorMode(from, to *string, progress float64) *string {
	return pickDiscrete(from, to, progress)
}

func pickDiscrete(from, to *string, progress float64) *string {
	if from == nil {
		return to
	}
	if to == nil {
		return from
	}
	if progress <= discreteThreshold {
		return from
	}
	return to
}

// Brightness interpolates brightness (0-255), treating a missing side as 0,
// then applies the brightness modifier as a multiplicative adjustment
// clamped to [0, 255]. The endpoint sanity check runs before the modifier;
// the modifier is allowed to push the result to the clamp boundary.
func Brightness(from, to *int, progress float64, modifier int) (*int, error) {
	if from == nil && to == nil {
		return nil, nil
	}

	fromValue := 0
	if from != nil {
		fromValue = *from
	}
	toValue := 0
	if to != nil {
		toValue = *to
	}

	value, err := roundedValue(float64(fromValue), float64(toValue), progress)
	if err != nil {
		return nil, fmt.Errorf("brightness (modifier %d): %w", modifier, err)
	}

	adjusted := int(math.Round(float64(value) * (1 + float64(modifier)/100)))
	if adjusted < 0 {
		adjusted = 0
	}
	if adjusted > 255 {
		adjusted = 255
	}

	return &adjusted, nil
}

// ColorTempKelvin interpolates color temperature; a missing side borrows
// the other side's value
func ColorTempKelvin(from, to *int, progress float64) (*int, error) {
	if from == nil && to == nil {
		return nil, nil
	}
	if from == nil {
		from = to
	}
	if to == nil {
		to = from
	}

	value, err := roundedValue(float64(*from), float64(*to), progress)
	if err != nil {
		return nil, fmt.Errorf("color_temp_kelvin: %w", err)
	}
	return &value, nil
}

// RGB interpolates an RGB color per channel; a side missing the attribute
// substitutes the other side's full value (no partial-channel mixing)
func RGB(from, to *[3]int, progress float64) (*[3]int, error) {
	if from == nil && to == nil {
		return nil, nil
	}
	if from == nil {
		from = to
	}
	if to == nil {
		to = from
	}

	var result [3]int
	for i := range result {
		value, err := roundedValue(float64(from[i]), float64(to[i]), progress)
		if err != nil {
			return nil, fmt.Errorf("rgb_color channel %d: %w", i, err)
		}
		result[i] = value
	}
	return &result, nil
}

// HS interpolates a hue/saturation pair per channel
func HS(from, to *[2]float64, progress float64) (*[2]float64, error) {
	if from == nil && to == nil {
		return nil, nil
	}
	if from == nil {
		from = to
	}
	if to == nil {
		to = from
	}

	var result [2]float64
	for i := range result {
		value, err := Value(from[i], to[i], progress)
		if err != nil {
			return nil, fmt.Errorf("hs_color channel %d: %w", i, err)
		}
		result[i] = math.Round(value)
	}
	return &result, nil
}

// RGBW interpolates an RGBW color per channel
func RGBW(from, to *[4]int, progress float64) (*[4]int, error) {
	if from == nil && to == nil {
		return nil, nil
	}
	if from == nil {
		from = to
	}
	if to == nil {
		to = from
	}

	var result [4]int
	for i := range result {
		value, err := roundedValue(float64(from[i]), float64(to[i]), progress)
		if err != nil {
			return nil, fmt.Errorf("rgbw_color channel %d: %w", i, err)
		}
		result[i] = value
	}
	return &result, nil
}

// RGBWW interpolates an RGBWW color per channel
func RGBWW(from, to *[5]int, progress float64) (*[5]int, error) {
	if from == nil && to == nil {
		return nil, nil
	}
	if from == nil {
		from = to
	}
	if to == nil {
		to = from
	}

	var result [5]int
	for i := range result {
		value, err := roundedValue(float64(from[i]), float64(to[i]), progress)
		if err != nil {
			return nil, fmt.Errorf("rgbww_color channel %d: %w", i, err)
		}
		result[i] = value
	}
	return &result, nil
}
