package scene

import (
	"fmt"
	"time"
)

// Modifier bounds accepted by the activation entry point
const (
	MaxTransitionSeconds = 6553
	MaxModifierPercent   = 100
)

// LocationOverride replaces the configured location for one activation
type LocationOverride struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`
}

// ActivationRequest is one scene activation command. TargetDateTime, when
// set, replaces the wall clock for the whole run, which makes activations
// deterministic to replay.
type ActivationRequest struct {
	Transition         int               `json:"transition"`
	BrightnessModifier int               `json:"brightness_modifier"`
	TransitionModifier int               `json:"transition_modifier"`
	TargetDateTime     string            `json:"target_datetime,omitempty"`
	Location           *LocationOverride `json:"location,omitempty"`
}

// Validate checks the request's modifier ranges
func (r *ActivationRequest) Validate() error {
	if r.Transition < 0 || r.Transition > MaxTransitionSeconds {
		return fmt.Errorf("transition must be between 0 and %d seconds, got %d", MaxTransitionSeconds, r.Transition)
	}
	if r.BrightnessModifier < -MaxModifierPercent || r.BrightnessModifier > MaxModifierPercent {
		return fmt.Errorf("brightness modifier must be between -100 and 100, got %d", r.BrightnessModifier)
	}
	if r.TransitionModifier < -MaxModifierPercent || r.TransitionModifier > MaxModifierPercent {
		return fmt.Errorf("transition modifier must be between -100 and 100, got %d", r.TransitionModifier)
	}
	return nil
}

// ResolveTime returns the evaluation time for the activation: the override
// when present, otherwise now, both normalized to the given timezone
func (r *ActivationRequest) ResolveTime(now time.Time, tz *time.Location) (time.Time, error) {
	if r.TargetDateTime == "" {
		return now.In(tz), nil
	}

	// Accept both full RFC3339 and a local date-time without offset
	if t, err := time.Parse(time.RFC3339, r.TargetDateTime); err == nil {
		return t.In(tz), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", r.TargetDateTime, tz); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid target_datetime %q", r.TargetDateTime)
}
