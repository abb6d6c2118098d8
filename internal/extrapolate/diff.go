package extrapolate

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Engine computes the set of device updates that move every entity of two
// scenes to the intermediate state at a given transition progress
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a new diff engine
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Diff unions the entity ids of both snapshots and computes one DeviceUpdate
// per usable entity. An entity present only in toScene is treated on the
// fromScene side as a synthetic {state: off} record; the snapshot is cloned
// first so the caller's copy is never mutated. Entities with an unusable
// recorded state are skipped and logged. Per-entity work runs concurrently;
// a computation invariant violation in any entity fails the whole diff
// because it indicates a logic defect, not bad input.
func (e *Engine) Diff(fromScene, toScene Snapshot, progress float64, transitionSeconds, brightnessModifier int) ([]DeviceUpdate, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("transition progress %v outside [0, 100]", progress)
	}

	from := fromScene.Clone()
	entityIDs := make([]string, 0, len(from.Entities)+len(toScene.Entities))
	for id := range from.Entities {
		entityIDs = append(entityIDs, id)
	}
	for id := range toScene.Entities {
		if _, ok := from.Entities[id]; !ok {
			from.Entities[id] = SynthesizeOff()
			entityIDs = append(entityIDs, id)
		}
	}
	sort.Strings(entityIDs)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		updates []DeviceUpdate
		errs    []error
	)

	for _, entityID := range entityIDs {
		wg.Add(1)
		go func(entityID string) {
			defer wg.Done()

			fromAttrs := from.Entities[entityID]
			toAttrs, ok := toScene.Entities[entityID]
			if !ok {
				toAttrs = SynthesizeOff()
			}

			if !fromAttrs.Usable() || !toAttrs.Usable() {
				e.logger.Debug("Skipping unusable entity",
					"entity_id", entityID,
					"from_scene", fromScene.Name,
					"to_scene", toScene.Name)
				return
			}

			update, err := e.extrapolateEntity(entityID, fromAttrs, toAttrs, progress, transitionSeconds, brightnessModifier)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("entity %s: %w", entityID, err))
				return
			}
			updates = append(updates, update)
		}(entityID)
	}

	wg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return updates, nil
}

// extrapolateEntity computes a single entity's update between two attribute
// snapshots
func (e *Engine) extrapolateEntity(entityID string, from, to Attributes, progress float64, transitionSeconds, brightnessModifier int) (DeviceUpdate, error) {
	transition := transitionSeconds

	state := State(from.State, to.State, progress)
	resultState := StateOn
	if state != nil {
		resultState = *state
	}

	update := DeviceUpdate{
		EntityID: entityID,
		Domain:   Domain(entityID),
		Action:   ActionForState(resultState),
		Attributes: UpdateAttributes{
			Transition: &transition,
		},
	}

	dimmable := from.Brightness != nil || to.Brightness != nil

	// A turn-off on a dimmable device carries only the transition; color
	// and brightness attributes would be rejected by the host
	if update.Action == "turn_off" && dimmable {
		return update, nil
	}
	if update.Action != "turn_on" {
		// Locks, covers and friends have no light attributes to carry
		return update, nil
	}

	update.Attributes.State = state

	brightness, err := Brightness(from.Brightness, to.Brightness, progress, brightnessModifier)
	if err != nil {
		return DeviceUpdate{}, err
	}
	update.Attributes.Brightness = brightness

	effect := Effect(from.Effect, to.Effect, progress)
	update.Attributes.Effect = effect

	if err := e.extrapolateColor(&update.Attributes, from, to, progress); err != nil {
		return DeviceUpdate{}, err
	}

	return update, nil
}

// extrapolateColor fills in the color channels for the selected color mode.
// When neither side declares a mode, each channel family present on at
// least one side is extrapolated independently.
func (e *Engine) extrapolateColor(attrs *UpdateAttributes, from, to Attributes, progress float64) error {
	mode := ColorMode(from.ColorMode, to.ColorMode, progress)

	emitColorTemp := mode == nil || *mode == "color_temp"
	emitRGB := mode == nil || *mode == "rgb"
	emitHS := mode == nil || *mode == "hs"
	emitRGBW := mode == nil || *mode == "rgbw"
	emitRGBWW := mode == nil || *mode == "rgbww"

	if emitColorTemp {
		colorTemp, err := ColorTempKelvin(from.ColorTempKelvin, to.ColorTempKelvin, progress)
		if err != nil {
			return err
		}
		attrs.ColorTempKelvin = colorTemp
	}
	if emitRGB {
		rgb, err := RGB(from.RGBColor, to.RGBColor, progress)
		if err != nil {
			return err
		}
		attrs.RGBColor = rgb
	}
	if emitHS {
		hs, err := HS(from.HSColor, to.HSColor, progress)
		if err != nil {
			return err
		}
		attrs.HSColor = hs
	}
	if emitRGBW {
		rgbw, err := RGBW(from.RGBWColor, to.RGBWColor, progress)
		if err != nil {
			return err
		}
		attrs.RGBWColor = rgbw
	}
	if emitRGBWW {
		rgbww, err := RGBWW(from.RGBWWColor, to.RGBWWColor, progress)
		if err != nil {
			return err
		}
		attrs.RGBWWColor = rgbww
	}

	return nil
}
