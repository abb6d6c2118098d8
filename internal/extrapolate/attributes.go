package extrapolate

import "strings"

// Attributes holds the device attributes recorded by a scene for one entity.
// Every field is optional; a nil field means the scene did not record that
// attribute and the value is borrowed from the other side during
// extrapolation.
type Attributes struct {
	State           *string      `json:"state,omitempty" yaml:"state,omitempty"`
	ColorMode       *string      `json:"color_mode,omitempty" yaml:"color_mode,omitempty"`
	Brightness      *int         `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	ColorTempKelvin *int         `json:"color_temp_kelvin,omitempty" yaml:"color_temp_kelvin,omitempty"`
	RGBColor        *[3]int      `json:"rgb_color,omitempty" yaml:"rgb_color,omitempty"`
	HSColor         *[2]float64  `json:"hs_color,omitempty" yaml:"hs_color,omitempty"`
	RGBWColor       *[4]int      `json:"rgbw_color,omitempty" yaml:"rgbw_color,omitempty"`
	RGBWWColor      *[5]int      `json:"rgbww_color,omitempty" yaml:"rgbww_color,omitempty"`
	Effect          *string      `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// Snapshot is a read-only projection of a user-configured scene: entity ids
// mapped to the attributes the scene recorded for them
type Snapshot struct {
	ID       string                `json:"id" yaml:"id"`
	Name     string                `json:"name" yaml:"name"`
	Entities map[string]Attributes `json:"entities" yaml:"entities"`
}

// Clone returns a deep-enough copy of the snapshot whose entity map can be
// mutated without aliasing the caller's copy
func (s Snapshot) Clone() Snapshot {
	entities := make(map[string]Attributes, len(s.Entities))
	for id, attrs := range s.Entities {
		entities[id] = attrs
	}
	return Snapshot{
		ID:       s.ID,
		Name:     s.Name,
		Entities: entities,
	}
}

// SynthesizeOff returns the attributes assumed for an entity that one scene
// records and the other does not
func SynthesizeOff() Attributes {
	off := StateOff
	return Attributes{State: &off}
}

// Discrete states understood by the action mapping
const (
	StateOn       = "on"
	StateOff      = "off"
	StateLocked   = "locked"
	StateUnlocked = "unlocked"
	StateOpen     = "open"
	StateClosed   = "closed"
)

// unusableStates are entity states that drop the entity from the diff
// instead of producing an update
var unusableStates = map[string]bool{
	"unavailable": true,
	"unknown":     true,
	"problem":     true,
	"jammed":      true,
}

// Usable reports whether the recorded state allows the entity to be updated.
// A nil state is usable; it simply borrows the other side's value.
func (a Attributes) Usable() bool {
	if a.State == nil {
		return true
	}
	return !unusableStates[strings.ToLower(*a.State)]
}

// ActionForState maps a discrete device state to the host action invoked to
// reach it
func ActionForState(state string) string {
	switch strings.ToLower(state) {
	case StateOff:
		return "turn_off"
	case StateLocked:
		return "lock"
	case StateUnlocked:
		return "unlock"
	case StateOpen:
		return "open"
	case StateClosed:
		return "close"
	default:
		return "turn_on"
	}
}

// Domain extracts the host domain from an entity id ("light.desk_lamp" -> "light")
func Domain(entityID string) string {
	if idx := strings.IndexByte(entityID, '.'); idx > 0 {
		return entityID[:idx]
	}
	return entityID
}

// UpdateAttributes is the attribute payload of a device update. Nil fields
// are stripped from the wire format by omitempty.
type UpdateAttributes struct {
	Transition      *int        `json:"transition,omitempty"`
	State           *string     `json:"state,omitempty"`
	Brightness      *int        `json:"brightness,omitempty"`
	ColorTempKelvin *int        `json:"color_temp_kelvin,omitempty"`
	RGBColor        *[3]int     `json:"rgb_color,omitempty"`
	HSColor         *[2]float64 `json:"hs_color,omitempty"`
	RGBWColor       *[4]int     `json:"rgbw_color,omitempty"`
	RGBWWColor      *[5]int     `json:"rgbww_color,omitempty"`
	Effect          *string     `json:"effect,omitempty"`
}

// DeviceUpdate is one unit of dispatcher work: a single host action call
// for a single entity
type DeviceUpdate struct {
	EntityID   string           `json:"entity_id"`
	Domain     string           `json:"domain"`
	Action     string           `json:"action"`
	Attributes UpdateAttributes `json:"attributes"`
}
