package surface

import "fmt"

// InputType selects how a binding reacts to presses.
type InputType int

const (
	InputRadio     InputType = iota // one of N cells selected
	InputToggle                     // flips on press
	InputOneshot                    // true for one Tick after a press
	InputMomentary                  // true while held
	InputRandom                     // picks a random option of another radio binding
)

var inputTypeNames = map[InputType]string{
	InputRadio:     "radio",
	InputToggle:    "toggle",
	InputOneshot:   "oneshot",
	InputMomentary: "momentary",
	InputRandom:    "random",
}

func (t InputType) String() string {
	if name, ok := inputTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("InputType(%d)", int(t))
}

// ParseInputType accepts the lowercase names used in layout files.
func ParseInputType(s string) (InputType, error) {
	for t, name := range inputTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown input type %q", s)
}

// Value is the current state of one binding. The concrete type always
// matches the binding's InputType.
type Value interface {
	Type() InputType
}

type (
	RadioValue     int  // selected option index
	ToggleValue    bool // latched state
	OneshotValue   bool // pulse, reset every Tick
	MomentaryValue bool // held state
	RandomValue    bool // triggers hold no state; always false
)

func (RadioValue) Type() InputType     { return InputRadio }
func (ToggleValue) Type() InputType    { return InputToggle }
func (OneshotValue) Type() InputType   { return InputOneshot }
func (MomentaryValue) Type() InputType { return InputMomentary }
func (RandomValue) Type() InputType    { return InputRandom }

// AsIndex unwraps a radio value.
func AsIndex(v Value) (int, bool) {
	if r, ok := v.(RadioValue); ok {
		return int(r), true
	}
	return 0, false
}

// AsBool unwraps any of the boolean variants.
func AsBool(v Value) (bool, bool) {
	switch b := v.(type) {
	case ToggleValue:
		return bool(b), true
	case OneshotValue:
		return bool(b), true
	case MomentaryValue:
		return bool(b), true
	case RandomValue:
		return bool(b), true
	}
	return false, false
}

func zeroValue(t InputType) Value {
	switch t {
	case InputRadio:
		return RadioValue(0)
	case InputToggle:
		return ToggleValue(false)
	case InputOneshot:
		return OneshotValue(false)
	case InputMomentary:
		return MomentaryValue(false)
	default:
		return RandomValue(false)
	}
}

// Binding ties a set of cells to one named input.
type Binding struct {
	Key   string
	Type  InputType
	Cells []Cell // for radio bindings the position is the option index

	// nil means ColorOn / ColorDim
	ActiveColor   *Color
	InactiveColor *Color

	// Default overrides the type's zero value. Its variant must match Type.
	Default Value

	// Random bindings only.
	Target         string // key of a radio binding
	IncludeCurrent bool   // allow re-selecting the target's current option
}

func (b *Binding) colors() (active, inactive Color) {
	active, inactive = ColorOn, ColorDim
	if b.ActiveColor != nil {
		active = *b.ActiveColor
	}
	if b.InactiveColor != nil {
		inactive = *b.InactiveColor
	}
	return active, inactive
}
