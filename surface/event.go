package surface

// EventKind is what happened to a control.
type EventKind int

const (
	EventPress   EventKind = iota // button went down (Intensity > 0)
	EventRelease                  // button came up
	EventChange                   // continuous control moved
)

// Zone is the physical area of the controller an event came from.
type Zone int

const (
	ZoneUnknown     Zone = iota
	ZoneGrid             // 8x8 pads, addressed by Row/Col
	ZoneFader            // faders 0-8, addressed by Index
	ZoneFaderButton      // buttons under the faders, Index 0-8
	ZonePageSelect       // scene buttons on the right, Index 0-7
)

// Event is a decoded controller input. Intensity is the raw 0-127 value
// (velocity for buttons, position for faders).
type Event struct {
	Kind      EventKind
	Zone      Zone
	Row, Col  int
	Index     int
	Intensity float64
}

func PadPress(row, col int, velocity float64) Event {
	return Event{Kind: EventPress, Zone: ZoneGrid, Row: row, Col: col, Intensity: velocity}
}

func PadRelease(row, col int) Event {
	return Event{Kind: EventRelease, Zone: ZoneGrid, Row: row, Col: col}
}

func FaderChange(index int, raw float64) Event {
	return Event{Kind: EventChange, Zone: ZoneFader, Index: index, Intensity: raw}
}

func FaderButtonPress(index int) Event {
	return Event{Kind: EventPress, Zone: ZoneFaderButton, Index: index, Intensity: 127}
}

func PageSelect(index int) Event {
	return Event{Kind: EventPress, Zone: ZonePageSelect, Index: index, Intensity: 127}
}

// pressed treats a press with zero velocity as a release, the way
// NoteOn velocity 0 is a NoteOff.
func (e Event) pressed() bool {
	return e.Kind == EventPress && e.Intensity > 0
}

func (e Event) released() bool {
	return e.Kind == EventRelease || (e.Kind == EventPress && e.Intensity <= 0)
}
