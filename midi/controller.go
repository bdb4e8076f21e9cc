package midi

import "go-vj/surface"

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerAPCMini
)

func (t ControllerType) String() string {
	if t == ControllerAPCMini {
		return "apc-mini"
	}
	return "unknown"
}

// ParseControllerType reads the type names stored in the config file.
func ParseControllerType(s string) ControllerType {
	if s == "apc-mini" {
		return ControllerAPCMini
	}
	return ControllerUnknown
}

// LEDUpdate is one LED change. Grid LEDs use Row/Col, the button rows use Index.
type LEDUpdate struct {
	Zone     surface.Zone
	Row, Col int
	Index    int
	Color    surface.Color
}

// Controller is the interface for MIDI control surfaces
type Controller interface {
	ID() string
	Type() ControllerType

	// Decoded input. Closed by Close.
	Events() <-chan surface.Event

	SetLEDBatch(updates []LEDUpdate) error

	Close() error
}

// SnapshotUpdates lists every LED of s, for a full refresh.
func SnapshotUpdates(s surface.Snapshot) []LEDUpdate {
	return DiffUpdates(nil, s)
}

// DiffUpdates lists the LEDs that differ between prev and next. A nil prev
// yields every LED.
func DiffUpdates(prev *surface.Snapshot, next surface.Snapshot) []LEDUpdate {
	var updates []LEDUpdate
	for row := 0; row < surface.GridRows; row++ {
		for col := 0; col < surface.GridCols; col++ {
			c := next.Grid[row][col]
			if prev == nil || prev.Grid[row][col] != c {
				updates = append(updates, LEDUpdate{Zone: surface.ZoneGrid, Row: row, Col: col, Color: c})
			}
		}
	}
	for i, c := range next.PageSelect {
		if prev == nil || prev.PageSelect[i] != c {
			updates = append(updates, LEDUpdate{Zone: surface.ZonePageSelect, Index: i, Color: c})
		}
	}
	for i, c := range next.FaderButtons {
		if prev == nil || prev.FaderButtons[i] != c {
			updates = append(updates, LEDUpdate{Zone: surface.ZoneFaderButton, Index: i, Color: c})
		}
	}
	return updates
}
