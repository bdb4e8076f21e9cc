package surface

// Snapshot is the full LED state of the controller for one frame.
type Snapshot struct {
	Page         int                       `json:"page"`
	Grid         [GridRows][GridCols]Color `json:"grid"` // current page, row 0 on top
	PageSelect   [NumPages]Color           `json:"pageSelect"`
	FaderButtons [NumFaders]Color          `json:"faderButtons"`
}

// LED is one addressed grid color, as consumed by output adapters.
type LED struct {
	Cell  Cell  `json:"cell"`
	Color Color `json:"color"`
}

// Cells lists the grid LEDs of the snapshot with their full addresses.
func (s Snapshot) Cells() []LED {
	leds := make([]LED, 0, GridRows*GridCols)
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			leds = append(leds, LED{
				Cell:  Cell{Page: s.Page, Row: row, Col: col},
				Color: s.Grid[row][col],
			})
		}
	}
	return leds
}

// LEDs returns the snapshot computed by the last Tick or RegisterAll.
func (r *Registry) LEDs() Snapshot {
	return r.leds
}

// LEDColor is the color a cell shows given the current binding state.
// Unregistered cells are always ColorOff.
func (r *Registry) LEDColor(page, row, col int) Color {
	o, ok := r.cells[Cell{Page: page, Row: row, Col: col}]
	if !ok {
		return ColorOff
	}
	e := r.entries[o.key]
	active, inactive := e.binding.colors()

	var on bool
	switch e.binding.Type {
	case InputRadio:
		idx, _ := AsIndex(e.value)
		on = idx == o.index
	case InputToggle, InputOneshot, InputMomentary:
		on, _ = AsBool(e.value)
	case InputRandom:
		on = true
	}
	if on {
		return active
	}
	return inactive
}

func (r *Registry) snapshot() Snapshot {
	s := Snapshot{Page: r.page}
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			s.Grid[row][col] = r.LEDColor(r.page, row, col)
		}
	}
	s.PageSelect[r.page] = PageColor(r.page)
	for i, gated := range r.faders.gate {
		if gated {
			s.FaderButtons[i] = ColorOn
		}
	}
	return s
}
