// Package surface maps the cells of a paged 8x8 grid controller to named,
// typed inputs and mirrors their state back as LED colors.
//
// A Registry is not safe for concurrent use. The owner (normally
// engine.Engine) serializes HandleEvent and Tick on one goroutine.
package surface

import "fmt"

// Grid geometry of the APC mini mk2.
const (
	GridRows  = 8
	GridCols  = 8
	NumPages  = 8 // one page per scene (side) button
	NumFaders = 9

	// FaderRawMax is the top of the raw fader range (7-bit CC value).
	FaderRawMax = 127
)

// Cell addresses one pad on one page. Row 0 is the top row.
type Cell struct {
	Page int `json:"page" yaml:"page"`
	Row  int `json:"row" yaml:"row"`
	Col  int `json:"col" yaml:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(page=%d, row=%d, col=%d)", c.Page, c.Row, c.Col)
}

// Valid reports whether the cell lies inside the device's pages and grid.
func (c Cell) Valid() bool {
	return c.Page >= 0 && c.Page < NumPages &&
		c.Row >= 0 && c.Row < GridRows &&
		c.Col >= 0 && c.Col < GridCols
}

// Row returns the cells of one grid row from col `from` to `to` inclusive.
func Row(page, row, from, to int) []Cell {
	var cells []Cell
	for col := from; col <= to; col++ {
		cells = append(cells, Cell{Page: page, Row: row, Col: col})
	}
	return cells
}
