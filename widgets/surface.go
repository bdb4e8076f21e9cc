// Package widgets renders controller state for the terminal monitor.
package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-vj/surface"
	"go-vj/theme"
)

// RenderPad renders a single colored pad
func RenderPad(th *theme.Theme, c surface.Color) string {
	if c == surface.ColorOff {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(th.Symbols.PadOff))
	}
	return lipgloss.NewStyle().Foreground(theme.Hex(c.RGB())).Render(string(th.Symbols.Pad))
}

func renderButton(th *theme.Theme, c surface.Color) string {
	if c == surface.ColorOff {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(th.Symbols.ButtonOff))
	}
	return lipgloss.NewStyle().Foreground(theme.Hex(c.RGB())).Render(string(th.Symbols.Button))
}

// RenderSurface draws the pad grid as the hardware shows it: row 0 on top,
// the page buttons down the right and the fader buttons underneath.
func RenderSurface(th *theme.Theme, s surface.Snapshot) string {
	var lines []string
	for row := 0; row < surface.GridRows; row++ {
		var line strings.Builder
		for col := 0; col < surface.GridCols; col++ {
			line.WriteString(RenderPad(th, s.Grid[row][col]))
			line.WriteString(" ")
		}
		line.WriteString(" ")
		line.WriteString(renderButton(th, s.PageSelect[row]))
		lines = append(lines, line.String())
	}

	var buttons strings.Builder
	for i, c := range s.FaderButtons {
		if i == surface.NumFaders-1 {
			buttons.WriteString(" ")
		}
		buttons.WriteString(renderButton(th, c))
		buttons.WriteString(" ")
	}
	lines = append(lines, "", buttons.String())
	return strings.Join(lines, "\n")
}

// RenderFaders draws one vertical bar per fader. Gated faders are drawn in
// the warning color.
func RenderFaders(th *theme.Theme, values [surface.NumFaders]float64, gates [surface.NumFaders]bool, height int) string {
	if height < 1 {
		height = 1
	}
	lines := make([]string, height+1)
	for i, v := range values {
		style := lipgloss.NewStyle().Foreground(th.Color(v))
		if gates[i] {
			style = style.Foreground(th.Warning())
		}
		filled := int(math.Round(v * float64(height)))
		for h := 0; h < height; h++ {
			sym := th.Symbols.FaderEmpty
			if height-h <= filled {
				sym = th.Symbols.FaderFull
			}
			lines[h] += style.Render(string(sym)) + " "
		}
		lines[height] += fmt.Sprintf("%d ", i+1)
	}
	return strings.Join(lines, "\n")
}

// RenderBeat shows the position in a four beat bar.
func RenderBeat(th *theme.Theme, beat float64) string {
	pos := int(math.Floor(beat)) % 4
	if pos < 0 {
		pos += 4
	}
	on := lipgloss.NewStyle().Foreground(th.Success())
	off := lipgloss.NewStyle().Foreground(th.Muted())

	var out strings.Builder
	for i := 0; i < 4; i++ {
		if i == pos {
			out.WriteString(on.Render(string(th.Symbols.BeatOn)))
		} else {
			out.WriteString(off.Render(string(th.Symbols.BeatOff)))
		}
		out.WriteString(" ")
	}
	return out.String()
}
