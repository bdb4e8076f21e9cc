package surface

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an APC mini mk2 pad palette index (sent as note velocity).
type Color uint8

const (
	ColorOff    Color = 0
	ColorDim    Color = 1 // dark grey
	ColorGrey   Color = 2
	ColorWhite  Color = 3
	ColorRed    Color = 5
	ColorOrange Color = 9
	ColorYellow Color = 13
	ColorLime   Color = 17
	ColorGreen  Color = 21
	ColorMint   Color = 29
	ColorCyan   Color = 37
	ColorSky    Color = 41
	ColorBlue   Color = 45
	ColorPurple Color = 49
	ColorPink   Color = 53
	ColorRose   Color = 57

	ColorOn = ColorWhite
)

// pageColors lights the scene button of the selected page.
var pageColors = [NumPages]Color{
	ColorRed, ColorOrange, ColorYellow, ColorGreen,
	ColorCyan, ColorBlue, ColorPurple, ColorPink,
}

// PageColor returns the LED color of page i's select button when selected.
func PageColor(i int) Color {
	if i < 0 || i >= NumPages {
		return ColorOff
	}
	return pageColors[i]
}

// Approximate RGB of the palette entries above. Format: {velocity, R, G, B}
var palette = [][4]uint8{
	{0, 0, 0, 0},
	{1, 30, 30, 30},
	{2, 127, 127, 127},
	{3, 255, 255, 255},
	{5, 255, 0, 0},
	{9, 255, 100, 0},
	{13, 255, 220, 0},
	{17, 150, 255, 40},
	{21, 0, 255, 0},
	{29, 0, 255, 120},
	{37, 0, 200, 200},
	{41, 0, 150, 255},
	{45, 0, 60, 255},
	{49, 150, 0, 200},
	{53, 255, 60, 200},
	{57, 255, 40, 100},
}

var colorNames = map[string]Color{
	"off":    ColorOff,
	"dim":    ColorDim,
	"grey":   ColorGrey,
	"gray":   ColorGrey,
	"white":  ColorWhite,
	"on":     ColorOn,
	"red":    ColorRed,
	"orange": ColorOrange,
	"yellow": ColorYellow,
	"lime":   ColorLime,
	"green":  ColorGreen,
	"mint":   ColorMint,
	"cyan":   ColorCyan,
	"sky":    ColorSky,
	"blue":   ColorBlue,
	"purple": ColorPurple,
	"pink":   ColorPink,
	"rose":   ColorRose,
}

// RGB returns an approximation of the pad color for on-screen rendering.
// Indices outside the named palette render as a grey ramp.
func (c Color) RGB() [3]uint8 {
	for _, p := range palette {
		if p[0] == uint8(c) {
			return [3]uint8{p[1], p[2], p[3]}
		}
	}
	v := uint8(c) * 2
	return [3]uint8{v, v, v}
}

// NearestColor finds the palette entry closest to an RGB value.
func NearestColor(rgb [3]uint8) Color {
	best := ColorOff
	bestDist := 1 << 30

	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])
	for _, p := range palette {
		pr, pg, pb := int(p[1]), int(p[2]), int(p[3])
		dist := (r-pr)*(r-pr) + (g-pg)*(g-pg) + (b-pb)*(b-pb)
		if dist < bestDist {
			bestDist = dist
			best = Color(p[0])
		}
	}
	return best
}

// ParseColor accepts a palette name ("red"), a raw velocity ("45") or
// an RGB hex string ("#ff8800", mapped to the nearest palette entry).
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colorNames[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("bad color %q: %w", s, err)
		}
		return NearestColor([3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 127 {
		return 0, fmt.Errorf("bad color %q", s)
	}
	return Color(n), nil
}
