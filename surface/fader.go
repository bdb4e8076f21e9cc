package surface

import (
	"fmt"
	"math"
)

// FaderMode decides what a gated fader outputs.
type FaderMode int

const (
	FaderMute   FaderMode = iota // gated fader reads 0
	FaderRandom                  // gated fader flips between 0 and 1 on the beat
)

func (m FaderMode) String() string {
	if m == FaderRandom {
		return "random"
	}
	return "mute"
}

func ParseFaderMode(s string) (FaderMode, error) {
	switch s {
	case "", "mute":
		return FaderMute, nil
	case "random":
		return FaderRandom, nil
	}
	return FaderMute, fmt.Errorf("unknown fader button mode %q", s)
}

// faderBank keeps the physical position separate from the gated output,
// so opening a gate restores the fader where it was left.
type faderBank struct {
	raw   [NumFaders]float64
	value [NumFaders]float64
	gate  [NumFaders]bool
	mode  FaderMode
}

func (f *faderBank) set(i int, raw float64) {
	if i < 0 || i >= NumFaders {
		return
	}
	v := math.Min(math.Max(raw/FaderRawMax, 0), 1)
	f.raw[i] = v
	if !f.gate[i] {
		f.value[i] = v
	}
}

func (f *faderBank) toggleGate(i int) {
	if i < 0 || i >= NumFaders {
		return
	}
	f.gate[i] = !f.gate[i]
}

func (f *faderBank) apply(beat float64) {
	step := int64(math.Floor(beat))
	for i := range f.value {
		switch {
		case !f.gate[i]:
			f.value[i] = f.raw[i]
		case f.mode == FaderRandom:
			if beatNoise(step, i) < 0.5 {
				f.value[i] = 0
			} else {
				f.value[i] = 1
			}
		default:
			f.value[i] = 0
		}
	}
}

// beatNoise is a stateless hash of (step, channel) onto [0,1). The same
// beat always yields the same value, so every frame inside a beat agrees.
func beatNoise(step int64, channel int) float64 {
	x := uint64(step)*0x9E3779B97F4A7C15 ^ uint64(channel+1)*0xD1B54A32D192ED03
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return float64(x>>11) / (1 << 53)
}
