package surface

import (
	"math"
	"testing"
)

func TestFaderNormalization(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0, 0},
		{127, 1},
		{63.5, 0.5},
		{-20, 0},
		{300, 1},
	}
	for _, tt := range tests {
		r := New()
		r.HandleEvent(FaderChange(4, tt.raw))
		r.Tick(0)
		if got := r.Fader(4); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("raw %v: Fader(4) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFaderIgnoresNonFinite(t *testing.T) {
	r := New()
	r.HandleEvent(FaderChange(0, 64))
	r.HandleEvent(FaderChange(0, math.NaN()))
	r.HandleEvent(FaderChange(0, math.Inf(1)))
	r.Tick(math.NaN())
	if got := r.Fader(0); math.Abs(got-64.0/127) > 1e-9 {
		t.Errorf("Fader(0) = %v, want %v", got, 64.0/127)
	}
}

func TestFaderValueBeforeTick(t *testing.T) {
	r := New()
	r.HandleEvent(FaderChange(2, 127))
	if got := r.Fader(2); got != 1 {
		t.Errorf("Fader(2) = %v before Tick, want 1", got)
	}
}

func TestFaderOutOfRange(t *testing.T) {
	r := New()
	if r.Fader(-1) != 0 || r.Fader(NumFaders) != 0 {
		t.Error("out of range fader not 0")
	}
	if r.FaderGate(-1) || r.FaderGate(NumFaders) {
		t.Error("out of range gate not false")
	}
}

func TestFaderMute(t *testing.T) {
	r := New()
	r.HandleEvent(FaderChange(3, 100))
	r.HandleEvent(FaderButtonPress(3))
	r.Tick(0)

	if !r.FaderGate(3) {
		t.Fatal("gate not latched after button press")
	}
	if got := r.Fader(3); got != 0 {
		t.Fatalf("muted fader = %v, want 0", got)
	}

	// moving a muted fader is remembered but not output
	r.HandleEvent(FaderChange(3, 127))
	r.Tick(1)
	if got := r.Fader(3); got != 0 {
		t.Fatalf("muted fader after move = %v, want 0", got)
	}

	r.HandleEvent(FaderButtonPress(3))
	r.Tick(2)
	if got := r.Fader(3); got != 1 {
		t.Fatalf("unmuted fader = %v, want 1", got)
	}
}

func TestFaderButtonReleaseIgnored(t *testing.T) {
	r := New()
	r.HandleEvent(FaderButtonPress(1))
	r.HandleEvent(Event{Kind: EventRelease, Zone: ZoneFaderButton, Index: 1})
	if !r.FaderGate(1) {
		t.Error("release toggled the gate")
	}
}

func TestFaderMasterButton(t *testing.T) {
	r := New()
	r.HandleEvent(FaderChange(8, 127))
	r.HandleEvent(FaderButtonPress(8))
	r.Tick(0)
	if got := r.Fader(8); got != 0 {
		t.Errorf("master fader gated = %v, want 0", got)
	}
}

func TestFaderRandomMode(t *testing.T) {
	r := New(WithFaderMode(FaderRandom))
	r.HandleEvent(FaderChange(0, 64))
	r.HandleEvent(FaderButtonPress(0))

	seen := map[float64]bool{}
	for beat := 0; beat < 64; beat++ {
		r.Tick(float64(beat))
		first := r.Fader(0)
		if first != 0 && first != 1 {
			t.Fatalf("beat %d: random fader = %v, want 0 or 1", beat, first)
		}
		// constant within a beat
		r.Tick(float64(beat) + 0.75)
		if got := r.Fader(0); got != first {
			t.Fatalf("beat %d: value changed within beat %v -> %v", beat, first, got)
		}
		seen[first] = true
	}
	if !seen[0] || !seen[1] {
		t.Errorf("random fader over 64 beats only produced %v", seen)
	}
}

func TestSetFaderMode(t *testing.T) {
	r := New()
	r.HandleEvent(FaderButtonPress(5))
	r.SetFaderMode(FaderRandom)
	if r.FaderMode() != FaderRandom {
		t.Fatal("SetFaderMode did not stick")
	}
	r.SetFaderMode(FaderMute)
	r.Tick(3)
	if got := r.Fader(5); got != 0 {
		t.Errorf("Fader(5) = %v, want 0 in mute mode", got)
	}
}

func TestParseFaderMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FaderMode
		wantErr bool
	}{
		{"", FaderMute, false},
		{"mute", FaderMute, false},
		{"random", FaderRandom, false},
		{"strobe", FaderMute, true},
	}
	for _, tt := range tests {
		got, err := ParseFaderMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFaderMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFaderMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBeatNoiseRange(t *testing.T) {
	for step := int64(-10); step < 200; step++ {
		for ch := 0; ch < NumFaders; ch++ {
			v := beatNoise(step, ch)
			if v < 0 || v >= 1 {
				t.Fatalf("beatNoise(%d, %d) = %v", step, ch, v)
			}
			if beatNoise(step, ch) != v {
				t.Fatalf("beatNoise(%d, %d) not deterministic", step, ch)
			}
		}
	}
}
