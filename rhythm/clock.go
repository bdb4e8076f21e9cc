// Package rhythm turns wall-clock time into a beat counter driven by a tempo
// that can be tapped in live.
package rhythm

import (
	"math"
	"time"

	"go-vj/debug"
)

const (
	MinBPM     = 20
	MaxBPM     = 300
	DefaultBPM = 120

	// Taps closer than this are bounce, not tempo.
	minTapInterval = time.Minute / MaxBPM
	// A pause longer than this starts a new tap sequence.
	maxTapInterval = 2 * time.Second
	// Tempo is the mean of at most this many intervals.
	tapWindow = 4
)

// Clock advances a beat counter on every Update. It is not safe for
// concurrent use; the engine owns it.
type Clock struct {
	bpm   float64
	beat  float64
	speed float64
	last  time.Time
	taps  []time.Time
	now   func() time.Time
}

type Option func(*Clock)

// WithNow replaces time.Now, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// New creates a clock at beat 0. A non-positive bpm selects DefaultBPM.
func New(bpm float64, opts ...Option) *Clock {
	c := &Clock{speed: 1, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	c.SetBPM(bpm)
	c.last = c.now()
	return c
}

// Update advances the beat by the time since the previous Update, scaled by
// the speed multiplier requested for this frame. The multiplier then falls
// back to 1x.
func (c *Clock) Update() {
	now := c.now()
	elapsed := now.Sub(c.last)
	c.last = now
	if elapsed > 0 {
		c.beat += elapsed.Minutes() * c.bpm * c.speed
	}
	c.speed = 1
}

func (c *Clock) Beat() float64 {
	return c.beat
}

func (c *Clock) BPM() float64 {
	return c.bpm
}

// SetBPM sets the tempo, clamped to [MinBPM, MaxBPM].
func (c *Clock) SetBPM(bpm float64) {
	if math.IsNaN(bpm) {
		return
	}
	c.bpm = math.Min(math.Max(bpm, MinBPM), MaxBPM)
}

// DoubleSpeed runs the next Update at 2x.
func (c *Clock) DoubleSpeed() {
	c.speed = 2
}

// QuadSpeed runs the next Update at 4x.
func (c *Clock) QuadSpeed() {
	c.speed = 4
}

// Resync jumps forward to the next whole beat, so a tap on the downbeat
// lines the visuals up with the music.
func (c *Clock) Resync() {
	c.beat = math.Ceil(c.beat)
}

// TapTempo records a tap now. See TapTempoAt.
func (c *Clock) TapTempo() {
	c.TapTempoAt(c.now())
}

// TapTempoAt records a tap at t. From the second tap on, the tempo is the
// mean of the last few intervals.
func (c *Clock) TapTempoAt(t time.Time) {
	if n := len(c.taps); n > 0 {
		interval := t.Sub(c.taps[n-1])
		switch {
		case interval > maxTapInterval || interval < 0:
			c.taps = c.taps[:0]
		case interval < minTapInterval:
			debug.Log("clock", "tap ignored, %v since last", interval)
			return
		}
	}

	c.taps = append(c.taps, t)
	if len(c.taps) > tapWindow+1 {
		c.taps = append(c.taps[:0], c.taps[len(c.taps)-tapWindow-1:]...)
	}
	if len(c.taps) < 2 {
		debug.Log("clock", "tap sequence started")
		return
	}

	span := c.taps[len(c.taps)-1].Sub(c.taps[0])
	mean := span / time.Duration(len(c.taps)-1)
	c.SetBPM(float64(time.Minute) / float64(mean))
	debug.Log("clock", "tap %d: %.1f bpm", len(c.taps), c.bpm)
}
