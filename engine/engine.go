// Package engine runs the frame loop: it owns the registry and the clock,
// applies controller input, keeps the controller LEDs in sync and publishes
// an immutable Frame for readers on other goroutines.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go-vj/debug"
	"go-vj/midi"
	"go-vj/rhythm"
	"go-vj/surface"
)

const (
	DefaultFPS        = 60
	DefaultRandomRate = 2

	DefaultQuadSpeedKey   = "quadSpeedMomentary"
	DefaultDoubleSpeedKey = "doubleSpeedToggle"

	eventQueueSize = 256
	opQueueSize    = 64
)

// Frame is everything a renderer needs for one frame. Frames are never
// mutated after publication.
type Frame struct {
	Seq        uint64                     `json:"seq"`
	Time       time.Time                  `json:"time"`
	Beat       float64                    `json:"beat"`
	BPM        float64                    `json:"bpm"`
	Page       int                        `json:"page"`
	Keys       []string                   `json:"keys"`
	Values     map[string]surface.Value   `json:"values"`
	Faders     [surface.NumFaders]float64 `json:"faders"`
	Gates      [surface.NumFaders]bool    `json:"gates"`
	FaderMode  string                     `json:"faderMode"`
	LEDs       surface.Snapshot           `json:"leds"`
	Controller string                     `json:"controller,omitempty"`
	Dropped    uint64                     `json:"dropped"`
}

// Engine is the single writer of the registry and the clock. Step and Run
// must be called from one goroutine; every other method is safe anywhere.
type Engine struct {
	reg   *surface.Registry
	clock *rhythm.Clock

	fps        int
	randomRate float64
	quadKey    string
	doubleKey  string
	now        func() time.Time

	events  chan surface.Event
	ops     chan func()
	dropped atomic.Uint64

	// frame loop only
	controller midi.Controller
	ctrlEvents <-chan surface.Event
	prevLEDs   *surface.Snapshot // nil forces a full refresh
	seq        uint64

	mu    sync.RWMutex
	frame Frame

	// Notify TUI of updates
	UpdateChan chan struct{}
}

type Option func(*Engine)

// WithFPS sets the Run loop rate.
func WithFPS(fps int) Option {
	return func(e *Engine) {
		if fps > 0 {
			e.fps = fps
		}
	}
}

// WithRandomRate scales the beat handed to the registry, so random faders
// change rate times per beat.
func WithRandomRate(rate float64) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.randomRate = rate
		}
	}
}

// WithSpeedKeys names the bindings that speed the clock up. An empty key
// disables that modifier.
func WithSpeedKeys(quad, double string) Option {
	return func(e *Engine) {
		e.quadKey = quad
		e.doubleKey = double
	}
}

// WithNow sets the timestamp source for frames.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(reg *surface.Registry, clock *rhythm.Clock, opts ...Option) *Engine {
	e := &Engine{
		reg:        reg,
		clock:      clock,
		fps:        DefaultFPS,
		randomRate: DefaultRandomRate,
		quadKey:    DefaultQuadSpeedKey,
		doubleKey:  DefaultDoubleSpeedKey,
		now:        time.Now,
		events:     make(chan surface.Event, eventQueueSize),
		ops:        make(chan func(), opQueueSize),
		UpdateChan: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.publish(reg.Values())
	return e
}

// Enqueue hands an event to the frame loop. It never blocks: when the queue
// is full the event is dropped and false is returned.
func (e *Engine) Enqueue(ev surface.Event) bool {
	select {
	case e.events <- ev:
		return true
	default:
		n := e.dropped.Add(1)
		debug.LogEvery(10, "engine", "event queue full, %d dropped", n)
		return false
	}
}

func (e *Engine) do(op func()) bool {
	select {
	case e.ops <- op:
		return true
	default:
		debug.Log("engine", "op queue full, dropped")
		return false
	}
}

func (e *Engine) TapTempo() {
	e.do(e.clock.TapTempo)
}

func (e *Engine) Resync() {
	e.do(e.clock.Resync)
}

func (e *Engine) SetBPM(bpm float64) {
	e.do(func() { e.clock.SetBPM(bpm) })
}

func (e *Engine) SetFaderMode(m surface.FaderMode) {
	e.do(func() { e.reg.SetFaderMode(m) })
}

// SetController switches LED output and input to c (nil detaches). The new
// controller gets a full LED refresh on the next frame.
func (e *Engine) SetController(c midi.Controller) {
	e.do(func() { e.setController(c) })
}

func (e *Engine) setController(c midi.Controller) {
	debug.Log("ctrl", "SetController %v, resetting diff state", controllerID(c))
	e.controller = c
	e.ctrlEvents = nil
	if c != nil {
		e.ctrlEvents = c.Events()
	}
	e.prevLEDs = nil
}

// HandleDeviceEvent follows hot-plug events from a midi.DeviceManager.
func (e *Engine) HandleDeviceEvent(ev midi.DeviceEvent) {
	switch ev.Type {
	case midi.DeviceConnected:
		e.SetController(ev.Controller)
	case midi.DeviceDisconnected:
		id := ev.ID
		e.do(func() {
			if e.controller != nil && e.controller.ID() == id {
				e.setController(nil)
			}
		})
	}
}

// Step runs one frame: queued operations and input are applied, the speed
// bindings pick this frame's clock multiplier, the clock advances, the
// registry ticks and the LEDs are flushed.
func (e *Engine) Step() {
	e.drain()

	switch {
	case e.quadKey != "" && e.reg.Bool(e.quadKey, false):
		e.clock.QuadSpeed()
	case e.doubleKey != "" && e.reg.Bool(e.doubleKey, false):
		e.clock.DoubleSpeed()
	}
	e.clock.Update()

	// read before Tick so this frame still sees oneshot pulses
	values := e.reg.Values()
	e.reg.Tick(e.clock.Beat() * e.randomRate)

	e.flushLEDs()
	e.publish(values)
}

func (e *Engine) drain() {
	e.drainOps()
	e.drainEvents()
}

func (e *Engine) drainOps() {
	for {
		select {
		case op := <-e.ops:
			op()
		default:
			return
		}
	}
}

// drainEvents applies queued events before controller input, so the order
// within a frame is fixed.
func (e *Engine) drainEvents() {
queued:
	for {
		select {
		case ev := <-e.events:
			e.reg.HandleEvent(ev)
		default:
			break queued
		}
	}
	for e.ctrlEvents != nil {
		select {
		case ev, ok := <-e.ctrlEvents:
			if !ok {
				// controller closed underneath us
				e.ctrlEvents = nil
				return
			}
			e.reg.HandleEvent(ev)
		default:
			return
		}
	}
}

// flushLEDs sends only changed LEDs to the controller
func (e *Engine) flushLEDs() {
	if e.controller == nil {
		return
	}
	snap := e.reg.LEDs()
	updates := midi.DiffUpdates(e.prevLEDs, snap)
	if len(updates) == 0 {
		return
	}
	if err := e.controller.SetLEDBatch(updates); err != nil {
		debug.LogEvery(30, "led", "flush %s: %v", e.controller.ID(), err)
		return
	}
	debug.LogEvery(30, "led", "flushLEDs: batch=%d", len(updates))
	e.prevLEDs = &snap
}

func (e *Engine) publish(values map[string]surface.Value) {
	e.seq++
	f := Frame{
		Seq:        e.seq,
		Time:       e.now(),
		Beat:       e.clock.Beat(),
		BPM:        e.clock.BPM(),
		Page:       e.reg.Page(),
		Keys:       e.reg.Keys(),
		Values:     values,
		Faders:     e.reg.Faders(),
		Gates:      e.reg.FaderGates(),
		FaderMode:  e.reg.FaderMode().String(),
		LEDs:       e.reg.LEDs(),
		Controller: controllerID(e.controller),
		Dropped:    e.dropped.Load(),
	}

	e.mu.Lock()
	e.frame = f
	e.mu.Unlock()

	select {
	case e.UpdateChan <- struct{}{}:
	default:
	}
}

// Frame returns the latest published frame. The Values map and Keys slice
// are shared between callers and must not be modified.
func (e *Engine) Frame() Frame {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.frame
}

// Run steps the engine at its frame rate until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(e.fps))
	defer ticker.Stop()

	debug.Log("engine", "running at %d fps", e.fps)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.Step()
		}
	}
}

func controllerID(c midi.Controller) string {
	if c == nil {
		return ""
	}
	return c.ID()
}
