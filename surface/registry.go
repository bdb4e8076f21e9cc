package surface

import (
	"math"
	"math/rand/v2"

	"go-vj/debug"
)

// owner is what a registered cell points back to.
type owner struct {
	key   string
	index int // position in the binding's cell list
}

// pad is a physical grid position, independent of the page.
type pad struct {
	row, col int
}

type entry struct {
	binding Binding
	value   Value
}

// Registry is the control-surface state: bindings, their values, faders,
// the current page and the LED snapshot computed by the last Tick.
type Registry struct {
	cells   map[Cell]owner
	entries map[string]*entry
	order   []string // registration order, for stable listings

	page   int
	faders faderBank
	leds   Snapshot
	held   map[pad]string // momentary key held down at each pad

	intn func(n int) int
}

// Option configures a Registry.
type Option func(*Registry)

// WithRand replaces the random source used by random bindings.
// intn must return a value in [0,n).
func WithRand(intn func(n int) int) Option {
	return func(r *Registry) {
		r.intn = intn
	}
}

// WithFaderMode sets the initial fader button mode.
func WithFaderMode(m FaderMode) Option {
	return func(r *Registry) {
		r.faders.mode = m
	}
}

// New creates an empty registry on page 0.
func New(opts ...Option) *Registry {
	r := &Registry{
		cells:   make(map[Cell]owner),
		entries: make(map[string]*entry),
		held:    make(map[pad]string),
		intn:    rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.leds = r.snapshot()
	return r
}

// Register adds one binding. See RegisterAll.
func (r *Registry) Register(b Binding) error {
	return r.RegisterAll([]Binding{b})
}

// RegisterAll validates every binding before registering any of them, so a
// failed call leaves the registry unchanged. A cell claimed twice yields a
// *DuplicateCellError, other mistakes a *ConfigError.
func (r *Registry) RegisterAll(bindings []Binding) error {
	claimed := make(map[Cell]string)
	keys := make(map[string]bool)
	for i := range bindings {
		if err := r.validate(&bindings[i], claimed, keys); err != nil {
			debug.Log("config", "register failed: %v", err)
			return err
		}
	}

	for _, b := range bindings {
		r.add(b)
	}
	r.leds = r.snapshot()
	debug.Log("config", "registered %d bindings (%d total)", len(bindings), len(r.order))
	return nil
}

func (r *Registry) validate(b *Binding, claimed map[Cell]string, keys map[string]bool) error {
	if b.Key == "" {
		return &ConfigError{Reason: "empty key"}
	}
	if _, ok := inputTypeNames[b.Type]; !ok {
		return &ConfigError{Key: b.Key, Reason: "unknown input type " + b.Type.String()}
	}
	if _, exists := r.entries[b.Key]; exists || keys[b.Key] {
		return &ConfigError{Key: b.Key, Reason: "key already registered"}
	}
	keys[b.Key] = true

	if len(b.Cells) == 0 {
		return &ConfigError{Key: b.Key, Reason: "no cells"}
	}
	for _, c := range b.Cells {
		if !c.Valid() {
			return &ConfigError{Key: b.Key, Reason: "cell out of range " + c.String()}
		}
		if o, ok := r.cells[c]; ok {
			return &DuplicateCellError{Cell: c, Existing: o.key, Key: b.Key}
		}
		if key, ok := claimed[c]; ok {
			return &DuplicateCellError{Cell: c, Existing: key, Key: b.Key}
		}
		claimed[c] = b.Key
	}

	if b.Default != nil {
		if b.Default.Type() != b.Type {
			return &ConfigError{Key: b.Key, Reason: "default is a " + b.Default.Type().String() + " value"}
		}
		if idx, ok := AsIndex(b.Default); ok && (idx < 0 || idx >= len(b.Cells)) {
			return &ConfigError{Key: b.Key, Reason: "default option out of range"}
		}
	}
	return nil
}

func (r *Registry) add(b Binding) {
	b.Cells = append([]Cell(nil), b.Cells...)
	for i, c := range b.Cells {
		r.cells[c] = owner{key: b.Key, index: i}
	}

	value := zeroValue(b.Type)
	if b.Default != nil {
		value = b.Default
	}
	r.entries[b.Key] = &entry{binding: b, value: value}
	r.order = append(r.order, b.Key)
}

// Keys lists binding keys in registration order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// Binding returns a copy of a registered binding.
func (r *Registry) Binding(key string) (Binding, bool) {
	e, ok := r.entries[key]
	if !ok {
		return Binding{}, false
	}
	b := e.binding
	b.Cells = append([]Cell(nil), b.Cells...)
	return b, true
}

// Value returns the current value of key, or fallback if key is unknown.
func (r *Registry) Value(key string, fallback Value) Value {
	if e, ok := r.entries[key]; ok {
		return e.value
	}
	return fallback
}

// Index returns a radio binding's selected option, or fallback.
func (r *Registry) Index(key string, fallback int) int {
	if idx, ok := AsIndex(r.Value(key, nil)); ok {
		return idx
	}
	return fallback
}

// Bool returns a boolean binding's state, or fallback.
func (r *Registry) Bool(key string, fallback bool) bool {
	if b, ok := AsBool(r.Value(key, nil)); ok {
		return b
	}
	return fallback
}

// Values snapshots every binding's value.
func (r *Registry) Values() map[string]Value {
	values := make(map[string]Value, len(r.entries))
	for key, e := range r.entries {
		values[key] = e.value
	}
	return values
}

// Page is the page the grid currently shows.
func (r *Registry) Page() int {
	return r.page
}

// Fader returns channel i's output after gating, 0 for unknown channels.
func (r *Registry) Fader(i int) float64 {
	if i < 0 || i >= NumFaders {
		return 0
	}
	return r.faders.value[i]
}

func (r *Registry) Faders() [NumFaders]float64 {
	return r.faders.value
}

// FaderGate reports whether channel i's button is latched on.
func (r *Registry) FaderGate(i int) bool {
	if i < 0 || i >= NumFaders {
		return false
	}
	return r.faders.gate[i]
}

func (r *Registry) FaderGates() [NumFaders]bool {
	return r.faders.gate
}

func (r *Registry) FaderMode() FaderMode {
	return r.faders.mode
}

func (r *Registry) SetFaderMode(m FaderMode) {
	r.faders.mode = m
}

// HandleEvent applies one controller event. Events for unmapped cells,
// out of range indices and non-finite intensities are ignored.
func (r *Registry) HandleEvent(ev Event) {
	if math.IsNaN(ev.Intensity) || math.IsInf(ev.Intensity, 0) {
		return
	}

	switch ev.Zone {
	case ZoneGrid:
		r.handlePad(ev)
	case ZoneFader:
		if ev.Kind == EventChange {
			r.faders.set(ev.Index, ev.Intensity)
			debug.LogEvery(50, "fader", "fader %d raw=%.0f", ev.Index, ev.Intensity)
		}
	case ZoneFaderButton:
		if ev.pressed() {
			r.faders.toggleGate(ev.Index)
		}
	case ZonePageSelect:
		if ev.pressed() && ev.Index >= 0 && ev.Index < NumPages {
			r.page = ev.Index
			debug.Log("surface", "page %d", r.page)
		}
	}
}

func (r *Registry) handlePad(ev Event) {
	// A release ends the hold on whatever binding the pad was pressed for,
	// even if the page has changed since.
	if ev.released() {
		p := pad{ev.Row, ev.Col}
		if key, ok := r.held[p]; ok {
			delete(r.held, p)
			r.entries[key].value = MomentaryValue(false)
		}
		return
	}
	if !ev.pressed() {
		return
	}

	o, ok := r.cells[Cell{Page: r.page, Row: ev.Row, Col: ev.Col}]
	if !ok {
		return
	}
	e := r.entries[o.key]

	switch e.binding.Type {
	case InputRadio:
		e.value = RadioValue(o.index)
	case InputToggle:
		on, _ := AsBool(e.value)
		e.value = ToggleValue(!on)
	case InputOneshot:
		e.value = OneshotValue(true)
	case InputMomentary:
		e.value = MomentaryValue(true)
		r.held[pad{ev.Row, ev.Col}] = o.key
	case InputRandom:
		r.triggerRandom(e)
	}
}

// triggerRandom moves the target radio binding to a random option.
// Broken targets are logged and skipped; a live show keeps running.
func (r *Registry) triggerRandom(e *entry) {
	key, targetKey := e.binding.Key, e.binding.Target
	if targetKey == "" {
		debug.Log("surface", "random %q has no target", key)
		return
	}
	target, ok := r.entries[targetKey]
	if !ok {
		debug.Log("surface", "random %q: target %q not found", key, targetKey)
		return
	}
	if target.binding.Type != InputRadio {
		debug.Log("surface", "random %q: target %q is %v, not radio", key, targetKey, target.binding.Type)
		return
	}

	n := len(target.binding.Cells)
	if n <= 1 {
		return
	}
	current, _ := AsIndex(target.value)

	var next int
	if e.binding.IncludeCurrent {
		next = r.intn(n)
	} else {
		// draw from the n-1 other options
		next = r.intn(n - 1)
		if next >= current {
			next++
		}
	}
	target.value = RadioValue(next)
}

// Tick runs the per-frame maintenance: oneshots fall back to false, gated
// faders are recomputed for beat, and the LED snapshot is refreshed.
func (r *Registry) Tick(beat float64) {
	for _, key := range r.order {
		if e := r.entries[key]; e.binding.Type == InputOneshot {
			e.value = OneshotValue(false)
		}
	}
	if math.IsNaN(beat) || math.IsInf(beat, 0) {
		beat = 0
	}
	r.faders.apply(beat)
	r.leds = r.snapshot()
}

// Check reports random bindings whose target cannot be used. Problems are
// not fatal: the trigger is simply inert at runtime.
func (r *Registry) Check() []Problem {
	var problems []Problem
	for _, key := range r.order {
		b := r.entries[key].binding
		if b.Type != InputRandom {
			continue
		}
		target, ok := r.entries[b.Target]
		switch {
		case b.Target == "":
			problems = append(problems, Problem{Key: key, Reason: "random binding has no target"})
		case !ok:
			problems = append(problems, Problem{Key: key, Reason: "target " + b.Target + " is not registered"})
		case target.binding.Type != InputRadio:
			problems = append(problems, Problem{Key: key, Reason: "target " + b.Target + " is not a radio binding"})
		}
	}
	return problems
}
