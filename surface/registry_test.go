package surface

import (
	"errors"
	"testing"
)

func colorPtr(c Color) *Color { return &c }

func newTestRegistry(t *testing.T, bindings ...Binding) *Registry {
	t.Helper()
	r := New()
	if err := r.RegisterAll(bindings); err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}
	return r
}

func press(r *Registry, row, col int) {
	r.HandleEvent(PadPress(row, col, 127))
}

func TestRegisterDefaults(t *testing.T) {
	r := newTestRegistry(t,
		Binding{Key: "scene", Type: InputRadio, Cells: Row(0, 0, 0, 3)},
		Binding{Key: "mute", Type: InputToggle, Cells: []Cell{{Row: 1}}},
		Binding{Key: "flash", Type: InputOneshot, Cells: []Cell{{Row: 1, Col: 1}}},
		Binding{Key: "hold", Type: InputMomentary, Cells: []Cell{{Row: 1, Col: 2}}},
		Binding{Key: "shuffle", Type: InputRandom, Cells: []Cell{{Row: 1, Col: 3}}, Target: "scene"},
	)

	tests := []struct {
		key  string
		want Value
	}{
		{"scene", RadioValue(0)},
		{"mute", ToggleValue(false)},
		{"flash", OneshotValue(false)},
		{"hold", MomentaryValue(false)},
		{"shuffle", RandomValue(false)},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := r.Value(tt.key, nil); got != tt.want {
				t.Errorf("Value(%q) = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestRegisterExplicitDefault(t *testing.T) {
	r := newTestRegistry(t,
		Binding{Key: "color", Type: InputRadio, Cells: Row(0, 2, 0, 7), Default: RadioValue(5)},
		Binding{Key: "vibe", Type: InputToggle, Cells: []Cell{{Row: 3}}, Default: ToggleValue(true)},
	)
	if got := r.Index("color", -1); got != 5 {
		t.Errorf("Index(color) = %d, want 5", got)
	}
	if got := r.Bool("vibe", false); !got {
		t.Errorf("Bool(vibe) = false, want true")
	}
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		dup     bool
	}{
		{"empty key", Binding{Type: InputToggle, Cells: []Cell{{}}}, false},
		{"no cells", Binding{Key: "a", Type: InputToggle}, false},
		{"row out of range", Binding{Key: "a", Type: InputToggle, Cells: []Cell{{Row: 8}}}, false},
		{"page out of range", Binding{Key: "a", Type: InputToggle, Cells: []Cell{{Page: 8}}}, false},
		{"bad type", Binding{Key: "a", Type: InputType(42), Cells: []Cell{{}}}, false},
		{"default variant", Binding{Key: "a", Type: InputToggle, Cells: []Cell{{}}, Default: RadioValue(0)}, false},
		{"default range", Binding{Key: "a", Type: InputRadio, Cells: Row(0, 0, 0, 1), Default: RadioValue(2)}, false},
		{"cell listed twice", Binding{Key: "a", Type: InputRadio, Cells: []Cell{{}, {}}}, true},
		{"cell taken", Binding{Key: "a", Type: InputToggle, Cells: []Cell{{Row: 7, Col: 7}}}, true},
		{"key taken", Binding{Key: "taken", Type: InputToggle, Cells: []Cell{{Row: 6}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t, Binding{Key: "taken", Type: InputToggle, Cells: []Cell{{Row: 7, Col: 7}}})

			err := r.Register(tt.binding)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("Register() error = %v, want ErrConfiguration", err)
			}
			var dupErr *DuplicateCellError
			if got := errors.As(err, &dupErr); got != tt.dup {
				t.Errorf("errors.As(DuplicateCellError) = %v, want %v (err: %v)", got, tt.dup, err)
			}
			if len(r.Keys()) != 1 {
				t.Errorf("Keys() = %v, want only the original binding", r.Keys())
			}
		})
	}
}

func TestRegisterAllSharedCellRegistersNeither(t *testing.T) {
	r := New()
	err := r.RegisterAll([]Binding{
		{Key: "a", Type: InputRadio, Cells: Row(0, 0, 0, 3)},
		{Key: "b", Type: InputToggle, Cells: []Cell{{Row: 0, Col: 2}}},
	})

	var dupErr *DuplicateCellError
	if !errors.As(err, &dupErr) {
		t.Fatalf("RegisterAll() error = %v, want DuplicateCellError", err)
	}
	if dupErr.Existing != "a" || dupErr.Key != "b" {
		t.Errorf("DuplicateCellError = %+v, want a claimed by b", dupErr)
	}
	for _, key := range []string{"a", "b"} {
		if _, ok := r.Binding(key); ok {
			t.Errorf("binding %q registered after failed batch", key)
		}
	}

	// the cells stay free for a corrected layout
	if err := r.Register(Binding{Key: "b", Type: InputToggle, Cells: []Cell{{Row: 0, Col: 2}}}); err != nil {
		t.Errorf("Register() after failed batch error = %v", err)
	}
}

func TestValueFallback(t *testing.T) {
	r := New()
	if got := r.Value("nope", ToggleValue(true)); got != ToggleValue(true) {
		t.Errorf("Value() = %v, want fallback", got)
	}
	if got := r.Index("nope", 3); got != 3 {
		t.Errorf("Index() = %d, want 3", got)
	}
	if got := r.Bool("nope", true); !got {
		t.Errorf("Bool() = false, want fallback true")
	}
}

func TestSceneSelectScenario(t *testing.T) {
	r := newTestRegistry(t, Binding{Key: "sceneSelect", Type: InputRadio, Cells: Row(0, 0, 0, 3)})

	press(r, 0, 2)
	if got := r.Index("sceneSelect", -1); got != 2 {
		t.Fatalf("after press (0,0,2): sceneSelect = %d, want 2", got)
	}
	r.HandleEvent(PadRelease(0, 2))
	if got := r.Index("sceneSelect", -1); got != 2 {
		t.Fatalf("release changed radio value to %d", got)
	}
	press(r, 0, 0)
	if got := r.Index("sceneSelect", -1); got != 0 {
		t.Fatalf("after press (0,0,0): sceneSelect = %d, want 0", got)
	}
}

func TestRadioExactlyOneActive(t *testing.T) {
	r := newTestRegistry(t, Binding{Key: "pattern", Type: InputRadio, Cells: Row(0, 4, 0, 7)})

	for _, col := range []int{3, 7, 0, 5, 5} {
		press(r, 4, col)
		r.Tick(0)

		active := 0
		for c := 0; c < 8; c++ {
			if r.LEDColor(0, 4, c) == ColorOn {
				active++
				if c != r.Index("pattern", -1) {
					t.Errorf("active LED at col %d, value %d", c, r.Index("pattern", -1))
				}
			}
		}
		if active != 1 {
			t.Errorf("after press col %d: %d active cells, want 1", col, active)
		}
	}
}

func TestToggleScenario(t *testing.T) {
	r := newTestRegistry(t, Binding{Key: "muteToggle", Type: InputToggle, Cells: []Cell{{Row: 1, Col: 0}}})

	press(r, 1, 0)
	if !r.Bool("muteToggle", false) {
		t.Fatal("after first press muteToggle = false, want true")
	}
	r.HandleEvent(PadRelease(1, 0))
	press(r, 1, 0)
	if r.Bool("muteToggle", true) {
		t.Fatal("after second press muteToggle = true, want false")
	}
}

func TestOneshotLastsOneTick(t *testing.T) {
	r := newTestRegistry(t, Binding{Key: "flash", Type: InputOneshot, Cells: []Cell{{Row: 2, Col: 2}}})

	press(r, 2, 2)
	if !r.Bool("flash", false) {
		t.Fatal("oneshot not set by press")
	}
	r.Tick(0)
	if r.Bool("flash", true) {
		t.Fatal("oneshot still set after one Tick")
	}
	r.HandleEvent(PadRelease(2, 2))
	r.Tick(1)
	if r.Bool("flash", true) {
		t.Fatal("oneshot set again by release")
	}
}

func TestMomentaryWhileHeld(t *testing.T) {
	r := newTestRegistry(t, Binding{Key: "hold", Type: InputMomentary, Cells: []Cell{{Row: 5, Col: 5}}})

	steps := []struct {
		event Event
		want  bool
	}{
		{PadPress(5, 5, 100), true},
		{PadPress(5, 4, 100), true}, // unrelated cell
		{PadRelease(5, 5), false},
		{PadPress(5, 5, 64), true},
		{PadPress(5, 5, 0), false}, // velocity 0 is a release
	}
	for i, s := range steps {
		r.HandleEvent(s.event)
		r.Tick(float64(i))
		if got := r.Bool("hold", !s.want); got != s.want {
			t.Errorf("step %d: hold = %v, want %v", i, got, s.want)
		}
		wantColor := ColorDim
		if s.want {
			wantColor = ColorOn
		}
		if got := r.LEDColor(0, 5, 5); got != wantColor {
			t.Errorf("step %d: LED = %d, want %d", i, got, wantColor)
		}
	}
}

func TestMomentaryReleaseAfterPageChange(t *testing.T) {
	r := newTestRegistry(t,
		Binding{Key: "hold", Type: InputMomentary, Cells: []Cell{{Row: 7, Col: 0}}},
		Binding{Key: "other", Type: InputMomentary, Cells: []Cell{{Page: 1, Row: 7, Col: 0}}},
	)

	press(r, 7, 0)
	r.HandleEvent(PageSelect(1))
	r.HandleEvent(PadRelease(7, 0))
	r.HandleEvent(PageSelect(0))
	r.Tick(0)

	if r.Bool("hold", true) {
		t.Error("hold still true after the pad was released on another page")
	}
	if r.Bool("other", true) {
		t.Error("release on page 1 affected a binding that was never pressed")
	}
	if got := r.LEDColor(0, 7, 0); got != ColorDim {
		t.Errorf("LED = %d, want dim", got)
	}
}

func TestPadOnOtherPageIgnored(t *testing.T) {
	r := newTestRegistry(t, Binding{Key: "p1", Type: InputToggle, Cells: []Cell{{Page: 1, Row: 0, Col: 0}}})

	press(r, 0, 0)
	if r.Bool("p1", false) {
		t.Fatal("press on page 0 toggled a page 1 binding")
	}
	r.HandleEvent(PageSelect(1))
	press(r, 0, 0)
	if !r.Bool("p1", false) {
		t.Fatal("press on page 1 did not toggle binding")
	}
}

func TestPageSelect(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  int
	}{
		{"valid", PageSelect(3), 3},
		{"last", PageSelect(7), 7},
		{"index 9 ignored", PageSelect(9), 2},
		{"negative ignored", PageSelect(-1), 2},
		{"release ignored", Event{Kind: EventRelease, Zone: ZonePageSelect, Index: 5}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			r.HandleEvent(PageSelect(2))
			r.HandleEvent(tt.event)
			if got := r.Page(); got != tt.want {
				t.Errorf("Page() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnrecognizedEventsAbsorbed(t *testing.T) {
	r := newTestRegistry(t, Binding{Key: "t", Type: InputToggle, Cells: []Cell{{Row: 0, Col: 0}}})

	events := []Event{
		{Zone: ZoneUnknown, Kind: EventPress, Intensity: 127},
		PadPress(-1, 0, 127),
		PadPress(12, 40, 127),
		FaderChange(-1, 64),
		FaderChange(99, 64),
		FaderButtonPress(42),
		{Kind: EventChange, Zone: ZoneGrid, Intensity: 127},
	}
	for _, ev := range events {
		r.HandleEvent(ev)
	}
	r.Tick(0)
	if r.Bool("t", true) {
		t.Error("stray events toggled a binding")
	}
}

func TestRandomExcludesCurrent(t *testing.T) {
	for seed := 0; seed < 32; seed++ {
		calls := 0
		r := New(WithRand(func(n int) int {
			calls++
			return (seed + calls) % n
		}))
		if err := r.RegisterAll([]Binding{
			{Key: "scene", Type: InputRadio, Cells: Row(0, 0, 0, 4)},
			{Key: "shuffle", Type: InputRandom, Cells: []Cell{{Row: 7, Col: 7}}, Target: "scene"},
		}); err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 20; i++ {
			before := r.Index("scene", -1)
			press(r, 7, 7)
			after := r.Index("scene", -1)
			if after == before {
				t.Fatalf("seed %d press %d: reselected current option %d", seed, i, before)
			}
			if after < 0 || after >= 5 {
				t.Fatalf("seed %d press %d: option %d out of range", seed, i, after)
			}
		}
	}
}

func TestRandomCoversAllOtherOptions(t *testing.T) {
	next := 0
	r := New(WithRand(func(n int) int {
		v := next % n
		next++
		return v
	}))
	if err := r.RegisterAll([]Binding{
		{Key: "scene", Type: InputRadio, Cells: Row(0, 0, 0, 3), Default: RadioValue(1)},
		{Key: "shuffle", Type: InputRandom, Cells: []Cell{{Row: 7}}, Target: "scene"},
	}); err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	for i := 0; i < 3; i++ {
		r.entries["scene"].value = RadioValue(1)
		press(r, 7, 0)
		seen[r.Index("scene", -1)] = true
	}
	for _, want := range []int{0, 2, 3} {
		if !seen[want] {
			t.Errorf("option %d never drawn, seen %v", want, seen)
		}
	}
}

func TestRandomIncludeCurrent(t *testing.T) {
	r := New(WithRand(func(n int) int { return 2 }))
	if err := r.RegisterAll([]Binding{
		{Key: "scene", Type: InputRadio, Cells: Row(0, 0, 0, 3), Default: RadioValue(2)},
		{Key: "shuffle", Type: InputRandom, Cells: []Cell{{Row: 7}}, Target: "scene", IncludeCurrent: true},
	}); err != nil {
		t.Fatal(err)
	}
	press(r, 7, 0)
	if got := r.Index("scene", -1); got != 2 {
		t.Errorf("scene = %d, want 2 (current allowed)", got)
	}
}

func TestRandomNoops(t *testing.T) {
	tests := []struct {
		name   string
		target Binding
		ref    string
	}{
		{"single option", Binding{Key: "one", Type: InputRadio, Cells: []Cell{{Row: 3}}}, "one"},
		{"not radio", Binding{Key: "tog", Type: InputToggle, Cells: []Cell{{Row: 3}}}, "tog"},
		{"missing target", Binding{Key: "x", Type: InputRadio, Cells: Row(0, 3, 0, 3)}, "ghost"},
		{"no target", Binding{Key: "x", Type: InputRadio, Cells: Row(0, 3, 0, 3)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(WithRand(func(n int) int {
				t.Fatalf("rand called for %s", tt.name)
				return 0
			}))
			if err := r.RegisterAll([]Binding{
				tt.target,
				{Key: "shuffle", Type: InputRandom, Cells: []Cell{{Row: 7}}, Target: tt.ref},
			}); err != nil {
				t.Fatal(err)
			}
			before := r.Value(tt.target.Key, nil)
			press(r, 7, 0)
			if got := r.Value(tt.target.Key, nil); got != before {
				t.Errorf("target value %v -> %v, want unchanged", before, got)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	r := newTestRegistry(t,
		Binding{Key: "scene", Type: InputRadio, Cells: Row(0, 0, 0, 3)},
		Binding{Key: "tog", Type: InputToggle, Cells: []Cell{{Row: 1}}},
		Binding{Key: "ok", Type: InputRandom, Cells: []Cell{{Row: 7, Col: 0}}, Target: "scene"},
		Binding{Key: "bad1", Type: InputRandom, Cells: []Cell{{Row: 7, Col: 1}}, Target: "tog"},
		Binding{Key: "bad2", Type: InputRandom, Cells: []Cell{{Row: 7, Col: 2}}, Target: "ghost"},
		Binding{Key: "bad3", Type: InputRandom, Cells: []Cell{{Row: 7, Col: 3}}},
	)

	problems := r.Check()
	if len(problems) != 3 {
		t.Fatalf("Check() = %v, want 3 problems", problems)
	}
	for i, want := range []string{"bad1", "bad2", "bad3"} {
		if problems[i].Key != want {
			t.Errorf("problem %d key = %q, want %q", i, problems[i].Key, want)
		}
	}
}

func TestCustomColors(t *testing.T) {
	r := newTestRegistry(t, Binding{
		Key:           "fx",
		Type:          InputToggle,
		Cells:         []Cell{{Row: 6, Col: 6}},
		ActiveColor:   colorPtr(ColorRed),
		InactiveColor: colorPtr(ColorOff),
	})
	if got := r.LEDColor(0, 6, 6); got != ColorOff {
		t.Errorf("inactive LED = %d, want %d", got, ColorOff)
	}
	press(r, 6, 6)
	if got := r.LEDColor(0, 6, 6); got != ColorRed {
		t.Errorf("active LED = %d, want %d", got, ColorRed)
	}
}
