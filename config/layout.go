package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"go-vj/surface"

	"gopkg.in/yaml.v3"
)

//go:embed layouts/default.yaml
var defaultLayout []byte

// Layout is a set of bindings as written in a YAML layout file.
type Layout struct {
	Name     string        `yaml:"name"`
	Bindings []BindingSpec `yaml:"bindings"`
}

// BindingSpec is one binding in a layout file. Cells come from span, then
// cells, in that order; for radio bindings that order is the option order.
type BindingSpec struct {
	Key      string     `yaml:"key"`
	Type     string     `yaml:"type"`
	Page     int        `yaml:"page"` // default page for span and cells
	Span     *SpanSpec  `yaml:"span"`
	Cells    []CellSpec `yaml:"cells"`
	Active   string     `yaml:"active"`
	Inactive string     `yaml:"inactive"`
	Default  any        `yaml:"default"` // option index for radio, bool otherwise

	// random only
	Target         string `yaml:"target"`
	IncludeCurrent bool   `yaml:"includeCurrent"`
}

// SpanSpec is a run of cells on one row, from and to inclusive.
type SpanSpec struct {
	Row  int `yaml:"row"`
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

type CellSpec struct {
	Page *int `yaml:"page"`
	Row  int  `yaml:"row"`
	Col  int  `yaml:"col"`
}

// DefaultLayout returns the built-in layout.
func DefaultLayout() *Layout {
	l, err := ParseLayout(bytes.NewReader(defaultLayout))
	if err != nil {
		panic(fmt.Sprintf("built-in layout: %v", err))
	}
	return l
}

// LoadLayout reads a layout file; an empty path selects the built-in layout.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := ParseLayout(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ParseLayout decodes a YAML layout. Unknown fields are rejected.
func ParseLayout(r io.Reader) (*Layout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var l Layout
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &l, nil
}

// Resolve converts the layout into registry bindings. Cell conflicts are
// left to the registry.
func (l *Layout) Resolve() ([]surface.Binding, error) {
	bindings := make([]surface.Binding, 0, len(l.Bindings))
	for i, spec := range l.Bindings {
		b, err := spec.binding()
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, spec.Key, err)
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

func (s BindingSpec) binding() (surface.Binding, error) {
	t, err := surface.ParseInputType(s.Type)
	if err != nil {
		return surface.Binding{}, err
	}
	b := surface.Binding{
		Key:            s.Key,
		Type:           t,
		Target:         s.Target,
		IncludeCurrent: s.IncludeCurrent,
	}

	if s.Span != nil {
		b.Cells = surface.Row(s.Page, s.Span.Row, s.Span.From, s.Span.To)
	}
	for _, c := range s.Cells {
		page := s.Page
		if c.Page != nil {
			page = *c.Page
		}
		b.Cells = append(b.Cells, surface.Cell{Page: page, Row: c.Row, Col: c.Col})
	}

	if b.ActiveColor, err = parseColor(s.Active); err != nil {
		return surface.Binding{}, err
	}
	if b.InactiveColor, err = parseColor(s.Inactive); err != nil {
		return surface.Binding{}, err
	}
	if b.Default, err = defaultValue(t, s.Default); err != nil {
		return surface.Binding{}, err
	}
	return b, nil
}

func parseColor(s string) (*surface.Color, error) {
	if s == "" {
		return nil, nil
	}
	c, err := surface.ParseColor(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func defaultValue(t surface.InputType, v any) (surface.Value, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case surface.InputRadio:
		if n, ok := v.(int); ok {
			return surface.RadioValue(n), nil
		}
	case surface.InputToggle:
		if b, ok := v.(bool); ok {
			return surface.ToggleValue(b), nil
		}
	case surface.InputOneshot:
		if b, ok := v.(bool); ok {
			return surface.OneshotValue(b), nil
		}
	case surface.InputMomentary:
		if b, ok := v.(bool); ok {
			return surface.MomentaryValue(b), nil
		}
	}
	return nil, fmt.Errorf("default %v (%T) does not fit a %v binding", v, v, t)
}
