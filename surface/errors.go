package surface

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every layout authoring mistake reported by
// Register and RegisterAll.
var ErrConfiguration = errors.New("surface: configuration error")

// DuplicateCellError reports a cell claimed by two bindings.
type DuplicateCellError struct {
	Cell     Cell
	Existing string // key already owning the cell
	Key      string // key that tried to claim it
}

func (e *DuplicateCellError) Error() string {
	return fmt.Sprintf("cell %v is already bound to %q, cannot bind %q", e.Cell, e.Existing, e.Key)
}

func (e *DuplicateCellError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConfigError reports any other invalid binding.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("binding %q: %s", e.Key, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// Problem is a non-fatal layout issue found by Registry.Check.
type Problem struct {
	Key    string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Key, p.Reason)
}
