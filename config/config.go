package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-vj/midi"
	"go-vj/surface"
)

// ControllerType identifies the kind of controller
type ControllerType string

const (
	ControllerAPCMini ControllerType = "apc-mini"
)

// ControllerConfig defines a saved controller configuration
type ControllerConfig struct {
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
}

// SurfaceConfig controls the registry and the frame loop
type SurfaceConfig struct {
	// YAML layout path, empty for the built-in one
	Layout string `json:"layout,omitempty"`
	// "mute" or "random"
	FaderButtonMode string `json:"faderButtonMode,omitempty"`

	FrameRate  int     `json:"frameRate,omitempty"`
	RandomRate float64 `json:"randomRate,omitempty"` // random fader flips per beat
}

type ClockConfig struct {
	Tempo float64 `json:"tempo,omitempty"`
}

type APIConfig struct {
	Addr string `json:"addr,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastTempo float64 `json:"lastTempo,omitempty"`
	Palette   string  `json:"palette,omitempty"` // GIMP .gpl file for the monitor
}

// Config is the main configuration structure
type Config struct {
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	Surface     SurfaceConfig      `json:"surface"`
	Clock       ClockConfig        `json:"clock"`
	API         APIConfig          `json:"api"`
	UI          UIConfig           `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Controllers: []ControllerConfig{
			{
				PortName:    "APC mini mk2 Control",
				Type:        ControllerAPCMini,
				AutoConnect: true,
			},
		},
		Surface: SurfaceConfig{
			FaderButtonMode: "mute",
			FrameRate:       60,
			RandomRate:      2,
		},
		Clock: ClockConfig{
			Tempo: 120,
		},
		API: APIConfig{
			Addr: "127.0.0.1:7700",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-vj"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file. Fields missing from the file keep their
// default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FaderMode parses Surface.FaderButtonMode.
func (c *Config) FaderMode() (surface.FaderMode, error) {
	return surface.ParseFaderMode(c.Surface.FaderButtonMode)
}

// Tempo is the tempo to start with: the last one used, else the configured one.
func (c *Config) Tempo() float64 {
	if c.UI.LastTempo > 0 {
		return c.UI.LastTempo
	}
	return c.Clock.Tempo
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AddController adds or updates a controller config
func (c *Config) AddController(ctrl ControllerConfig) {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == ctrl.PortName {
			c.Controllers[i] = ctrl
			return
		}
	}
	c.Controllers = append(c.Controllers, ctrl)
}

// AutoConnectControllers returns controllers with autoConnect enabled
func (c *Config) AutoConnectControllers() []ControllerConfig {
	var result []ControllerConfig
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl)
		}
	}
	return result
}

// AutoConnectPorts lists the port names of AutoConnectControllers that speak
// the APC mini protocol. Entries of other types are kept but not opened.
func (c *Config) AutoConnectPorts() []string {
	var ports []string
	for _, ctrl := range c.AutoConnectControllers() {
		if midi.ParseControllerType(string(ctrl.Type)) != midi.ControllerAPCMini {
			continue
		}
		ports = append(ports, ctrl.PortName)
	}
	return ports
}
