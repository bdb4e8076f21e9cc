package config

import (
	"os"
	"path/filepath"
	"testing"

	"go-vj/surface"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Clock.Tempo != 120 || cfg.Surface.FrameRate != 60 {
		t.Errorf("LoadFrom() = %+v, want defaults", cfg)
	}
}

func TestSaveLoadKeepsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Surface.FaderButtonMode = "random"
	cfg.UI.LastTempo = 128
	cfg.AddController(ControllerConfig{PortName: "APC mini mk2 Control", Type: ControllerAPCMini, AutoConnect: false})
	cfg.AddController(ControllerConfig{PortName: "Other", Type: ControllerAPCMini, AutoConnect: true})
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Tempo() != 128 {
		t.Errorf("Tempo() = %v, want 128", got.Tempo())
	}
	mode, err := got.FaderMode()
	if err != nil || mode != surface.FaderRandom {
		t.Errorf("FaderMode() = %v, %v", mode, err)
	}
	if len(got.Controllers) != 2 {
		t.Fatalf("Controllers = %+v, want 2", got.Controllers)
	}
	if c := got.FindController("APC mini mk2 Control"); c == nil || c.AutoConnect {
		t.Errorf("FindController() = %+v, want updated entry", c)
	}
	if ports := got.AutoConnectPorts(); len(ports) != 1 || ports[0] != "Other" {
		t.Errorf("AutoConnectPorts() = %v", ports)
	}
}

func TestAutoConnectPortsSkipsOtherTypes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Controllers = nil
	cfg.AddController(ControllerConfig{PortName: "APC", Type: ControllerAPCMini, AutoConnect: true})
	cfg.AddController(ControllerConfig{PortName: "Launchpad", Type: "launchpad", AutoConnect: true})
	cfg.AddController(ControllerConfig{PortName: "Untyped", AutoConnect: true})

	ports := cfg.AutoConnectPorts()
	if len(ports) != 1 || ports[0] != "APC" {
		t.Errorf("AutoConnectPorts() = %v, want [APC]", ports)
	}
	if len(cfg.AutoConnectControllers()) != 3 {
		t.Errorf("AutoConnectControllers() = %+v", cfg.AutoConnectControllers())
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"clock": {"tempo": 140}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Tempo() != 140 {
		t.Errorf("Tempo() = %v, want 140", cfg.Tempo())
	}
	if cfg.API.Addr == "" || cfg.Surface.RandomRate != 2 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFromBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil for broken JSON")
	}
}

func TestFaderModeInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Surface.FaderButtonMode = "strobe"
	if _, err := cfg.FaderMode(); err == nil {
		t.Error("FaderMode() error = nil for unknown mode")
	}
}
