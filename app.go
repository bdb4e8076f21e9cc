package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"go-vj/api"
	"go-vj/config"
	"go-vj/debug"
	"go-vj/engine"
	"go-vj/midi"
	"go-vj/rhythm"
	"go-vj/surface"
	"go-vj/theme"
	"go-vj/tui"
)

// app is the wired engine for one run.
type app struct {
	cfg *config.Config
	reg *surface.Registry
	eng *engine.Engine
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func saveConfig(cfg *config.Config) error {
	if configPath != "" {
		return cfg.SaveTo(configPath)
	}
	return cfg.Save()
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("layout") {
		cfg.Surface.Layout = layoutPath
	}
	if flags.Changed("fader-mode") {
		cfg.Surface.FaderButtonMode = faderMode
	}
	if flags.Changed("bpm") {
		cfg.UI.LastTempo = bpm
	}
	if flags.Changed("addr") {
		cfg.API.Addr = addr
	}
	if flags.Changed("palette") {
		cfg.UI.Palette = palettePath
	}
}

// buildRegistry loads a layout and registers it. Check problems are logged,
// not returned.
func buildRegistry(layoutPath string, mode surface.FaderMode) (*surface.Registry, error) {
	layout, err := config.LoadLayout(layoutPath)
	if err != nil {
		return nil, err
	}
	bindings, err := layout.Resolve()
	if err != nil {
		return nil, err
	}

	reg := surface.New(surface.WithFaderMode(mode))
	if err := reg.RegisterAll(bindings); err != nil {
		return nil, err
	}
	for _, p := range reg.Check() {
		debug.Log("layout", "%s", p)
	}
	return reg, nil
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	mode, err := cfg.FaderMode()
	if err != nil {
		return nil, err
	}
	reg, err := buildRegistry(cfg.Surface.Layout, mode)
	if err != nil {
		return nil, err
	}

	clock := rhythm.New(cfg.Tempo())
	eng := engine.New(reg, clock,
		engine.WithFPS(cfg.Surface.FrameRate),
		engine.WithRandomRate(cfg.Surface.RandomRate),
	)
	return &app{cfg: cfg, reg: reg, eng: eng}, nil
}

// start runs the engine, the device manager and the API until ctx is done.
func (a *app) start(ctx context.Context) *midi.DeviceManager {
	deviceMgr := midi.NewDeviceManager(a.cfg.AutoConnectPorts()...)
	go deviceMgr.Run(ctx)
	go a.eng.Run(ctx)

	if !noAPI && a.cfg.API.Addr != "" {
		gin.SetMode(gin.ReleaseMode)
		go func() {
			if err := api.Serve(ctx, a.cfg.API.Addr, a.eng); err != nil {
				debug.Log("api", "serve: %v", err)
			}
		}()
	}
	return deviceMgr
}

// saveTempo remembers the tempo for the next run.
func (a *app) saveTempo() {
	a.cfg.UI.LastTempo = a.eng.Frame().BPM
	if err := saveConfig(a.cfg); err != nil {
		debug.Log("config", "save: %v", err)
	}
}

// rememberController adds a newly seen controller to the config so the next
// run opens it by port name.
func (a *app) rememberController(c midi.Controller) {
	if c == nil || a.cfg.FindController(c.ID()) != nil {
		return
	}
	a.cfg.AddController(config.ControllerConfig{
		PortName:    c.ID(),
		Type:        config.ControllerType(c.Type().String()),
		AutoConnect: true,
	})
	debug.Log("config", "remembered controller %s", c.ID())
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if debugLog {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer debug.Disable()
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	palette, err := theme.LoadOrDefault(a.cfg.UI.Palette)
	if err != nil {
		return err
	}
	th := theme.New(palette)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	deviceMgr := a.start(ctx)

	m := tui.NewModel(a.eng, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	// The manager drops its controllers once ctx is done.
	for _, c := range deviceMgr.Controllers() {
		a.rememberController(c)
	}
	cancel()

	a.saveTempo()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if debugLog {
		debug.EnableWriter(os.Stderr)
		defer debug.Disable()
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	deviceMgr := a.start(ctx)

	fmt.Fprintf(os.Stderr, "go-vj %s: %d bindings, %.1f bpm", version, len(a.reg.Keys()), a.eng.Frame().BPM)
	if !noAPI && a.cfg.API.Addr != "" {
		fmt.Fprintf(os.Stderr, ", API on http://%s/api/v1 (docs at /swagger/index.html)", a.cfg.API.Addr)
	}
	fmt.Fprintln(os.Stderr)

	// Closed by the device manager once ctx is done.
	for ev := range deviceMgr.Events() {
		if ev.Type == midi.DeviceConnected {
			a.rememberController(ev.Controller)
		}
		a.eng.HandleDeviceEvent(ev)
	}
	a.saveTempo()
	return nil
}

func runPorts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configured := make(map[string]bool)
	for _, p := range cfg.AutoConnectPorts() {
		configured[p] = true
	}

	ports, err := midi.ListPorts(midi.PortTimeout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DIR\tPORT\tCONTROLLER")
	for _, p := range ports.In {
		fmt.Fprintf(w, "in\t%s\t%s\n", p.String(), portRole(p.String(), configured))
	}
	for _, p := range ports.Out {
		fmt.Fprintf(w, "out\t%s\t%s\n", p.String(), portRole(p.String(), configured))
	}
	return w.Flush()
}

func portRole(name string, configured map[string]bool) string {
	switch {
	case midi.IsAPCMini(name):
		return midi.ControllerAPCMini.String()
	case configured[name]:
		return "configured"
	}
	return "-"
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	layout, err := config.LoadLayout(path)
	if err != nil {
		return err
	}
	bindings, err := layout.Resolve()
	if err != nil {
		return err
	}
	reg := surface.New()
	if err := reg.RegisterAll(bindings); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name := layout.Name
	if name == "" {
		name = path
	}
	fmt.Fprintf(out, "%s: %d bindings\n", name, len(bindings))
	problems := reg.Check()
	for _, p := range problems {
		fmt.Fprintf(out, "  warning: %s\n", p)
	}
	return nil
}
