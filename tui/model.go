package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-vj/engine"
	"go-vj/midi"
	"go-vj/surface"
	"go-vj/theme"
	"go-vj/widgets"
)

const bpmStep = 1

type Model struct {
	Engine    *engine.Engine
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme
	keys      keyMap
	help      help.Model
	quitting  bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(eng *engine.Engine, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Accent())
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Muted())
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	return Model{
		Engine:    eng,
		DeviceMgr: deviceMgr,
		Theme:     th,
		keys:      newKeyMap(),
		help:      h,
	}
}

func ListenForUpdates(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		<-eng.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Engine),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		frame := m.Engine.Frame()
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tap):
			m.Engine.TapTempo()

		case key.Matches(msg, m.keys.Resync):
			m.Engine.Resync()

		case key.Matches(msg, m.keys.PrevPage):
			m.Engine.Enqueue(surface.PageSelect((frame.Page + surface.NumPages - 1) % surface.NumPages))

		case key.Matches(msg, m.keys.NextPage):
			m.Engine.Enqueue(surface.PageSelect((frame.Page + 1) % surface.NumPages))

		case key.Matches(msg, m.keys.Faster):
			m.Engine.SetBPM(frame.BPM + bpmStep)

		case key.Matches(msg, m.keys.Slower):
			m.Engine.SetBPM(frame.BPM - bpmStep)

		case key.Matches(msg, m.keys.FaderMode):
			mode := surface.FaderRandom
			if frame.FaderMode == surface.FaderRandom.String() {
				mode = surface.FaderMute
			}
			m.Engine.SetFaderMode(mode)

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)

	case DeviceEventMsg:
		m.Engine.HandleDeviceEvent(midi.DeviceEvent(msg))
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	f := m.Engine.Frame()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	device := dimStyle.Render("no controller")
	if f.Controller != "" {
		device = fgStyle.Render(f.Controller)
	}

	header := headerStyle.Render(fmt.Sprintf("go-vj  %5.1fbpm  beat %7.2f  page %d  faders:%s",
		f.BPM, f.Beat, f.Page+1, f.FaderMode))

	pads := widgets.RenderSurface(m.Theme, f.LEDs)
	faders := widgets.RenderFaders(m.Theme, f.Faders, f.Gates, 8)
	body := lipgloss.JoinHorizontal(lipgloss.Top, pads, "    ", faders)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("  ")
	out.WriteString(widgets.RenderBeat(m.Theme, f.Beat))
	out.WriteString("\n")
	out.WriteString(device)
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")
	out.WriteString(m.renderValues(f, fgStyle, dimStyle))
	out.WriteString("\n\n")
	out.WriteString(m.help.View(m.keys))
	return out.String()
}

func (m Model) renderValues(f engine.Frame, fg, dim lipgloss.Style) string {
	var lines []string
	for _, k := range f.Keys {
		v := f.Values[k]
		if v == nil || v.Type() == surface.InputRandom {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", dim.Render(fmt.Sprintf("%-20s", k)), fg.Render(FormatValue(v))))
	}
	return strings.Join(lines, "\n")
}

// FormatValue renders a binding value for display.
func FormatValue(v surface.Value) string {
	if idx, ok := surface.AsIndex(v); ok {
		return fmt.Sprintf("%d", idx)
	}
	if b, ok := surface.AsBool(v); ok {
		if b {
			return "on"
		}
		return "off"
	}
	return "-"
}
