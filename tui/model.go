package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-channelize/config"
	"go-channelize/debug"
	"go-channelize/midi"
	"go-channelize/plugin"
	"go-channelize/router"
	"go-channelize/theme"
	"go-channelize/widgets"
)

const logLines = 8

type keyMap struct {
	Up, Down, Reset, Clear, Edit, Save, Quit key.Binding
	Confirm, Cancel                          key.Binding
}

func newKeyMap() keyMap {
	k := func(help string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}
	return keyMap{
		Up:      k("next channel", "up", "right", "+", "="),
		Down:    k("previous channel", "down", "left", "-", "_"),
		Reset:   k("reset target", "r"),
		Clear:   k("release routed notes", "c"),
		Edit:    k("type a value", "e", "enter"),
		Save:    k("save config", "s"),
		Quit:    k("quit", "q", "ctrl+c"),
		Confirm: k("apply", "enter"),
		Cancel:  k("cancel", "esc"),
	}
}

type Model struct {
	Plugin    *plugin.ChannelPlugin
	Router    *router.Router // nil when no ports are open
	DeviceMgr *midi.DeviceManager
	Config    *config.Config
	Theme     *theme.Theme

	keys     keyMap
	input    textinput.Model
	editing  bool
	status   string
	failed   bool
	quitting bool

	held [midi.NumChannels]int
	log  []string
}

type ActivityMsg router.Activity

type activityClosedMsg struct{}

type DeviceEventMsg midi.DeviceEvent

type devicesClosedMsg struct{}

func NewModel(p *plugin.ChannelPlugin, r *router.Router, deviceMgr *midi.DeviceManager, cfg *config.Config, th *theme.Theme) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 20
	ti.Width = 20
	return Model{
		Plugin:    p,
		Router:    r,
		DeviceMgr: deviceMgr,
		Config:    cfg,
		Theme:     th,
		keys:      newKeyMap(),
		input:     ti,
	}
}

func ListenForActivity(r *router.Router) tea.Cmd {
	return func() tea.Msg {
		act, ok := <-r.Activity()
		if !ok {
			return activityClosedMsg{}
		}
		return ActivityMsg(act)
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return devicesClosedMsg{}
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.Router != nil {
		cmds = append(cmds, ListenForActivity(m.Router))
	}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)

	case ActivityMsg:
		m.record(router.Activity(msg))
		return m, ListenForActivity(m.Router)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		verb := "connected"
		if event.Type == midi.DeviceDisconnected {
			verb = "disconnected"
		}
		m.setStatus(fmt.Sprintf("%s port %q %s", event.Direction, event.Name, verb), false)
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := m.Plugin.Target()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		target.Increment()
		m.setStatus("", false)

	case key.Matches(msg, m.keys.Down):
		target.Decrement()
		m.setStatus("", false)

	case key.Matches(msg, m.keys.Reset):
		target.Reset()
		m.setStatus("target reset", false)

	case key.Matches(msg, m.keys.Clear):
		if m.Router == nil {
			m.setStatus("no ports open", true)
			break
		}
		n := m.Router.Flush()
		m.held = [midi.NumChannels]int{}
		m.setStatus(fmt.Sprintf("note routes cleared, %d notes released", n), false)

	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.SetValue(target.Description())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Save):
		if m.Config == nil {
			break
		}
		m.Config.Target = int(target.Plain())
		if err := m.Config.Save(); err != nil {
			m.setStatus("save failed: "+err.Error(), true)
		} else {
			m.setStatus("config saved", false)
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		text := m.input.Value()
		m.stopEditing()
		if err := m.Plugin.Target().SetFromString(text); err != nil {
			debug.Log("tui", "rejected input: %v", err)
			m.setStatus("invalid entry: "+strings.TrimSpace(text), true)
		} else {
			m.setStatus("", false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}

// record tracks held notes per output channel and keeps a short event log.
func (m *Model) record(act router.Activity) {
	line := widgets.RenderEvent(act.In) + "  " + string(m.Theme.Symbols.Dropped)
	if !act.Dropped {
		line = widgets.RenderEvent(act.In) + "  " + string(m.Theme.Symbols.Arrow) + "  " + widgets.RenderEvent(act.Out)
		if c, err := act.Out.ChannelOf(); err == nil {
			i := c.ZeroBased()
			switch {
			case act.Out.Kind.IsNoteStart():
				m.held[i]++
			case act.Out.Kind.IsNoteEnd() && m.held[i] > 0:
				m.held[i]--
			}
		}
	}
	m.log = append(m.log, line)
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	valueStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	desc := m.Plugin.Descriptor()
	target := m.Plugin.Target()

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("%s %s", desc.Name, desc.Version)))
	out.WriteString(dimStyle.Render("  " + m.Plugin.InstanceID().String()))
	out.WriteString("\n\n")

	out.WriteString(fmt.Sprintf("%s: ", target.Name()))
	if m.editing {
		out.WriteString("[" + m.input.View() + "]")
	} else {
		out.WriteString(valueStyle.Render(target.Description()))
	}
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderChannelStrip(m.Theme, target.Value(), m.held))
	out.WriteString("\n\n")

	if m.Router != nil {
		st := m.Router.Stats()
		out.WriteString(dimStyle.Render(fmt.Sprintf("in %d  out %d  dropped %d  raw %d  errors %d",
			st.Received, st.Sent, st.Dropped, st.Raw, st.Errors)))
		out.WriteString("\n")
	} else {
		out.WriteString(dimStyle.Render("no ports open"))
		out.WriteString("\n")
	}
	for _, line := range m.log {
		out.WriteString("  " + line + "\n")
	}

	if m.status != "" {
		out.WriteString("\n")
		if m.failed {
			out.WriteString(errStyle.Render(m.status))
		} else {
			out.WriteString(dimStyle.Render(m.status))
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(m.help()))
	return out.String()
}

func (m Model) help() string {
	if m.editing {
		return "enter:apply  esc:cancel"
	}
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Edit, m.keys.Reset, m.keys.Clear, m.keys.Save, m.keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, "  ")
}
