package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-channelize/midi"
	"go-channelize/plugin"
	"go-channelize/router"
	"go-channelize/theme"
)

func newTestModel() Model {
	return NewModel(plugin.NewChannelize(), nil, nil, nil, theme.New(nil))
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStepKeys(t *testing.T) {
	m := newTestModel()
	target := m.Plugin.Target()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, midi.Some(midi.Channel3), target.Value())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, midi.Some(midi.Channel2), target.Value())

	press(t, m, runes("r"))
	assert.Equal(t, midi.None, target.Value())
}

func TestEditValid(t *testing.T) {
	m := newTestModel()
	m.Plugin.Target().SetValue(midi.Some(midi.Channel1))

	m = press(t, m, runes("e"))
	assert.True(t, m.editing)
	assert.Equal(t, "1", m.input.Value())

	m = press(t, m, runes("2"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	assert.False(t, m.failed)
	assert.Equal(t, midi.Some(midi.Channel12), m.Plugin.Target().Value())
}

func TestEditInvalidKeepsValue(t *testing.T) {
	m := newTestModel()
	m.Plugin.Target().SetValue(midi.Some(midi.Channel5))

	m = press(t, m, runes("e"), runes("5"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.failed)
	assert.Equal(t, "invalid entry: 55", m.status)
	assert.Equal(t, midi.Some(midi.Channel5), m.Plugin.Target().Value())
}

func TestEditCancel(t *testing.T) {
	m := newTestModel()
	m = press(t, m, runes("e"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editing)
	assert.Equal(t, midi.None, m.Plugin.Target().Value())
}

func TestRecordHeldNotes(t *testing.T) {
	m := newTestModel()
	on := midi.NoteOn(0, midi.Channel4, 54, 1)

	m.record(router.Activity{In: on, Out: on.WithChannel(midi.Channel12)})
	assert.Equal(t, 1, m.held[midi.Channel12.ZeroBased()])

	off := midi.NoteOff(1, midi.Channel4, 54, 0)
	m.record(router.Activity{In: off, Out: off.WithChannel(midi.Channel12)})
	assert.Zero(t, m.held[midi.Channel12.ZeroBased()])

	m.record(router.Activity{In: on, Dropped: true})
	for i := 0; i < 2*logLines; i++ {
		m.record(router.Activity{In: on, Out: on})
	}
	assert.Len(t, m.log, logLines)
}

func TestView(t *testing.T) {
	m := newTestModel()
	out := m.View()
	assert.Contains(t, out, "Channelize")
	assert.Contains(t, out, "Target Channel: No Change")
	assert.Contains(t, out, "no ports open")

	m = press(t, m, runes("q"))
	assert.Empty(t, m.View())
}

func TestClearReleasesThroughRouter(t *testing.T) {
	m := newTestModel()
	m = press(t, m, runes("c"))
	assert.True(t, m.failed)
	assert.Equal(t, "no ports open", m.status)

	p := plugin.NewChannelize()
	p.Target().SetValue(midi.Some(midi.Channel12))
	var sent []gomidi.Message
	r := router.New(p, nil, func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return nil
	})
	r.Handle(gomidi.NoteOn(3, 54, 100), 0)

	m = NewModel(p, r, nil, nil, theme.New(nil))
	m.held[11] = 1
	m = press(t, m, runes("c"))
	assert.False(t, m.failed)
	assert.Equal(t, "note routes cleared, 1 notes released", m.status)
	assert.Zero(t, m.held[11])
	assert.Equal(t, gomidi.NoteOffVelocity(11, 54, 0), sent[len(sent)-1])
}
