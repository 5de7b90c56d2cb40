package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-channelize/midi"
	"go-channelize/theme"
)

// RenderChannelStrip renders the 16 channels as a row of numbered pads.
// The target channel is marked, and channels with held notes light up.
func RenderChannelStrip(th *theme.Theme, target midi.OptionalChannel, held [midi.NumChannels]int) string {
	idle := lipgloss.NewStyle().Foreground(th.Muted())
	sounding := lipgloss.NewStyle()
	marked := lipgloss.NewStyle().Foreground(th.Success()).Bold(true)
	label := lipgloss.NewStyle().Foreground(th.FG())

	want, hasTarget := target.Get()

	var pads, labels strings.Builder
	for i, c := range midi.AllChannels() {
		if i > 0 {
			pads.WriteString(" ")
			labels.WriteString(" ")
		}
		sym, style := th.Symbols.Pad, idle
		if held[i] > 0 {
			sym, style = th.Symbols.Sounding, sounding.Foreground(th.ChannelColor(c))
		}
		if hasTarget && c == want {
			style = marked
			if held[i] == 0 {
				sym = th.Symbols.Target
			}
		}
		pads.WriteString(style.Render(fmt.Sprintf("%2c", sym)))
		labels.WriteString(label.Render(fmt.Sprintf("%2d", c.OneBased())))
	}
	return pads.String() + "\n" + labels.String()
}

// RenderEvent renders one event as a short log line.
func RenderEvent(ev midi.Event) string {
	ch := "--"
	if c, err := ev.ChannelOf(); err == nil {
		ch = fmt.Sprintf("%2d", c.OneBased())
	}
	switch {
	case ev.Kind.HasNote():
		return fmt.Sprintf("%-15s ch %s  note %3d", ev.Kind, ch, ev.Note)
	case ev.Kind == midi.KindControlChange:
		return fmt.Sprintf("%-15s ch %s  cc   %3d", ev.Kind, ch, ev.CC)
	case ev.Kind == midi.KindProgramChange:
		return fmt.Sprintf("%-15s ch %s  prog %3d", ev.Kind, ch, ev.Program)
	}
	return fmt.Sprintf("%-15s ch %s", ev.Kind, ch)
}
