package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-channelize/midi"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Pad      rune // ■ channel pad
	Target   rune // ◆ target channel
	Sounding rune // ● channel with held notes
	Arrow    rune // → routing
	Dropped  rune // ✕ filtered out
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Plasma()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Pad:      '■',
			Target:   '◆',
			Sounding: '●',
			Arrow:    '→',
			Dropped:  '✕',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.5
	RoleAccent  = 0.6
	RoleActive  = 0.75
	RoleWarning = 0.85
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Hex(t.Palette.Lookup(norm))
}

// Hex converts an RGB triple to a lipgloss color.
func Hex(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

// ChannelColor spreads the 16 channels over the palette, so a channel keeps
// its color across the strip and the event log.
func (t *Theme) ChannelColor(c midi.Channel) lipgloss.Color {
	return t.Color(float64(c.ZeroBased()) / (midi.NumChannels - 1))
}
