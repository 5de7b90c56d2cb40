// Package param holds automatable plugin parameters.
package param

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"go-channelize/midi"
)

// DefaultNoneLabel is shown for the "no channel" selection unless the
// parameter is configured otherwise.
const DefaultNoneLabel = "No Channel"

var channelText = func() [midi.PlainMax + 1]string {
	var t [midi.PlainMax + 1]string
	for _, c := range midi.AllChannels() {
		t[c.OneBased()] = c.String()
	}
	return t
}()

// Config describes an OptionalChannel parameter.
type Config struct {
	ID   string
	Name string
	// NoneLabel is the text for the "no channel" selection. Empty, or a
	// label that reads as a channel number, means DefaultNoneLabel.
	NoneLabel string
	Default   midi.OptionalChannel
}

// OptionalChannel is a parameter selecting a MIDI channel or none.
//
// It is stored as a plain integer in 0..16 (0 = none, k = channel k), which
// is what hosts persist. Reads and writes are atomic, so the host or UI may
// change it while the audio thread reads Value.
type OptionalChannel struct {
	id        string
	name      string
	noneLabel string
	def       midi.OptionalChannel

	plain      atomic.Int32
	modulation atomic.Uint64 // float64 bits, normalized offset
}

// NewOptionalChannel creates the parameter at its default value.
func NewOptionalChannel(cfg Config) *OptionalChannel {
	p := &OptionalChannel{
		id:        cfg.ID,
		name:      cfg.Name,
		noneLabel: cfg.NoneLabel,
		def:       cfg.Default,
	}
	if !validNoneLabel(cfg.NoneLabel) {
		p.noneLabel = DefaultNoneLabel
	}
	p.plain.Store(int32(cfg.Default.Plain()))
	return p
}

func validNoneLabel(label string) bool {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return false
	}
	for _, text := range channelText[1:] {
		if trimmed == text {
			return false
		}
	}
	return true
}

func (p *OptionalChannel) ID() string                    { return p.id }
func (p *OptionalChannel) Name() string                  { return p.name }
func (p *OptionalChannel) NoneLabel() string             { return p.noneLabel }
func (p *OptionalChannel) Default() midi.OptionalChannel { return p.def }

// StepCount is the number of steps between the lowest and highest value.
func (p *OptionalChannel) StepCount() int {
	return midi.PlainMax - midi.PlainMin
}

// Value returns the current selection after modulation. A stored value
// outside 0..16 reads as the default.
func (p *OptionalChannel) Value() midi.OptionalChannel {
	v, err := midi.OptionalChannelFromPlain(int(p.ModulatedPlain()))
	if err != nil {
		return p.def
	}
	return v
}

// Plain returns the stored plain value without modulation.
func (p *OptionalChannel) Plain() int32 {
	return p.plain.Load()
}

// ModulatedPlain returns the plain value with modulation applied.
func (p *OptionalChannel) ModulatedPlain() int32 {
	plain := p.plain.Load()
	offset := math.Float64frombits(p.modulation.Load())
	if offset == 0 || plain < midi.PlainMin || plain > midi.PlainMax {
		return plain
	}
	return p.PreviewPlain(p.PreviewNormalized(plain) + offset)
}

// SetPlain stores a raw plain value as delivered by the host. It is not
// clamped; Value falls back to the default for out of range values.
func (p *OptionalChannel) SetPlain(plain int32) {
	p.plain.Store(plain)
}

// SetValue selects v.
func (p *OptionalChannel) SetValue(v midi.OptionalChannel) {
	p.plain.Store(int32(v.Plain()))
}

// Reset selects the default.
func (p *OptionalChannel) Reset() {
	p.SetValue(p.def)
}

// Normalized returns the stored value in 0..1.
func (p *OptionalChannel) Normalized() float64 {
	return p.PreviewNormalized(p.plain.Load())
}

// SetNormalized stores the plain value nearest to n.
func (p *OptionalChannel) SetNormalized(n float64) {
	p.plain.Store(p.PreviewPlain(n))
}

// SetModulation sets a normalized offset added on top of the stored value.
func (p *OptionalChannel) SetModulation(offset float64) {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		offset = 0
	}
	p.modulation.Store(math.Float64bits(offset))
}

// PreviewNormalized maps a plain value to 0..1, clamping it into range.
func (p *OptionalChannel) PreviewNormalized(plain int32) float64 {
	plain = min(max(plain, midi.PlainMin), midi.PlainMax)
	return float64(plain-midi.PlainMin) / float64(midi.PlainMax-midi.PlainMin)
}

// PreviewPlain maps a normalized value to the nearest plain value.
func (p *OptionalChannel) PreviewPlain(n float64) int32 {
	if math.IsNaN(n) {
		return midi.PlainMin
	}
	n = min(max(n, 0), 1)
	return int32(math.Round(n*float64(midi.PlainMax-midi.PlainMin))) + midi.PlainMin
}

// ToString renders none as the configured label and a channel as its
// one-based number.
func (p *OptionalChannel) ToString(v midi.OptionalChannel) string {
	if v.IsNone() {
		return p.noneLabel
	}
	return channelText[v.Plain()]
}

// FromString parses the none label or a channel number 1..16. Surrounding
// whitespace is ignored.
func (p *OptionalChannel) FromString(text string) (midi.OptionalChannel, error) {
	s := strings.TrimSpace(text)
	if s == strings.TrimSpace(p.noneLabel) {
		return midi.None, nil
	}
	for plain := 1; plain <= midi.PlainMax; plain++ {
		if s == channelText[plain] {
			return midi.OptionalChannelFromPlain(plain)
		}
	}
	return midi.None, ParseError{Text: text}
}

// NormalizedToString renders a normalized value.
func (p *OptionalChannel) NormalizedToString(n float64) string {
	v, err := midi.OptionalChannelFromPlain(int(p.PreviewPlain(n)))
	if err != nil {
		v = p.def
	}
	return p.ToString(v)
}

// StringToNormalized parses text into a normalized value.
func (p *OptionalChannel) StringToNormalized(text string) (float64, error) {
	v, err := p.FromString(text)
	if err != nil {
		return 0, err
	}
	return p.PreviewNormalized(int32(v.Plain())), nil
}

// SetFromString selects the value text names. On error nothing changes.
func (p *OptionalChannel) SetFromString(text string) error {
	v, err := p.FromString(text)
	if err != nil {
		return err
	}
	p.SetValue(v)
	return nil
}

// NextStep returns the value after v: none, 1, 2, ... 16. It stays at 16.
func (p *OptionalChannel) NextStep(v midi.OptionalChannel) midi.OptionalChannel {
	return step(v, 1)
}

// PreviousStep returns the value before v. It stays at none.
func (p *OptionalChannel) PreviousStep(v midi.OptionalChannel) midi.OptionalChannel {
	return step(v, -1)
}

func step(v midi.OptionalChannel, delta int) midi.OptionalChannel {
	plain := min(max(v.Plain()+delta, midi.PlainMin), midi.PlainMax)
	next, _ := midi.OptionalChannelFromPlain(plain)
	return next
}

// Increment moves the stored value one step up.
func (p *OptionalChannel) Increment() {
	p.SetValue(p.NextStep(p.stored()))
}

// Decrement moves the stored value one step down.
func (p *OptionalChannel) Decrement() {
	p.SetValue(p.PreviousStep(p.stored()))
}

// stored decodes the value without modulation.
func (p *OptionalChannel) stored() midi.OptionalChannel {
	v, err := midi.OptionalChannelFromPlain(int(p.plain.Load()))
	if err != nil {
		return p.def
	}
	return v
}

// Description returns the current value as text.
func (p *OptionalChannel) Description() string {
	return p.ToString(p.Value())
}

func (p *OptionalChannel) String() string {
	return p.Description()
}

func (p *OptionalChannel) GoString() string {
	return fmt.Sprintf("param.OptionalChannel{id: %q, channel: %v, default: %v, noneLabel: %q}",
		p.id, p.Value(), p.def, p.noneLabel)
}
