// Package plugin is the host-facing shell around the channel policies: a
// descriptor, parameters and a per-block Process call.
package plugin

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"go-channelize/midi"
)

// MidiConfig says which MIDI events a plugin takes or produces.
type MidiConfig int

const (
	MidiNone MidiConfig = iota
	MidiBasic           // notes only
	MidiCCs             // notes, CCs, pitch bend and the rest
)

// BusConfig is an audio bus layout offered by the host.
type BusConfig struct {
	InputChannels  uint32
	OutputChannels uint32
	AuxInputs      AuxConfig
	AuxOutputs     AuxConfig
}

// AuxConfig describes auxiliary busses.
type AuxConfig struct {
	Busses   uint32
	Channels uint32
}

// Descriptor is what a host shows and stores about a plugin.
type Descriptor struct {
	Name    string
	Vendor  string
	URL     string
	Email   string
	Version string

	ClapID       string
	ClapFeatures []string
	VST3ClassID  [16]byte
	VST3Category string

	MidiInput                MidiConfig
	MidiOutput               MidiConfig
	SampleAccurateAutomation bool
}

// ProcessStatus is returned by Process.
type ProcessStatus int

const (
	ProcessNormal ProcessStatus = iota
	ProcessError
)

// ProcessContext hands out the events of one block and collects output.
type ProcessContext interface {
	NextEvent() (midi.Event, bool)
	SendEvent(midi.Event)
}

// Param is the host view of a parameter.
type Param interface {
	ID() string
	Name() string
	Normalized() float64
	SetNormalized(float64)
	NormalizedToString(float64) string
	StringToNormalized(string) (float64, error)
	Description() string
	Reset()
}

// Plugin processes event blocks.
type Plugin interface {
	Descriptor() Descriptor
	InstanceID() uuid.UUID
	Params() []Param
	AcceptsBusConfig(BusConfig) bool
	// Flush ends every note the plugin is holding and drops per-note
	// state, e.g. on transport stop. It is called from the processing
	// goroutine, never concurrently with Process.
	Flush(ctx ProcessContext)
	Process(ctx ProcessContext) ProcessStatus
}

const (
	IDChannelFilter = "channel-filter"
	IDChannelize    = "channelize"
)

var registry = map[string]func() Plugin{
	IDChannelFilter: func() Plugin { return NewChannelFilter() },
	IDChannelize:    func() Plugin { return NewChannelize() },
}

// New creates a plugin instance by id.
func New(id string) (Plugin, error) {
	mk, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown plugin %q (have %v)", id, IDs())
	}
	return mk(), nil
}

// IDs lists the known plugin ids.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// acceptsNoAudio accepts only layouts without audio channels.
func acceptsNoAudio(cfg BusConfig) bool {
	return cfg == BusConfig{}
}
