package plugin

import (
	"github.com/google/uuid"

	"go-channelize/channel"
	"go-channelize/midi"
	"go-channelize/param"
)

const (
	vendor  = "go-channelize"
	url     = "https://github.com/go-channelize/go-channelize"
	email   = "dev@go-channelize.invalid"
	version = "0.3.0"
)

// ChannelPlugin applies a channel policy with a single "target_channel"
// parameter. The parameter is read again for every event, so sample
// accurate automation within a block is honored.
type ChannelPlugin struct {
	desc   Descriptor
	id     uuid.UUID
	target *param.OptionalChannel
	policy channel.Policy
}

// NewChannelFilter drops events that are not on the target channel.
func NewChannelFilter() *ChannelPlugin {
	return &ChannelPlugin{
		desc: Descriptor{
			Name:                     "Channel Filter",
			Vendor:                   vendor,
			URL:                      url,
			Email:                    email,
			Version:                  version,
			ClapID:                   "dev.go-channelize.channel_filter",
			ClapFeatures:             []string{"MIDI", "utility"},
			VST3ClassID:              [16]byte([]byte("chanFilterGoMidi")),
			VST3Category:             "Fx|Tools",
			MidiInput:                MidiCCs,
			MidiOutput:               MidiCCs,
			SampleAccurateAutomation: true,
		},
		id: uuid.New(),
		target: param.NewOptionalChannel(param.Config{
			ID:        "target_channel",
			Name:      "Target Channel",
			NoneLabel: "All",
			Default:   midi.None,
		}),
		policy: channel.Filter{},
	}
}

// NewChannelize moves events to the target channel.
func NewChannelize() *ChannelPlugin {
	return &ChannelPlugin{
		desc: Descriptor{
			Name:                     "Channelize",
			Vendor:                   vendor,
			URL:                      url,
			Email:                    email,
			Version:                  version,
			ClapID:                   "dev.go-channelize.channelize",
			ClapFeatures:             []string{"MIDI", "utility"},
			VST3ClassID:              [16]byte([]byte("channelizeGoMidi")),
			VST3Category:             "Fx|Tools",
			MidiInput:                MidiCCs,
			MidiOutput:               MidiCCs,
			SampleAccurateAutomation: true,
		},
		id: uuid.New(),
		target: param.NewOptionalChannel(param.Config{
			ID:        "target_channel",
			Name:      "Target Channel",
			NoneLabel: "No Change",
			Default:   midi.None,
		}),
		policy: channel.NewChannelize(),
	}
}

func (p *ChannelPlugin) Descriptor() Descriptor { return p.desc }
func (p *ChannelPlugin) InstanceID() uuid.UUID  { return p.id }

// Target is the routing parameter.
func (p *ChannelPlugin) Target() *param.OptionalChannel {
	return p.target
}

func (p *ChannelPlugin) Params() []Param {
	return []Param{p.target}
}

func (p *ChannelPlugin) AcceptsBusConfig(cfg BusConfig) bool {
	return acceptsNoAudio(cfg)
}

// Flush releases routed notes through ctx and forgets their routes. The
// filter keeps no per-note state and sends nothing.
func (p *ChannelPlugin) Flush(ctx ProcessContext) {
	if r, ok := p.policy.(interface{ Release(func(midi.Event)) }); ok {
		r.Release(ctx.SendEvent)
	}
}

func (p *ChannelPlugin) Process(ctx ProcessContext) ProcessStatus {
	for {
		ev, ok := ctx.NextEvent()
		if !ok {
			return ProcessNormal
		}
		if out, keep := p.policy.Rewrite(ev, p.target.Value()); keep {
			ctx.SendEvent(out)
		}
	}
}
