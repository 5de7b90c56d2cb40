package midi

import "errors"

// ErrNoNote is returned when a note number is read from an event kind that
// does not address a single note.
var ErrNoNote = errors.New("midi: event has no note")

// Kind identifies the type of an Event.
type Kind uint8

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindChoke
	KindVoiceTerminated
	KindPolyModulation
	KindMonoAutomation
	KindPolyPressure
	KindPolyVolume
	KindPolyPan
	KindPolyTuning
	KindPolyVibrato
	KindPolyExpression
	KindPolyBrightness
	KindChannelPressure
	KindPitchBend
	KindControlChange
	KindProgramChange

	kindCount
)

type kindTraits struct {
	name       string
	hasChannel bool
	hasNote    bool
}

// Every kind must have an entry here; kind_test.go checks that none is left
// unclassified.
var kinds = [kindCount]kindTraits{
	KindNoteOn:          {"NoteOn", true, true},
	KindNoteOff:         {"NoteOff", true, true},
	KindChoke:           {"Choke", true, true},
	KindVoiceTerminated: {"VoiceTerminated", true, true},
	KindPolyModulation:  {"PolyModulation", false, false},
	KindMonoAutomation:  {"MonoAutomation", false, false},
	KindPolyPressure:    {"PolyPressure", true, true},
	KindPolyVolume:      {"PolyVolume", true, true},
	KindPolyPan:         {"PolyPan", true, true},
	KindPolyTuning:      {"PolyTuning", true, true},
	KindPolyVibrato:     {"PolyVibrato", true, true},
	KindPolyExpression:  {"PolyExpression", true, true},
	KindPolyBrightness:  {"PolyBrightness", true, true},
	KindChannelPressure: {"ChannelPressure", true, false},
	KindPitchBend:       {"PitchBend", true, false},
	KindControlChange:   {"ControlChange", true, false},
	KindProgramChange:   {"ProgramChange", true, false},
}

func (k Kind) traits() kindTraits {
	if k >= kindCount {
		return kindTraits{name: "Unknown"}
	}
	return kinds[k]
}

func (k Kind) String() string {
	return k.traits().name
}

// HasChannel reports whether events of this kind are addressed to a channel.
// Unknown kinds are channel-less.
func (k Kind) HasChannel() bool {
	return k.traits().hasChannel
}

// HasNote reports whether events of this kind address a single note.
func (k Kind) HasNote() bool {
	return k.traits().hasNote
}

// IsNoteStart reports whether the kind starts a sounding note.
func (k Kind) IsNoteStart() bool {
	return k == KindNoteOn
}

// IsNoteEnd reports whether the kind ends a sounding note. Events of these
// kinds must reach the channel their note start was sent to.
func (k Kind) IsNoteEnd() bool {
	return k == KindNoteOff || k == KindChoke || k == KindVoiceTerminated
}

// NoVoice is the VoiceID of events not tied to a host voice.
const NoVoice int32 = -1

// Event is a single timestamped performance event.
//
// Which fields are meaningful depends on Kind. Channel and Note are kept as
// the raw values the host delivered; use the Channel and Note methods to get
// validated values.
type Event struct {
	Kind   Kind
	Timing uint32 // sample offset within the processing block

	VoiceID int32
	Channel uint8 // zero-based
	Note    uint8

	// Velocity is the normalized note velocity in 0..1.
	Velocity float32
	// Value carries the payload of pressure, poly expression, pitch bend
	// (0.5 is centre), control change and automation events, normalized.
	Value float32

	CC           uint8
	Program      uint8
	ModulationID uint32
}

// ChannelOf returns the event's channel. It fails with ErrNoChannel for
// channel-less kinds and with OutOfRangeError for a malformed channel field.
func (e Event) ChannelOf() (Channel, error) {
	if !e.Kind.HasChannel() {
		return Channel{}, ErrNoChannel
	}
	return ChannelFromZeroBased(int(e.Channel))
}

// NoteOf returns the event's note number.
func (e Event) NoteOf() (Note, error) {
	if !e.Kind.HasNote() {
		return 0, ErrNoNote
	}
	return NoteFromInt(int(e.Note))
}

// SetChannel readdresses the event, or returns ErrNoChannel.
func (e *Event) SetChannel(c Channel) error {
	if !e.Kind.HasChannel() {
		return ErrNoChannel
	}
	e.Channel = c.ZeroBased()
	return nil
}

// WithChannel returns the event readdressed to c. Channel-less events are
// returned unchanged.
func (e Event) WithChannel(c Channel) Event {
	_ = e.SetChannel(c)
	return e
}

// NoteOn builds a note start event.
func NoteOn(timing uint32, c Channel, note Note, velocity float32) Event {
	return Event{Kind: KindNoteOn, Timing: timing, VoiceID: NoVoice, Channel: c.ZeroBased(), Note: uint8(note), Velocity: velocity}
}

// NoteOff builds a note end event.
func NoteOff(timing uint32, c Channel, note Note, velocity float32) Event {
	return Event{Kind: KindNoteOff, Timing: timing, VoiceID: NoVoice, Channel: c.ZeroBased(), Note: uint8(note), Velocity: velocity}
}

// ControlChange builds a CC event with a normalized value.
func ControlChange(timing uint32, c Channel, cc uint8, value float32) Event {
	return Event{Kind: KindControlChange, Timing: timing, VoiceID: NoVoice, Channel: c.ZeroBased(), CC: cc, Value: value}
}

// PolyModulation builds a channel-less modulation event for a host voice.
func PolyModulation(timing uint32, voiceID int32, modulationID uint32, offset float32) Event {
	return Event{Kind: KindPolyModulation, Timing: timing, VoiceID: voiceID, ModulationID: modulationID, Value: offset}
}
