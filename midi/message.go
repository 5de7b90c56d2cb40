package midi

import (
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
)

const pitchBendMax = 16383

// FromMessage converts a MIDI 1.0 channel voice message into an Event.
// It returns false for messages that have no Event equivalent (system
// messages, SysEx); those are forwarded as is by the router.
func FromMessage(msg gomidi.Message, timing uint32) (Event, bool) {
	var ch, key, vel, cc, val, program, pressure uint8
	var rel int16
	var abs uint16

	ev := Event{Timing: timing, VoiceID: NoVoice}

	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		// A note on with zero velocity is a note off.
		ev.Kind = KindNoteOn
		if vel == 0 {
			ev.Kind = KindNoteOff
		}
		ev.Channel, ev.Note, ev.Velocity = ch, key, fromByte(vel)
	case msg.GetNoteOff(&ch, &key, &vel):
		ev.Kind = KindNoteOff
		ev.Channel, ev.Note, ev.Velocity = ch, key, fromByte(vel)
	case len(msg) == 3 && msg[0]&0xF0 == 0x90:
		// Note on with velocity 0 that the getters above did not report.
		ev.Kind = KindNoteOff
		ev.Channel, ev.Note = msg[0]&0x0F, msg[1]&0x7F
	case msg.GetPolyAfterTouch(&ch, &key, &pressure):
		ev.Kind = KindPolyPressure
		ev.Channel, ev.Note, ev.Value = ch, key, fromByte(pressure)
	case msg.GetAfterTouch(&ch, &pressure):
		ev.Kind = KindChannelPressure
		ev.Channel, ev.Value = ch, fromByte(pressure)
	case msg.GetControlChange(&ch, &cc, &val):
		ev.Kind = KindControlChange
		ev.Channel, ev.CC, ev.Value = ch, cc, fromByte(val)
	case msg.GetProgramChange(&ch, &program):
		ev.Kind = KindProgramChange
		ev.Channel, ev.Program = ch, program
	case msg.GetPitchBend(&ch, &rel, &abs):
		ev.Kind = KindPitchBend
		ev.Channel, ev.Value = ch, float32(abs)/pitchBendMax
	default:
		return Event{}, false
	}
	return ev, true
}

// Message converts the event back into a MIDI 1.0 message. It returns false
// for kinds that only exist inside a plugin host (poly expressions other
// than pressure, chokes, modulation and automation).
func (e Event) Message() (gomidi.Message, bool) {
	switch e.Kind {
	case KindNoteOn:
		// Velocity 0 would turn the note on into a note off.
		return gomidi.NoteOn(e.Channel, e.Note, max(toByte(e.Velocity), 1)), true
	case KindNoteOff:
		return gomidi.NoteOffVelocity(e.Channel, e.Note, toByte(e.Velocity)), true
	case KindPolyPressure:
		return gomidi.PolyAfterTouch(e.Channel, e.Note, toByte(e.Value)), true
	case KindChannelPressure:
		return gomidi.AfterTouch(e.Channel, toByte(e.Value)), true
	case KindControlChange:
		return gomidi.ControlChange(e.Channel, e.CC, toByte(e.Value)), true
	case KindProgramChange:
		return gomidi.ProgramChange(e.Channel, e.Program), true
	case KindPitchBend:
		abs := math.Round(float64(clamp01(e.Value)) * pitchBendMax)
		return gomidi.Pitchbend(e.Channel, int16(abs)-8192), true
	}
	return nil, false
}

func fromByte(b uint8) float32 {
	return float32(b) / 127
}

func toByte(v float32) uint8 {
	return uint8(math.Round(float64(clamp01(v)) * 127))
}

func clamp01(v float32) float32 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
