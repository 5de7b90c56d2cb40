// Package channel rewrites the channel events are addressed to.
//
// Filter drops events that are not on a target channel. Channelize moves
// events to a target channel and keeps note starts and note ends paired, so
// changing the target while a note sounds never leaves it hanging.
package channel

import "go-channelize/midi"

// Policy rewrites a single event for the current target. It returns false
// when the event is dropped.
type Policy interface {
	Rewrite(ev midi.Event, target midi.OptionalChannel) (midi.Event, bool)
}

// Filter passes only events on the target channel. With no target every
// event passes. Channel-less events, and events whose channel field is
// malformed, always pass.
type Filter struct{}

func (Filter) Rewrite(ev midi.Event, target midi.OptionalChannel) (midi.Event, bool) {
	want, ok := target.Get()
	if !ok {
		return ev, true
	}
	have, err := ev.ChannelOf()
	if err != nil {
		return ev, true
	}
	return ev, have == want
}

// Channelize moves events to the target channel. It owns a Tracker and must
// only be used from one goroutine.
type Channelize struct {
	tracker *Tracker
}

// NewChannelize returns a channelizer with a fresh tracker.
func NewChannelize() *Channelize {
	return &Channelize{tracker: NewTracker()}
}

// Tracker exposes the note routing table.
func (c *Channelize) Tracker() *Tracker {
	return c.tracker
}

// Release sends a note end for every note routed away from its input
// channel, then forgets all routes. Like Rewrite it must run on the goroutine
// that processes events.
func (c *Channelize) Release(send func(midi.Event)) {
	c.tracker.Routed(func(note midi.Note, in, out midi.Channel) {
		send(midi.NoteOff(0, out, note, 0))
	})
	c.tracker.Reset()
}

// Rewrite never drops events.
//
// Note ends go wherever their note start went, whatever the target is now.
// Note starts go to the target, or stay put with no target, and the choice
// is recorded. Everything else that has a channel goes to the target.
func (c *Channelize) Rewrite(ev midi.Event, target midi.OptionalChannel) (midi.Event, bool) {
	in, err := ev.ChannelOf()
	if err != nil {
		return ev, true
	}

	switch {
	case ev.Kind.IsNoteEnd():
		note, err := ev.NoteOf()
		if err != nil {
			return ev, true
		}
		return ev.WithChannel(c.tracker.Get(note, in)), true

	case ev.Kind.IsNoteStart():
		note, err := ev.NoteOf()
		if err != nil {
			return ev, true
		}
		out := target.Or(in)
		c.tracker.Set(note, in, out)
		return ev.WithChannel(out), true
	}

	if out, ok := target.Get(); ok {
		return ev.WithChannel(out), true
	}
	return ev, true
}
