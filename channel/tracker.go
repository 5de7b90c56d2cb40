package channel

import "go-channelize/midi"

// Tracker remembers, per input channel and note, which output channel the
// last note start was sent to, so the matching note end can follow it.
//
// It is a fixed table; Get and Set never allocate. A new Tracker maps every
// key to its own input channel.
type Tracker struct {
	cache [midi.NumChannels][midi.NumNotes]midi.Channel
}

// NewTracker returns a tracker with the identity mapping.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Reset restores the identity mapping.
func (t *Tracker) Reset() {
	for i, c := range midi.AllChannels() {
		for n := range t.cache[i] {
			t.cache[i][n] = c
		}
	}
}

// Set records that note on in was routed to out.
func (t *Tracker) Set(note midi.Note, in, out midi.Channel) {
	t.cache[in.ZeroBased()][note] = out
}

// Routed calls fn for every key whose route differs from its input channel,
// in channel then note order.
func (t *Tracker) Routed(fn func(note midi.Note, in, out midi.Channel)) {
	for i, in := range midi.AllChannels() {
		for n, out := range t.cache[i] {
			if out != in {
				fn(midi.Note(n), in, out)
			}
		}
	}
}

// Get returns where note on in was last routed.
func (t *Tracker) Get(note midi.Note, in midi.Channel) midi.Channel {
	return t.cache[in.ZeroBased()][note]
}
