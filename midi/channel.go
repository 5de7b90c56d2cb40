package midi

import "strconv"

const (
	// NumChannels is the number of MIDI 1.0 channels.
	NumChannels = 16
	// NumNotes is the number of MIDI 1.0 note numbers.
	NumNotes = 128
)

// Channel is a validated MIDI channel. The zero value is channel 1.
//
// Channels only come out of ChannelFromZeroBased, ChannelFromOneBased or
// the Channel1..Channel16 values, so every Channel is in range.
type Channel struct {
	index uint8 // zero-based
}

var (
	Channel1  = Channel{0}
	Channel2  = Channel{1}
	Channel3  = Channel{2}
	Channel4  = Channel{3}
	Channel5  = Channel{4}
	Channel6  = Channel{5}
	Channel7  = Channel{6}
	Channel8  = Channel{7}
	Channel9  = Channel{8}
	Channel10 = Channel{9}
	Channel11 = Channel{10}
	Channel12 = Channel{11}
	Channel13 = Channel{12}
	Channel14 = Channel{13}
	Channel15 = Channel{14}
	Channel16 = Channel{15}
)

// ChannelFromZeroBased returns the channel for an index in 0..15.
func ChannelFromZeroBased(n int) (Channel, error) {
	if n < 0 || n >= NumChannels {
		return Channel{}, OutOfRangeError{Found: n, Min: 0, Max: NumChannels - 1}
	}
	return Channel{uint8(n)}, nil
}

// ChannelFromOneBased returns the channel for a number in 1..16.
func ChannelFromOneBased(n int) (Channel, error) {
	if n < 1 || n > NumChannels {
		return Channel{}, OutOfRangeError{Found: n, Min: 1, Max: NumChannels}
	}
	return Channel{uint8(n - 1)}, nil
}

// AllChannels returns channels 1..16 in order.
func AllChannels() [NumChannels]Channel {
	var all [NumChannels]Channel
	for i := range all {
		all[i] = Channel{uint8(i)}
	}
	return all
}

// ZeroBased returns the channel as 0..15, the way it goes on the wire.
func (c Channel) ZeroBased() uint8 {
	return c.index
}

// OneBased returns the channel as 1..16, the way users count.
func (c Channel) OneBased() uint8 {
	return c.index + 1
}

// Compare returns -1, 0 or +1 depending on whether c is below, equal to
// or above d.
func (c Channel) Compare(d Channel) int {
	switch {
	case c.index < d.index:
		return -1
	case c.index > d.index:
		return 1
	}
	return 0
}

// Less reports whether c comes before d.
func (c Channel) Less(d Channel) bool {
	return c.index < d.index
}

func (c Channel) String() string {
	return strconv.Itoa(int(c.OneBased()))
}

// Note is a validated MIDI note number in 0..127.
type Note uint8

// NoteFromInt returns the note for n in 0..127.
func NoteFromInt(n int) (Note, error) {
	if n < 0 || n >= NumNotes {
		return 0, OutOfRangeError{Found: n, Min: 0, Max: NumNotes - 1}
	}
	return Note(n), nil
}
