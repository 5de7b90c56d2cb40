package midi

// PlainNone is the plain value of the "no channel" selection. Plain values
// 1..16 are the one-based channels. The encoding is what hosts persist in
// presets and automation, so it must stay as is.
const (
	PlainNone = 0
	PlainMin  = 0
	PlainMax  = NumChannels
)

// OptionalChannel is either a Channel or the explicit "none" selection.
// The zero value is none.
//
// "None" here is a user selection ("all channels", "no change"). It is not
// the same as an event without a channel, which is ErrNoChannel.
type OptionalChannel struct {
	ch  Channel
	set bool
}

// None is the "no channel selected" value.
var None = OptionalChannel{}

// Some wraps a channel.
func Some(c Channel) OptionalChannel {
	return OptionalChannel{ch: c, set: true}
}

// OptionalChannelFromPlain decodes 0 as none and 1..16 as that channel.
func OptionalChannelFromPlain(plain int) (OptionalChannel, error) {
	if plain == PlainNone {
		return None, nil
	}
	c, err := ChannelFromOneBased(plain)
	if err != nil {
		return None, OutOfRangeError{Found: plain, Min: PlainMin, Max: PlainMax}
	}
	return Some(c), nil
}

// Get returns the channel and true, or false when none is selected.
func (o OptionalChannel) Get() (Channel, bool) {
	return o.ch, o.set
}

// IsNone reports whether no channel is selected.
func (o OptionalChannel) IsNone() bool {
	return !o.set
}

// Or returns the selected channel, or fallback when none is selected.
func (o OptionalChannel) Or(fallback Channel) Channel {
	if o.set {
		return o.ch
	}
	return fallback
}

// Plain encodes none as 0 and channel k as k.
func (o OptionalChannel) Plain() int {
	if !o.set {
		return PlainNone
	}
	return int(o.ch.OneBased())
}

// Compare orders none before channel 1 before channel 2 and so on.
func (o OptionalChannel) Compare(p OptionalChannel) int {
	a, b := o.Plain(), p.Plain()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String is for logs; user-facing text comes from the parameter.
func (o OptionalChannel) String() string {
	if !o.set {
		return "none"
	}
	return o.ch.String()
}
