package plugin

import "go-channelize/midi"

// BlockContext is a ProcessContext over slices. Reuse one across blocks to
// keep processing allocation free.
type BlockContext struct {
	in  []midi.Event
	pos int
	out []midi.Event
}

// Reset points the context at a new block. Output is appended to out[:0].
func (c *BlockContext) Reset(in, out []midi.Event) {
	c.in, c.pos, c.out = in, 0, out[:0]
}

func (c *BlockContext) NextEvent() (midi.Event, bool) {
	if c.pos >= len(c.in) {
		return midi.Event{}, false
	}
	ev := c.in[c.pos]
	c.pos++
	return ev, true
}

func (c *BlockContext) SendEvent(ev midi.Event) {
	c.out = append(c.out, ev)
}

// Out returns the events sent so far.
func (c *BlockContext) Out() []midi.Event {
	return c.out
}

// ProcessBlock runs p over in and returns the output, appended to out[:0].
func ProcessBlock(p Plugin, in, out []midi.Event) []midi.Event {
	var c BlockContext
	c.Reset(in, out)
	p.Process(&c)
	return c.Out()
}
