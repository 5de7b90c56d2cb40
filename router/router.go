// Package router runs a plugin between two MIDI ports.
package router

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-channelize/debug"
	"go-channelize/midi"
	"go-channelize/plugin"
)

// Source starts delivering messages to recv until stop is called.
type Source func(recv func(msg gomidi.Message, timestampms int32)) (stop func(), err error)

// Sink sends one message.
type Sink func(msg gomidi.Message) error

// PortSource listens to the input port with the given name.
func PortSource(name string) Source {
	return func(recv func(gomidi.Message, int32)) (func(), error) {
		in, err := gomidi.FindInPort(name)
		if err != nil {
			return nil, err
		}
		return gomidi.ListenTo(in, recv)
	}
}

// PortSink opens the output port with the given name.
func PortSink(name string) (Sink, error) {
	out, err := gomidi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return send, nil
}

// Activity reports one handled message, for monitoring.
type Activity struct {
	In      midi.Event
	Out     midi.Event
	Dropped bool
}

// Stats counts handled messages.
type Stats struct {
	Received uint64 // messages converted to events
	Sent     uint64 // events sent after processing
	Dropped  uint64 // events the plugin dropped
	Raw      uint64 // messages forwarded without conversion
	Errors   uint64 // failed sends
}

// Router feeds messages from a Source through a plugin into a Sink. Each
// message is processed as its own block.
type Router struct {
	plugin plugin.Plugin
	source Source
	sink   Sink

	mu       sync.Mutex
	closed   bool
	block    plugin.BlockContext
	in       [1]midi.Event
	out      []midi.Event
	activity chan Activity

	received, sent, dropped, raw, errors atomic.Uint64
}

// New creates a router. Nothing is opened until Run.
func New(p plugin.Plugin, source Source, sink Sink) *Router {
	return &Router{
		plugin:   p,
		source:   source,
		sink:     sink,
		out:      make([]midi.Event, 0, 1),
		activity: make(chan Activity, 64),
	}
}

// Plugin returns the routed plugin.
func (r *Router) Plugin() plugin.Plugin {
	return r.plugin
}

// Activity returns handled events. Slow readers miss events rather than
// stall the router. The channel is closed when Run returns.
func (r *Router) Activity() <-chan Activity {
	return r.activity
}

// Stats returns a snapshot of the counters.
func (r *Router) Stats() Stats {
	return Stats{
		Received: r.received.Load(),
		Sent:     r.sent.Load(),
		Dropped:  r.dropped.Load(),
		Raw:      r.raw.Load(),
		Errors:   r.errors.Load(),
	}
}

// Run listens until ctx is done.
func (r *Router) Run(ctx context.Context) error {
	defer r.close()

	stop, err := r.source(r.Handle)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	desc := r.plugin.Descriptor()
	debug.Log("router", "started %s (%s)", desc.Name, r.plugin.InstanceID())

	<-ctx.Done()
	stop()
	debug.Log("router", "stopped %s: %+v", desc.Name, r.Stats())
	return nil
}

func (r *Router) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.activity)
	}
}

// Handle processes one incoming message. Drivers may call it from their own
// goroutine; messages are handled and sent one at a time, in arrival order.
func (r *Router) Handle(msg gomidi.Message, timestampms int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	ev, ok := midi.FromMessage(msg, 0)
	if !ok {
		r.raw.Add(1)
		r.send(msg)
		return
	}
	r.received.Add(1)

	r.in[0] = ev
	r.block.Reset(r.in[:], r.out)
	r.plugin.Process(&r.block)
	r.out = r.block.Out()

	act := Activity{In: ev, Dropped: len(r.out) == 0}
	if act.Dropped {
		r.dropped.Add(1)
	} else {
		act.Out = r.out[0]
	}
	r.sendOut()

	select {
	case r.activity <- act:
	default:
	}
	debug.Debugf("router", "%s: %d out", msg, len(r.out))
	debug.LogEvery(500, "router", "handled %d events", r.received.Load())
}

// Flush has the plugin release the notes it routed and forget their routes.
// It is safe to call while messages arrive; it runs between two messages.
// It returns the number of note ends sent.
func (r *Router) Flush() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0
	}

	r.block.Reset(nil, r.out)
	r.plugin.Flush(&r.block)
	r.out = r.block.Out()
	n := r.sendOut()
	debug.Log("router", "flushed %d routed notes", n)
	return n
}

// sendOut sends r.out and returns how many messages went out. r.mu must be
// held.
func (r *Router) sendOut() int {
	n := 0
	for _, o := range r.out {
		if m, ok := o.Message(); ok {
			r.sent.Add(1)
			r.send(m)
			n++
		}
	}
	return n
}

func (r *Router) send(msg gomidi.Message) {
	if r.sink == nil {
		return
	}
	if err := r.sink(msg); err != nil {
		r.errors.Add(1)
		debug.Log("router", "send %s: %v", msg, err)
	}
}
