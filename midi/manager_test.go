package midi_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"go-channelize/midi"
)

type fakePorts struct {
	mu        sync.Mutex
	ins, outs []string
}

func (f *fakePorts) set(ins, outs []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ins, f.outs = ins, outs
}

func (f *fakePorts) list() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ins...), append([]string(nil), f.outs...)
}

func next(t *testing.T, events <-chan midi.DeviceEvent) midi.DeviceEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no device event")
	}
	return midi.DeviceEvent{}
}

func TestDeviceManagerHotPlug(t *testing.T) {
	defer goleak.VerifyNone(t)

	ports := &fakePorts{}
	ports.set([]string{"Keys"}, []string{"Synth"})

	dm := midi.NewDeviceManager(ports.list)
	dm.SetPollRate(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dm.Run(ctx)
		close(done)
	}()

	assert.Equal(t, midi.DeviceEvent{Type: midi.DeviceConnected, Direction: midi.DirectionIn, Name: "Keys"}, next(t, dm.Events()))
	assert.Equal(t, midi.DeviceEvent{Type: midi.DeviceConnected, Direction: midi.DirectionOut, Name: "Synth"}, next(t, dm.Events()))
	assert.True(t, dm.Has(midi.DirectionIn, "Keys"))
	assert.True(t, dm.Has(midi.DirectionOut, "Synth"))

	ports.set(nil, []string{"Synth"})
	assert.Equal(t, midi.DeviceEvent{Type: midi.DeviceDisconnected, Direction: midi.DirectionIn, Name: "Keys"}, next(t, dm.Events()))
	ins, outs := dm.Ports()
	assert.Empty(t, ins)
	assert.Equal(t, []string{"Synth"}, outs)

	cancel()
	<-done
	_, ok := <-dm.Events()
	require.False(t, ok, "events must be closed after Run")
}

func TestMatchPort(t *testing.T) {
	names := []string{"Launchpad X LPX MIDI", "IAC Driver Bus 1", "Bus"}

	name, ok := midi.MatchPort(names, "Bus")
	assert.True(t, ok)
	assert.Equal(t, "Bus", name, "exact match wins")

	name, ok = midi.MatchPort(names, "iac")
	assert.True(t, ok)
	assert.Equal(t, "IAC Driver Bus 1", name)

	_, ok = midi.MatchPort(names, "missing")
	assert.False(t, ok)
	_, ok = midi.MatchPort(names, "")
	assert.False(t, ok)
}
