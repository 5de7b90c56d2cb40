package midi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Direction tells input ports from output ports.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
)

func (d Direction) String() string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// DeviceEvent is emitted when a port appears or disappears
type DeviceEvent struct {
	Type      DeviceEventType
	Direction Direction
	Name      string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// PortLister returns the names of the currently available ports.
type PortLister func() (ins, outs []string)

// SystemPorts lists the ports of the registered gomidi driver.
func SystemPorts() (ins, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}

// DeviceManager handles hot-plug detection of MIDI ports
type DeviceManager struct {
	lister   PortLister
	ins      map[string]bool
	outs     map[string]bool
	mu       sync.RWMutex
	events   chan DeviceEvent
	pollRate time.Duration
	timeout  time.Duration
}

// NewDeviceManager creates a device manager. A nil lister uses SystemPorts.
func NewDeviceManager(lister PortLister) *DeviceManager {
	if lister == nil {
		lister = SystemPorts
	}
	return &DeviceManager{
		lister:   lister,
		ins:      make(map[string]bool),
		outs:     make(map[string]bool),
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
		timeout:  3 * time.Second,
	}
}

// SetPollRate changes how often ports are rescanned. Call before Run.
func (dm *DeviceManager) SetPollRate(d time.Duration) {
	dm.pollRate = d
}

// Events returns a channel of port connect/disconnect events. It is closed
// when Run returns.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Ports returns a sorted snapshot of the known ports
func (dm *DeviceManager) Ports() (ins, outs []string) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return sortedKeys(dm.ins), sortedKeys(dm.outs)
}

// Has reports whether a port with that name is currently present.
func (dm *DeviceManager) Has(dir Direction, name string) bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	if dir == DirectionOut {
		return dm.outs[name]
	}
	return dm.ins[name]
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()
	defer close(dm.events)

	// Initial scan
	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

func (dm *DeviceManager) scan(ctx context.Context) {
	// List ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		ins, outs []string
	}

	ch := make(chan portsResult, 1)
	go func() {
		ins, outs := dm.lister()
		ch <- portsResult{ins: ins, outs: outs}
	}()

	var result portsResult
	select {
	case result = <-ch:
	case <-time.After(dm.timeout):
		// Driver is hung - skip this scan
		return
	case <-ctx.Done():
		return
	}

	var events []DeviceEvent
	dm.mu.Lock()
	events = append(events, diff(dm.ins, result.ins, DirectionIn)...)
	events = append(events, diff(dm.outs, result.outs, DirectionOut)...)
	dm.mu.Unlock()

	for _, ev := range events {
		select {
		case dm.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// diff updates known to match seen and returns what changed.
func diff(known map[string]bool, seen []string, dir Direction) []DeviceEvent {
	var events []DeviceEvent
	seenSet := make(map[string]bool, len(seen))
	for _, name := range seen {
		seenSet[name] = true
		if !known[name] {
			known[name] = true
			events = append(events, DeviceEvent{Type: DeviceConnected, Direction: dir, Name: name})
		}
	}
	for _, name := range sortedKeys(known) {
		if !seenSet[name] {
			delete(known, name)
			events = append(events, DeviceEvent{Type: DeviceDisconnected, Direction: dir, Name: name})
		}
	}
	return events
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MatchPort returns the first name containing query, case-insensitively.
// An exact match wins over a partial one.
func MatchPort(names []string, query string) (string, bool) {
	if query == "" {
		return "", false
	}
	for _, n := range names {
		if n == query {
			return n, true
		}
	}
	q := strings.ToLower(query)
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), q) {
			return n, true
		}
	}
	return "", false
}
