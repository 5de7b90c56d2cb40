package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	chmidi "go-channelize/midi"
	"go-channelize/plugin"
	"go-channelize/router"
)

func main() {
	defer midi.CloseDriver()

	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		err = monitor(os.Args[2:])
	case "rewrite":
		err = rewrite(os.Args[2:])
	case "poll":
		pollDevices()
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                               - List all MIDI ports")
	fmt.Println("  monitor <in>                       - Print events from an input port")
	fmt.Println("  rewrite <plugin> <target> <hex>... - Run messages through a plugin offline")
	fmt.Println("  poll                               - Poll for port changes")
	fmt.Printf("\nPlugins: %v\n", plugin.IDs())
}

func listPorts() {
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins, outs []string
	}
	ch := make(chan result, 1)
	go func() {
		ins, outs := chmidi.SystemPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		fmt.Println("=== MIDI Input Ports ===")
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p)
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI driver is hung.")
	}
}

func monitor(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("monitor needs an input port")
	}
	ins, _ := chmidi.SystemPorts()
	name, ok := chmidi.MatchPort(ins, args[0])
	if !ok {
		return fmt.Errorf("no input port matching %q", args[0])
	}

	in, err := midi.FindInPort(name)
	if err != nil {
		return err
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		ev, ok := chmidi.FromMessage(msg, 0)
		if !ok {
			fmt.Printf("[%6d] %s\n", timestampms, msg)
			return
		}
		ch := "--"
		if c, err := ev.ChannelOf(); err == nil {
			ch = c.String()
		}
		fmt.Printf("[%6d] %-15s ch %-2s note %3d cc %3d value %.3f\n",
			timestampms, ev.Kind, ch, ev.Note, ev.CC, ev.Value)
	})
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer stop()

	fmt.Printf("Monitoring %s. Ctrl+C to exit.\n", name)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	<-ctx.Done()
	return nil
}

// rewrite runs hex encoded messages, e.g. "903640", through a plugin.
func rewrite(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("rewrite needs a plugin, a target and at least one message")
	}
	p, err := plugin.New(args[0])
	if err != nil {
		return err
	}
	plain, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	target, err := chmidi.OptionalChannelFromPlain(plain)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if cp, ok := p.(*plugin.ChannelPlugin); ok {
		cp.Target().SetValue(target)
		fmt.Printf("%s, target %s\n", p.Descriptor().Name, cp.Target().Description())
	}

	r := router.New(p, nil, func(msg midi.Message) error {
		fmt.Printf("  -> %s\n", msg)
		return nil
	})
	for _, arg := range args[2:] {
		b, err := hex.DecodeString(strings.ReplaceAll(arg, " ", ""))
		if err != nil {
			return fmt.Errorf("message %q: %w", arg, err)
		}
		msg := midi.Message(b)
		fmt.Printf("%s\n", msg)
		r.Handle(msg, 0)
	}
	st := r.Stats()
	fmt.Printf("sent %d, dropped %d\n", st.Sent, st.Dropped)
	return nil
}

func pollDevices() {
	fmt.Println("Polling for port changes every 2 seconds... Ctrl+C to exit.")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dm := chmidi.NewDeviceManager(nil)
	dm.SetPollRate(2 * time.Second)
	go dm.Run(ctx)

	for ev := range dm.Events() {
		verb := "connected"
		if ev.Type == chmidi.DeviceDisconnected {
			verb = "disconnected"
		}
		fmt.Printf("[%s] %s %-3s %s\n", time.Now().Format("15:04:05"), verb, ev.Direction, ev.Name)
	}
}
