package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"golang.org/x/sync/errgroup"

	"go-channelize/config"
	"go-channelize/debug"
	"go-channelize/midi"
	"go-channelize/plugin"
	"go-channelize/router"
	"go-channelize/theme"
	"go-channelize/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defer gomidi.CloseDriver()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.Plugin, "plugin", cfg.Plugin, fmt.Sprintf("plugin to run %v", plugin.IDs()))
	flag.StringVar(&cfg.InputPort, "in", cfg.InputPort, "input port name (or part of it)")
	flag.StringVar(&cfg.OutputPort, "out", cfg.OutputPort, "output port name (or part of it)")
	flag.IntVar(&cfg.Target, "target", cfg.Target, "target channel, 0 for none")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log to "+debug.Path())
	palettePath := flag.String("palette", "", "GIMP palette file for the UI")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}

	p, err := plugin.New(cfg.Plugin)
	if err != nil {
		return err
	}
	cp, ok := p.(*plugin.ChannelPlugin)
	if !ok {
		return fmt.Errorf("plugin %q has no target channel", cfg.Plugin)
	}
	target, err := cfg.TargetChannel()
	if err != nil {
		return err
	}
	cp.Target().SetValue(target)

	palette := theme.Plasma()
	if *palettePath != "" {
		if palette, err = theme.LoadGPL(*palettePath); err != nil {
			return err
		}
	}
	th := theme.New(palette)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// Port hot-plug notifications for the UI
	deviceMgr := midi.NewDeviceManager(nil)
	g.Go(func() error {
		deviceMgr.Run(gctx)
		return nil
	})

	r, err := openRouter(cp, cfg)
	if err != nil {
		cancel()
		return errors.Join(err, g.Wait())
	}
	if r != nil {
		g.Go(func() error {
			err := r.Run(gctx)
			if err != nil {
				debug.Log("main", "router: %v", err)
			}
			return err
		})
	}

	m := tui.NewModel(cp, r, deviceMgr, cfg, th)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err = prog.Run()
	cancel()
	return errors.Join(err, g.Wait())
}

// openRouter resolves the configured ports. It returns nil without an input
// port, which leaves the UI usable for editing the config.
func openRouter(p plugin.Plugin, cfg *config.Config) (*router.Router, error) {
	if cfg.InputPort == "" {
		return nil, nil
	}
	ins, outs := midi.SystemPorts()

	inName, ok := midi.MatchPort(ins, cfg.InputPort)
	if !ok {
		return nil, fmt.Errorf("no input port matching %q (have %v)", cfg.InputPort, ins)
	}

	var sink router.Sink
	if cfg.OutputPort != "" {
		outName, ok := midi.MatchPort(outs, cfg.OutputPort)
		if !ok {
			return nil, fmt.Errorf("no output port matching %q (have %v)", cfg.OutputPort, outs)
		}
		var err error
		if sink, err = router.PortSink(outName); err != nil {
			return nil, err
		}
	}
	debug.Log("main", "routing %q -> %q through %s", inName, cfg.OutputPort, p.Descriptor().Name)
	return router.New(p, router.PortSource(inName), sink), nil
}
