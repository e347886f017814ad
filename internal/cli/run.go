// internal/cli/run.go
package cli

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/dnnspaul/paulander/internal/bus"
	"github.com/dnnspaul/paulander/internal/config"
	"github.com/dnnspaul/paulander/internal/controller"
	"github.com/dnnspaul/paulander/internal/epd"
	"github.com/dnnspaul/paulander/internal/history"
	"github.com/dnnspaul/paulander/internal/refresh"
	"github.com/dnnspaul/paulander/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the display controller",
		Run:   runRun,
	}
	RootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	p := &cfg.Paulander

	// --------------------
	// Render sink
	// --------------------

	renderer, err := buildRenderer(p)
	if err != nil {
		exitErr("display", err)
	}

	// --------------------
	// Journal (optional)
	// --------------------

	var journal *history.Store
	if p.History.Path != "" {
		journal, err = history.Open(p.History.Path)
		if err != nil {
			exitErr("journal", err)
		}
		defer journal.Close()
	}

	// --------------------
	// Reassembly + scheduling
	// --------------------

	asm := bus.NewAssembler(bus.AssemblerConfig{
		Capacity: p.Frame.Capacity,
		Timeout:  time.Duration(p.Frame.TimeoutMs) * time.Millisecond,
	})

	sched := refresh.New(refresh.Config{
		MaxStale:    time.Duration(p.Refresh.MaxStaleMinutes) * time.Minute,
		MinInterval: time.Duration(*p.Refresh.MinIntervalSeconds) * time.Second,
	})

	ctrl := controller.New(asm, sched, renderer, journal, controller.Config{
		Tick: time.Duration(p.Refresh.TickMs) * time.Millisecond,
	})

	// --------------------
	// Transport
	// --------------------

	serial, err := bus.OpenSerial(bus.SerialConfig{Device: p.Bus.Device, Baud: p.Bus.Baud}, asm)
	if err != nil {
		exitErr("serial open", err)
	}
	defer serial.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := serial.Run(ctx); err != nil {
			log.Printf("serial reader stopped: %v", err)
			stop()
		}
	}()

	log.Printf("paulander running (device=%s mode=%s)", p.Bus.Device, p.Display.Mode)
	ctrl.Run(ctx)
	log.Printf("shutting down")
}

// buildRenderer assembles the configured render sink.
func buildRenderer(p *config.PaulanderConfig) (render.Renderer, error) {
	faces, err := render.LoadFaces(p.Render.FontPath)
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	composer := render.NewComposer(p.Display.Width, p.Display.Height, p.Render.Variant, faces)

	if p.Display.Mode == "png" {
		return &render.PNGRenderer{Path: p.Display.PNGPath, Composer: composer}, nil
	}

	// spi mode: real panel
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	port, err := spireg.Open(p.Display.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", p.Display.SPIPort, err)
	}

	dc, err := outPin(p.Display.DCPin)
	if err != nil {
		return nil, err
	}
	rst, err := outPin(p.Display.ResetPin)
	if err != nil {
		return nil, err
	}
	busy := gpioreg.ByName(p.Display.BusyPin)
	if busy == nil {
		return nil, fmt.Errorf("gpio %q not found", p.Display.BusyPin)
	}
	if err := busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("gpio %q: %w", p.Display.BusyPin, err)
	}

	dev, err := epd.New(port, dc, rst, busy, epd.Opts{Width: p.Display.Width, Height: p.Display.Height})
	if err != nil {
		return nil, fmt.Errorf("panel init: %w", err)
	}

	return &render.PanelRenderer{Drawer: dev, Composer: composer}, nil
}

func outPin(name string) (gpio.PinOut, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	return pin, nil
}
