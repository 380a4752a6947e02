package buttons

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePoll bounds how long a pin waits for an edge before rechecking ctx
const edgePoll = 100 * time.Millisecond

// GPIOConfig names the BCM pins of the three buttons
type GPIOConfig struct {
	SourcePin      string
	DestinationPin string
	GoPin          string
}

// DefaultGPIOConfig is the wiring of the reference build
func DefaultGPIOConfig() GPIOConfig {
	return GPIOConfig{
		SourcePin:      "GPIO17",
		DestinationPin: "GPIO27",
		GoPin:          "GPIO22",
	}
}

// GPIO reads the three buttons through periph
type GPIO struct {
	pins   map[Event]gpio.PinIO
	logger *zap.Logger
}

// OpenGPIO configures the pins as pulled-up inputs with falling-edge detection
func OpenGPIO(cfg GPIOConfig, logger *zap.Logger) (*GPIO, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	g := &GPIO{pins: make(map[Event]gpio.PinIO), logger: logger}

	wiring := map[Event]string{
		SourceCycle:      cfg.SourcePin,
		DestinationCycle: cfg.DestinationPin,
		GoTriggered:      cfg.GoPin,
	}
	for ev, name := range wiring {
		pin := gpioreg.ByName(name)
		if pin == nil {
			g.Close()
			return nil, fmt.Errorf("unknown GPIO pin %q for %s button", name, ev)
		}
		if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			g.Close()
			return nil, fmt.Errorf("failed to configure %s for %s button: %w", name, ev, err)
		}
		g.pins[ev] = pin
		logger.Debug("Configured button", zap.Stringer("event", ev), zap.String("pin", name))
	}

	return g, nil
}

// Run watches all pins until ctx is cancelled
func (g *GPIO) Run(ctx context.Context, funnel *Funnel) error {
	var wg sync.WaitGroup
	for ev, pin := range g.pins {
		wg.Add(1)
		go func(ev Event, pin gpio.PinIO) {
			defer wg.Done()
			g.watch(ctx, ev, pin, funnel)
		}(ev, pin)
	}
	wg.Wait()
	return nil
}

func (g *GPIO) watch(ctx context.Context, ev Event, pin gpio.PinIO, funnel *Funnel) {
	for ctx.Err() == nil {
		if !pin.WaitForEdge(edgePoll) {
			continue
		}
		// A falling edge that reads high again was noise, not a press
		if pin.Read() != gpio.Low {
			g.logger.Debug("Ignoring spurious edge", zap.Stringer("event", ev), zap.String("pin", pin.Name()))
			continue
		}
		funnel.Push(ev)
	}
}

// Close stops edge detection on all pins
func (g *GPIO) Close() error {
	var firstErr error
	for _, pin := range g.pins {
		if err := pin.Halt(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
