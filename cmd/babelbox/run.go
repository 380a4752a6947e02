package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/babelbox/internal/audio"
	"codeberg.org/snonux/babelbox/internal/breaker"
	"codeberg.org/snonux/babelbox/internal/buttons"
	"codeberg.org/snonux/babelbox/internal/capture"
	"codeberg.org/snonux/babelbox/internal/cli"
	"codeberg.org/snonux/babelbox/internal/display"
	"codeberg.org/snonux/babelbox/internal/gui"
	"codeberg.org/snonux/babelbox/internal/journal"
	"codeberg.org/snonux/babelbox/internal/language"
	"codeberg.org/snonux/babelbox/internal/logging"
	"codeberg.org/snonux/babelbox/internal/metrics"
	"codeberg.org/snonux/babelbox/internal/models"
	"codeberg.org/snonux/babelbox/internal/recognition"
	"codeberg.org/snonux/babelbox/internal/session"
	"codeberg.org/snonux/babelbox/internal/speech"
	"codeberg.org/snonux/babelbox/internal/tempaudio"
	"codeberg.org/snonux/babelbox/internal/translation"
)

// funnelBuffer holds a few presses while the controller is busy with a transition
const funnelBuffer = 16

// shutdownTimeout bounds the metrics server shutdown
const shutdownTimeout = 5 * time.Second

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Operator commands need neither hardware nor a full configuration
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, cmd.OutOrStdout())
	}
	if flags.PrintJournal > 0 {
		return printJournal(cmd.OutOrStdout(), viper.GetString("journal.path"), flags.PrintJournal)
	}

	cfg, err := cli.Load()
	if err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	logger := logging.Named("main")
	logger.Info("Starting babelbox", zap.String("mode", cfg.Mode), zap.Int("languages", len(cfg.Languages)))

	if err := run(ctx, stop, cfg); err != nil {
		logger.Error("Startup failed", zap.Error(err))
		return err
	}
	logger.Info("babelbox stopped")
	return nil
}

func printJournal(out io.Writer, path string, n int) error {
	j, err := journal.Open(path, 0, nil)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No journal entries")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-12s %s\n", e.At.Local().Format(time.DateTime), e.Category, e.Message)
	}
	return nil
}

// closers are released in reverse order at shutdown
type closers []func()

func (c *closers) add(fn func()) {
	*c = append(*c, fn)
}

func (c closers) release() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func run(ctx context.Context, stop context.CancelFunc, cfg *cli.Config) error {
	var cleanup closers
	defer func() { cleanup.release() }()

	// First, so that in gui mode every component logger feeds the log panel
	front, err := newFrontend(cfg)
	if err != nil {
		return err
	}
	cleanup.add(front.close)

	logger := logging.Named("main")

	// Error journal, counted by category
	j, err := journal.Open(cfg.JournalPath, cfg.JournalMaxEntries, logging.Named("journal"))
	if err != nil {
		return err
	}
	cleanup.add(func() { j.Close() })

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	errLog := m.CountErrors(j)

	if cfg.MetricsAddr != "" {
		server := metrics.NewServer(cfg.MetricsAddr, reg, logging.Named("metrics"))
		if err := server.Start(); err != nil {
			errLog.LogError(journal.CategoryStartup, err.Error())
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		cleanup.add(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			server.Shutdown(shutdownCtx)
		})
	}

	fail := func(err error) error {
		errLog.LogError(journal.CategoryStartup, err.Error())
		return err
	}

	registry, err := language.NewRegistry(cfg.Languages)
	if err != nil {
		return fail(err)
	}
	sel := language.NewSelection(registry)

	temp, err := tempaudio.NewManager(cfg.TempDir, logging.Named("tempaudio"), errLog)
	if err != nil {
		return fail(err)
	}
	cleanup.add(temp.ReleaseAll)

	services, err := newServices(ctx, cfg, m)
	if err != nil {
		return fail(err)
	}
	cleanup.add(services.close)

	player, err := audio.NewPlayer(cfg.PlayerCommand, logging.Named("player"))
	if err != nil {
		return fail(err)
	}
	logger.Info("Using audio player", zap.String("command", player.Command()))

	mic, err := capture.Open(capture.Config{
		SampleRate:  cfg.Capture.SampleRate,
		Calibration: cfg.Capture.Calibration,
		Detector:    speech.DefaultDetectorConfig(),
	}, logging.Named("capture"))
	if err != nil {
		return fail(err)
	}
	cleanup.add(func() { mic.Close() })

	device := front.device
	if cfg.NatsURL != "" {
		mirror, err := display.ConnectMirror(cfg.NatsURL, display.DefaultMirrorSubject, logging.Named("mirror"))
		if err != nil {
			// The mirror is optional; the appliance runs without it
			errLog.LogError(journal.CategoryStartup, err.Error())
			logger.Warn("Display mirror disabled", zap.Error(err))
		} else {
			device = display.Tee{device, mirror}
			cleanup.add(func() { mirror.Close() })
		}
	}

	controller, err := session.New(sel, session.Deps{
		Capturer:    mic,
		Recognizer:  services.recognizer,
		Translator:  services.translator,
		Synthesizer: services.synthesizer,
		Player:      player,
		Audio:       temp,
		Display:     device,
		ErrorLog:    errLog,
		Observer:    m,
		Logger:      logging.Named("session"),
	}, cfg.Session)
	if err != nil {
		return fail(err)
	}

	funnel := buttons.NewFunnel(funnelBuffer, cfg.Debounce, logging.Named("buttons"), errLog)
	go func() {
		if err := front.source.Run(ctx, funnel); err != nil {
			funnel.Fault(err.Error())
		}
	}()

	if front.sim == nil {
		return controller.Run(ctx, funnel.Events())
	}

	// The simulator window owns the main goroutine until it is closed
	done := make(chan error, 1)
	go func() {
		done <- controller.Run(ctx, funnel.Events())
		front.sim.Quit()
	}()
	front.sim.ShowAndRun()
	stop()
	return <-done
}

// services are the remote collaborators, each behind a circuit breaker
type services struct {
	recognizer  breaker.Recognizer
	translator  breaker.Translator
	synthesizer breaker.Synthesizer
	closers     closers
}

func newServices(ctx context.Context, cfg *cli.Config, m *metrics.Metrics) (*services, error) {
	brkCfg := cfg.Breaker
	brkCfg.OnStateChange = m.BreakerChanged
	brkLogger := logging.Named("breaker")

	s := &services{}

	rec, err := recognition.New(ctx, &cfg.Recognition)
	if err != nil {
		return nil, err
	}
	if c, ok := rec.(io.Closer); ok {
		s.closers.add(func() { c.Close() })
	}
	s.recognizer = breaker.GuardRecognizer(breaker.New("stt", brkCfg, brkLogger), rec)

	tr, err := translation.New(ctx, &cfg.Translation)
	if err != nil {
		s.close()
		return nil, err
	}
	s.translator = breaker.GuardTranslator(breaker.New("translation", brkCfg, brkLogger), tr)

	ttsCfg := cfg.Audio
	ttsCfg.Logger = logging.Named("tts")
	syn, err := audio.NewProvider(&ttsCfg)
	if err != nil {
		s.close()
		return nil, err
	}
	s.synthesizer = breaker.GuardSynthesizer(breaker.New("tts", brkCfg, brkLogger), syn)

	return s, nil
}

func (s *services) close() {
	s.closers.release()
}

// frontend is the button source and screen of the chosen mode
type frontend struct {
	source buttons.Source
	device display.Device
	sim    *gui.Simulator
	closers
}

func newFrontend(cfg *cli.Config) (*frontend, error) {
	switch cfg.Mode {
	case cli.ModeHardware:
		f := &frontend{}
		pins, err := buttons.OpenGPIO(cfg.GPIO, logging.Named("gpio"))
		if err != nil {
			return nil, err
		}
		f.add(func() { pins.Close() })

		oled, err := display.OpenOLED(display.OLEDConfig{Bus: cfg.Display.Bus, Rotate: cfg.Display.Rotate})
		if err != nil {
			f.close()
			return nil, err
		}
		f.add(func() { oled.Close() })

		f.source, f.device = pins, oled
		return f, nil

	case cli.ModeConsole:
		return &frontend{
			source: buttons.NewKeyboard(os.Stdin),
			device: display.NewConsole(os.Stdout, cfg.Display.Width),
		}, nil

	case cli.ModeGUI:
		sim := gui.New(logging.Named("gui"))
		logging.Attach(sim.LogViewer())
		return &frontend{source: sim, device: sim, sim: sim}, nil

	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func (f *frontend) close() {
	f.release()
}
