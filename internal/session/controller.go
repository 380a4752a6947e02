package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/babelbox/internal"
	"codeberg.org/snonux/babelbox/internal/buttons"
	"codeberg.org/snonux/babelbox/internal/display"
	"codeberg.org/snonux/babelbox/internal/journal"
	"codeberg.org/snonux/babelbox/internal/language"
	"codeberg.org/snonux/babelbox/internal/speech"
)

// Capturer records one phrase; speech.ErrNoSpeech means nobody spoke in time
type Capturer interface {
	Listen(ctx context.Context, timeout, maxPhrase time.Duration) (*speech.Audio, error)
}

// Recognizer converts a phrase into text; it reports speech.ErrUnintelligible
// or speech.ErrServiceUnavailable
type Recognizer interface {
	Recognize(ctx context.Context, audio *speech.Audio, languageCode string) (string, error)
}

// Translator translates text between language codes
type Translator interface {
	Translate(ctx context.Context, text, fromLang, toLang string) (string, error)
}

// Synthesizer renders text as encoded audio in Format()
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
	Format() string
}

// Player plays an audio file and returns when playback has finished
type Player interface {
	Play(ctx context.Context, path string) error
}

// AudioScope writes audio to a temporary file that only lives during fn
type AudioScope interface {
	WithSynthesizedAudio(data []byte, format string, fn func(path string) error) error
}

// ErrorLog receives categorized failures
type ErrorLog interface {
	LogError(category, message string)
}

// Observer is told about runs, stages and dropped events
type Observer interface {
	RunStarted()
	RunFinished(outcome string, d time.Duration)
	StageFinished(stage string, d time.Duration)
	EventDropped(event string)
}

// Config holds the run timings and the display width
type Config struct {
	ListenTimeout time.Duration // wait for speech to start
	MaxPhrase     time.Duration // longest phrase recorded
	Dwell         time.Duration // how long outcome screens stay up
	Width         int           // characters per display line
}

// DefaultConfig returns the appliance defaults
func DefaultConfig() Config {
	return Config{
		ListenTimeout: 5 * time.Second,
		MaxPhrase:     10 * time.Second,
		Dwell:         2 * time.Second,
		Width:         display.DefaultWidth,
	}
}

// Deps are the controller's collaborators. Observer, ErrorLog, Logger and
// OnTransition are optional.
type Deps struct {
	Capturer     Capturer
	Recognizer   Recognizer
	Translator   Translator
	Synthesizer  Synthesizer
	Player       Player
	Audio        AudioScope
	Display      display.Device
	ErrorLog     ErrorLog
	Observer     Observer
	Logger       *zap.Logger
	OnTransition func(from, to State)
}

// Request is the data of one run
type Request struct {
	ID          string
	Source      language.Entry
	Destination language.Entry
	StartedAt   time.Time

	Captured   *speech.Audio
	Recognized string
	Translated string
}

// Controller owns the selection and the state machine
type Controller struct {
	cfg    Config
	deps   Deps
	sel    *language.Selection
	logger *zap.Logger

	mu    sync.Mutex
	state State

	displayMu sync.Mutex
}

// New creates a controller in state Ready
func New(sel *language.Selection, deps Deps, cfg Config) (*Controller, error) {
	if sel == nil {
		return nil, errors.New("selection is required")
	}
	switch {
	case deps.Capturer == nil:
		return nil, errors.New("capturer is required")
	case deps.Recognizer == nil:
		return nil, errors.New("recognizer is required")
	case deps.Translator == nil:
		return nil, errors.New("translator is required")
	case deps.Synthesizer == nil:
		return nil, errors.New("synthesizer is required")
	case deps.Player == nil:
		return nil, errors.New("player is required")
	case deps.Audio == nil:
		return nil, errors.New("audio scope is required")
	case deps.Display == nil:
		return nil, errors.New("display is required")
	}

	defaults := DefaultConfig()
	if cfg.ListenTimeout <= 0 {
		cfg.ListenTimeout = defaults.ListenTimeout
	}
	if cfg.MaxPhrase <= 0 {
		cfg.MaxPhrase = defaults.MaxPhrase
	}
	if cfg.Dwell <= 0 {
		cfg.Dwell = defaults.Dwell
	}
	if cfg.Width <= 0 {
		cfg.Width = defaults.Width
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		cfg:    cfg,
		deps:   deps,
		sel:    sel,
		logger: logger,
		state:  Ready,
	}, nil
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run shows the startup screen and handles events until ctx is cancelled
// or events is closed. An in-flight run is always waited for.
func (c *Controller) Run(ctx context.Context, events <-chan buttons.Event) error {
	c.show(display.RenderSelection(c.sel, display.Status("Ready", "Press GO"), c.cfg.Width))

	var running chan struct{}
	for {
		select {
		case <-ctx.Done():
			if running != nil {
				<-running
			}
			return nil

		case <-running:
			running = nil
			if events == nil {
				return nil
			}

		case ev, open := <-events:
			if !open {
				if running == nil {
					return nil
				}
				events = nil
				continue
			}
			if running != nil {
				c.drop(ev)
				continue
			}
			if ev == buttons.GoTriggered {
				running = c.start(ctx)
				continue
			}
			c.cycle(ev)
		}
	}
}

// cycle applies a selection event while idle
func (c *Controller) cycle(ev buttons.Event) {
	var line string
	switch ev {
	case buttons.SourceCycle:
		c.sel.CycleSource()
		line = "Source: " + c.sel.Source().Name
	case buttons.DestinationCycle:
		c.sel.CycleDestination()
		line = "Target: " + c.sel.Destination().Name
	default:
		c.logger.Warn("Ignoring unknown event", zap.Int("event", int(ev)))
		return
	}

	c.logger.Info("Selection changed",
		zap.String("source", c.sel.Source().Code),
		zap.String("destination", c.sel.Destination().Code))
	c.show(display.RenderSelection(c.sel, display.Status(line, ""), c.cfg.Width))
}

func (c *Controller) drop(ev buttons.Event) {
	c.logger.Debug("Dropping event while busy",
		zap.Stringer("event", ev),
		zap.Stringer("state", c.State()))
	if c.deps.Observer != nil {
		c.deps.Observer.EventDropped(ev.String())
	}
}

// start snapshots the selection into a request and runs it in a worker.
// The returned channel is closed once the controller is Ready again.
func (c *Controller) start(ctx context.Context) chan struct{} {
	req := &Request{
		ID:          internal.GenerateRunID(c.sel.Source().Code, c.sel.Destination().Code),
		Source:      c.sel.Source(),
		Destination: c.sel.Destination(),
		StartedAt:   time.Now(),
	}

	// Leave Ready before the controller reads the next event
	c.transition(req, Listening)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.execute(ctx, req)
	}()
	return done
}

// execute performs one run and always ends in Ready
func (c *Controller) execute(ctx context.Context, req *Request) {
	logger := c.logger.With(zap.String("run_id", req.ID),
		zap.String("source", req.Source.Code),
		zap.String("destination", req.Destination.Code))
	logger.Info("Run started")
	if c.deps.Observer != nil {
		c.deps.Observer.RunStarted()
	}

	outcome := c.pipeline(ctx, req, logger)

	if outcome != nil && outcome.Kind == Cancelled {
		logger.Info("Run cancelled")
		c.finish(req, "cancelled")
		return
	}

	if outcome == nil {
		c.transition(req, ShowingResult)
		c.status(req, "Translation:", req.Translated)
		logger.Info("Run finished",
			zap.String("recognized", req.Recognized),
			zap.String("translated", req.Translated))
	} else {
		next := outcome.State()
		c.transition(req, next)
		c.status(req, errorTitle(next), outcome.Detail())
		logger.Warn("Run failed", zap.Stringer("kind", outcome.Kind), zap.Error(outcome.Err))
		if c.deps.ErrorLog != nil {
			c.deps.ErrorLog.LogError(outcome.category(), fmt.Sprintf("%s: %v", req.ID, outcome))
		}
	}

	c.dwell(ctx)
	c.finish(req, outcomeName(outcome))
}

// finish returns to Ready and shows the idle screen
func (c *Controller) finish(req *Request, outcome string) {
	c.transition(req, Ready)
	c.status(req, "Ready", "Press GO")
	if c.deps.Observer != nil {
		c.deps.Observer.RunFinished(outcome, time.Since(req.StartedAt))
	}
}

// pipeline runs the stages and returns the first fault, nil on success
func (c *Controller) pipeline(ctx context.Context, req *Request, logger *zap.Logger) *Fault {
	c.status(req, "Listening...", "")
	captured := timed(c, "capture", func() stage[*speech.Audio] { return c.capture(ctx) })
	if captured.fault != nil {
		return captured.fault
	}
	req.Captured = captured.value
	logger.Debug("Captured phrase", zap.Duration("duration", req.Captured.Duration()))

	c.transition(req, Recognizing)
	recognized := timed(c, "recognize", func() stage[string] { return c.recognize(ctx, req) })
	if recognized.fault != nil {
		return recognized.fault
	}
	req.Recognized = recognized.value
	logger.Info("Recognized", zap.String("text", req.Recognized))

	c.transition(req, Translating)
	c.status(req, "Processing...", req.Recognized)
	translated := timed(c, "translate", func() stage[string] { return c.translate(ctx, req) })
	if translated.fault != nil {
		return translated.fault
	}
	req.Translated = translated.value
	logger.Info("Translated", zap.String("text", req.Translated))

	c.transition(req, Synthesizing)
	synthesized := timed(c, "synthesize", func() stage[[]byte] { return c.synthesize(ctx, req) })
	if synthesized.fault != nil {
		return synthesized.fault
	}

	played := timed(c, "play", func() stage[struct{}] { return c.play(ctx, req, synthesized.value) })
	return played.fault
}

func (c *Controller) capture(ctx context.Context) stage[*speech.Audio] {
	audio, err := c.deps.Capturer.Listen(ctx, c.cfg.ListenTimeout, c.cfg.MaxPhrase)
	if err != nil {
		return failed[*speech.Audio](classifyCapture(err), err)
	}
	if audio == nil || len(audio.PCM) == 0 {
		return failed[*speech.Audio](CaptureTimeout, speech.ErrNoSpeech)
	}
	return succeeded(audio)
}

func (c *Controller) recognize(ctx context.Context, req *Request) stage[string] {
	text, err := c.deps.Recognizer.Recognize(ctx, req.Captured, req.Source.Code)
	if err != nil {
		return failed[string](classifyRecognition(err), err)
	}
	if text == "" {
		return failed[string](Unintelligible, speech.ErrUnintelligible)
	}
	return succeeded(text)
}

func (c *Controller) translate(ctx context.Context, req *Request) stage[string] {
	text, err := c.deps.Translator.Translate(ctx, req.Recognized, req.Source.Code, req.Destination.Code)
	if err != nil {
		return failed[string](TranslationFailure, err)
	}
	if text == "" {
		return failed[string](TranslationFailure, errors.New("empty translation"))
	}
	return succeeded(text)
}

func (c *Controller) synthesize(ctx context.Context, req *Request) stage[[]byte] {
	data, err := c.deps.Synthesizer.Synthesize(ctx, req.Translated, req.Destination.Code)
	if err != nil {
		return failed[[]byte](SynthesisFailure, err)
	}
	if len(data) == 0 {
		return failed[[]byte](SynthesisFailure, errors.New("no audio data"))
	}
	return succeeded(data)
}

// play writes the audio to a scoped temp file and plays it. The file is
// removed before play returns.
func (c *Controller) play(ctx context.Context, req *Request, data []byte) stage[struct{}] {
	started := false
	err := c.deps.Audio.WithSynthesizedAudio(data, c.deps.Synthesizer.Format(), func(path string) error {
		started = true
		c.transition(req, Playing)
		c.status(req, "Speaking...", req.Translated)
		return c.deps.Player.Play(ctx, path)
	})
	if err == nil {
		return succeeded(struct{}{})
	}
	if !started {
		return failed[struct{}](SynthesisFailure, err)
	}
	return failed[struct{}](PlaybackFailure, err)
}

// timed runs one stage and reports its duration
func timed[T any](c *Controller, name string, fn func() stage[T]) stage[T] {
	start := time.Now()
	result := fn()
	if c.deps.Observer != nil {
		c.deps.Observer.StageFinished(name, time.Since(start))
	}
	return result
}

func (c *Controller) dwell(ctx context.Context) {
	t := time.NewTimer(c.cfg.Dwell)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (c *Controller) transition(req *Request, to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()

	c.logger.Debug("State transition",
		zap.String("run_id", req.ID),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	if c.deps.OnTransition != nil {
		c.deps.OnTransition(from, to)
	}
}

// status renders the run's languages with two status lines
func (c *Controller) status(req *Request, line1, line2 string) {
	c.show(display.Render(req.Source, req.Destination, display.Status(line1, line2), c.cfg.Width))
}

// show never fails a run; a broken display is journaled and ignored
func (c *Controller) show(frame display.Frame) {
	c.displayMu.Lock()
	defer c.displayMu.Unlock()

	if err := c.deps.Display.Show(frame); err != nil {
		c.logger.Warn("Display update failed", zap.Error(err))
		if c.deps.ErrorLog != nil {
			c.deps.ErrorLog.LogError(journal.CategoryDisplay, err.Error())
		}
	}
}

func errorTitle(s State) string {
	switch s {
	case SttFailed:
		return "STT Error"
	case TranslationFailed:
		return "Translation Err"
	default:
		return "TTS Error"
	}
}

func outcomeName(f *Fault) string {
	if f == nil {
		return "success"
	}
	switch f.State() {
	case SttFailed:
		return "stt_failed"
	case TranslationFailed:
		return "translation_failed"
	default:
		return "tts_failed"
	}
}
