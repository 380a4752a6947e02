package buttons

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/babelbox/internal/journal"
)

// DefaultDebounce suppresses repeats from one physical press
const DefaultDebounce = 200 * time.Millisecond

// MinDebounce is the shortest window that still absorbs contact bounce
const MinDebounce = 150 * time.Millisecond

// Event is a button action
type Event int

const (
	// SourceCycle selects the next source language
	SourceCycle Event = iota
	// DestinationCycle selects the next destination language
	DestinationCycle
	// GoTriggered starts a translation run
	GoTriggered
)

func (e Event) String() string {
	switch e {
	case SourceCycle:
		return "source"
	case DestinationCycle:
		return "destination"
	case GoTriggered:
		return "go"
	default:
		return "unknown"
	}
}

// Source produces button events until ctx is cancelled
type Source interface {
	Run(ctx context.Context, funnel *Funnel) error
}

// ErrorLog receives input faults
type ErrorLog interface {
	LogError(category, message string)
}

// Debouncer accepts an event only if the same event was not accepted within the window
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	last   map[Event]time.Time
	now    func() time.Time
}

// NewDebouncer creates a debouncer
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		last:   make(map[Event]time.Time),
		now:    time.Now,
	}
}

// Accept reports whether ev should be delivered
func (d *Debouncer) Accept(ev Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.last[ev]; ok && now.Sub(last) < d.window {
		return false
	}
	d.last[ev] = now
	return true
}

// Funnel is the single channel every input source delivers to
type Funnel struct {
	events    chan Event
	debouncer *Debouncer
	logger    *zap.Logger
	errLog    ErrorLog
}

// NewFunnel creates a funnel with a small buffer
func NewFunnel(buffer int, debounce time.Duration, logger *zap.Logger, errLog ErrorLog) *Funnel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Funnel{
		events:    make(chan Event, buffer),
		debouncer: NewDebouncer(debounce),
		logger:    logger,
		errLog:    errLog,
	}
}

// Push delivers ev without blocking. Bounces are dropped silently; an event
// that does not fit into the buffer is an input fault.
func (f *Funnel) Push(ev Event) bool {
	if !f.debouncer.Accept(ev) {
		f.logger.Debug("Debounced button event", zap.Stringer("event", ev))
		return false
	}

	select {
	case f.events <- ev:
		return true
	default:
		f.Fault("event buffer full, dropped " + ev.String())
		return false
	}
}

// Fault records an input fault; it never affects the session
func (f *Funnel) Fault(message string) {
	f.logger.Warn("Input fault", zap.String("message", message))
	if f.errLog != nil {
		f.errLog.LogError(journal.CategoryInput, message)
	}
}

// Events returns the channel the session controller reads from
func (f *Funnel) Events() <-chan Event {
	return f.events
}
