// Package breaker guards the remote speech, translation and synthesis
// services with circuit breakers. While a breaker is open calls fail fast
// with speech.ErrServiceUnavailable instead of waiting for another timeout.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/babelbox/internal/speech"
)

// Config controls when a breaker trips and how long it stays open
type Config struct {
	MaxFailures uint32        // consecutive failures before opening
	OpenTimeout time.Duration // time in open state before a trial call
	Interval    time.Duration // counter reset period while closed, 0 never resets

	// OnStateChange is called after every transition, e.g. to update a gauge
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultConfig returns the breaker settings used for every remote service
func DefaultConfig() Config {
	return Config{
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

// Breaker wraps a gobreaker.CircuitBreaker for one remote service
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New creates a breaker named after the service it guards
func New(name string, cfg Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultConfig().MaxFailures
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("service", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}

	return &Breaker{name: name, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Name returns the guarded service name
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current breaker state
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Call runs fn through the breaker
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T

	res, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%s: %w", b.name, speech.ErrServiceUnavailable)
	}
	if err != nil {
		return zero, err
	}

	value, ok := res.(T)
	if !ok {
		return zero, nil
	}
	return value, nil
}

// isSuccessful decides which errors count against the service. A phrase the
// recognizer could not understand or a cancelled run says nothing about the
// health of the remote end.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, speech.ErrUnintelligible) ||
		errors.Is(err, context.Canceled)
}
