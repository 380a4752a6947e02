package session

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/snonux/babelbox/internal/journal"
	"codeberg.org/snonux/babelbox/internal/speech"
)

// Kind classifies why a stage failed
type Kind int

const (
	CaptureTimeout Kind = iota
	CaptureFailure
	Unintelligible
	ServiceUnavailable
	TranslationFailure
	SynthesisFailure
	PlaybackFailure
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case CaptureTimeout:
		return "capture timeout"
	case CaptureFailure:
		return "capture failure"
	case Unintelligible:
		return "unintelligible"
	case ServiceUnavailable:
		return "service unavailable"
	case TranslationFailure:
		return "translation failure"
	case SynthesisFailure:
		return "synthesis failure"
	case PlaybackFailure:
		return "playback failure"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Fault is a classified stage failure
type Fault struct {
	Kind Kind
	Err  error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// State returns the error state the fault leads to
func (f *Fault) State() State {
	switch f.Kind {
	case CaptureTimeout, CaptureFailure, Unintelligible, ServiceUnavailable:
		return SttFailed
	case TranslationFailure:
		return TranslationFailed
	default:
		return TtsOrPlaybackFailed
	}
}

// Detail is the short second line shown on the error screen
func (f *Fault) Detail() string {
	switch f.Kind {
	case CaptureTimeout:
		return "No speech"
	case CaptureFailure:
		return "Mic error"
	case Unintelligible:
		return "Not understood"
	case ServiceUnavailable:
		return "Service down"
	case PlaybackFailure:
		return "Playback failed"
	}
	if errors.Is(f.Err, speech.ErrServiceUnavailable) {
		return "Service down"
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return f.Kind.String()
}

// category is the journal category of the fault
func (f *Fault) category() string {
	switch f.Kind {
	case CaptureTimeout, CaptureFailure:
		return journal.CategoryCapture
	case Unintelligible, ServiceUnavailable:
		return journal.CategoryRecognition
	case TranslationFailure:
		return journal.CategoryTranslation
	case SynthesisFailure:
		return journal.CategorySynthesis
	default:
		return journal.CategoryPlayback
	}
}

// stage is the tagged result of one pipeline stage
type stage[T any] struct {
	value T
	fault *Fault
}

func succeeded[T any](v T) stage[T] {
	return stage[T]{value: v}
}

func failed[T any](kind Kind, err error) stage[T] {
	if errors.Is(err, context.Canceled) {
		kind = Cancelled
	}
	return stage[T]{fault: &Fault{Kind: kind, Err: err}}
}

// classifyCapture maps a capture error to its kind
func classifyCapture(err error) Kind {
	if errors.Is(err, speech.ErrNoSpeech) {
		return CaptureTimeout
	}
	return CaptureFailure
}

// classifyRecognition maps a recognizer error to its kind. Anything that is
// not explicitly unintelligible counts as the service being unavailable.
func classifyRecognition(err error) Kind {
	if errors.Is(err, speech.ErrUnintelligible) {
		return Unintelligible
	}
	return ServiceUnavailable
}
