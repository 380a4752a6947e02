package recognition

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/babelbox/internal/speech"
)

// Config selects and configures a recognizer
type Config struct {
	Provider  string // "openai" or "google"
	OpenAIKey string
	Model     string // Whisper model name for the openai provider
}

// DefaultConfig returns the default recognizer configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		Model:    "whisper-1",
	}
}

// Recognizer converts a captured phrase into text
type Recognizer interface {
	Recognize(ctx context.Context, audio *speech.Audio, languageCode string) (string, error)
}

// New creates the recognizer named in config
func New(ctx context.Context, config *Config) (Recognizer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai", "":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIRecognizer(config.OpenAIKey, config.Model), nil
	case "google":
		return NewGoogleRecognizer(ctx)
	default:
		return nil, fmt.Errorf("unknown recognition provider: %s", config.Provider)
	}
}

// BaseLanguage strips the region from a language code ("zh-CN" -> "zh")
func BaseLanguage(code string) string {
	if i := strings.IndexAny(code, "-_"); i > 0 {
		return strings.ToLower(code[:i])
	}
	return strings.ToLower(code)
}

// unavailable classifies a transport or API error. Cancellation passes
// through unchanged so that shutdown is not reported as an outage.
func unavailable(service string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", service, speech.ErrServiceUnavailable, err)
}

func transcript(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", speech.ErrUnintelligible
	}
	return text, nil
}
