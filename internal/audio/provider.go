package audio

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// Synthesize renders text spoken in the given language and returns the
	// encoded audio
	Synthesize(ctx context.Context, text string, languageCode string) ([]byte, error)

	// Format returns the encoding of the returned audio, e.g. "mp3" or "wav"
	Format() string

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string // Provider name: "openai" or "espeak"
	Fallback     string // Optional fallback provider name
	OutputFormat string // Output format: "mp3" or "wav"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts, %s is replaced by the language code

	CacheDir    string // Directory for cached OpenAI audio
	EnableCache bool

	ESpeak *ESpeakConfig

	Logger *zap.Logger
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "openai",
		Fallback:          "espeak",
		OutputFormat:      "mp3",
		OpenAIModel:       "gpt-4o-mini-tts", // New model with voice instructions support
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are speaking the language with code '%s'. Use authentic native pronunciation and speak clearly at a natural pace.",
		ESpeak:            DefaultConfig(),
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := newSingleProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}
	if config.Fallback == "" || config.Fallback == "none" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newSingleProvider(config.Fallback, config)
	if err != nil {
		logger(config).Warn("Fallback speech provider unavailable",
			zap.String("provider", config.Fallback), zap.Error(err))
		return primary, nil
	}

	return NewProviderWithFallback(primary, fallback, logger(config)), nil
}

func newSingleProvider(name string, config *Config) (Provider, error) {
	switch name {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)
	case "espeak", "espeak-ng":
		espeakConfig := config.ESpeak
		if espeakConfig == nil {
			espeakConfig = DefaultConfig()
		}
		return NewESpeakProvider(espeakConfig, config.OutputFormat)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

func logger(config *Config) *zap.Logger {
	if config.Logger == nil {
		return zap.NewNop()
	}
	return config.Logger
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if
// primary fails. Both providers must produce the same format.
func NewProviderWithFallback(primary, fallback Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Synthesize tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) Synthesize(ctx context.Context, text string, languageCode string) ([]byte, error) {
	data, err := p.primary.Synthesize(ctx, text, languageCode)
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	p.logger.Warn("Primary speech provider failed, falling back",
		zap.String("primary", p.primary.Name()),
		zap.String("fallback", p.fallback.Name()),
		zap.Error(err))

	return p.fallback.Synthesize(ctx, text, languageCode)
}

// Format returns the primary provider's format
func (p *ProviderWithFallback) Format() string {
	return p.primary.Format()
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
