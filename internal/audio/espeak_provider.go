package audio

import (
	"context"
)

// ESpeakProvider implements Provider interface for espeak-ng
type ESpeakProvider struct {
	espeak *ESpeak
	format string
}

// NewESpeakProvider creates a new espeak-ng provider. With format "mp3"
// the WAV output is converted with ffmpeg so that it can stand in for an
// mp3 provider.
func NewESpeakProvider(config *ESpeakConfig, format string) (*ESpeakProvider, error) {
	espeak, err := New(config)
	if err != nil {
		return nil, err
	}

	if format != "mp3" {
		format = "wav"
	}
	return &ESpeakProvider{
		espeak: espeak,
		format: format,
	}, nil
}

// Synthesize generates audio using espeak-ng
func (p *ESpeakProvider) Synthesize(ctx context.Context, text string, languageCode string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	wav, err := p.espeak.GenerateWAV(ctx, text, languageCode)
	if err != nil {
		return nil, err
	}

	if p.format == "mp3" {
		return ConvertWAVToMP3(ctx, wav)
	}
	return wav, nil
}

// Format returns "wav" or "mp3"
func (p *ESpeakProvider) Format() string {
	return p.format
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}
