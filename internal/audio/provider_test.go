package audio

import (
	"context"
	"errors"
	"testing"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name           string
	format         string
	data           []byte
	synthesizeErr  error
	availableErr   error
	synthesizeCall int
}

func (m *mockProvider) Synthesize(ctx context.Context, text string, languageCode string) ([]byte, error) {
	m.synthesizeCall++
	if m.synthesizeErr != nil {
		return nil, m.synthesizeErr
	}
	return m.data, nil
}

func (m *mockProvider) Format() string {
	return m.format
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "openai" {
		t.Errorf("Expected provider 'openai', got '%s'", config.Provider)
	}

	if config.Fallback != "espeak" {
		t.Errorf("Expected fallback 'espeak', got '%s'", config.Fallback)
	}

	if config.OutputFormat != "mp3" {
		t.Errorf("Expected output format 'mp3', got '%s'", config.OutputFormat)
	}

	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}

	if config.OpenAIVoice != "alloy" {
		t.Errorf("Expected OpenAI voice 'alloy', got '%s'", config.OpenAIVoice)
	}

	if config.OpenAISpeed != 1.0 {
		t.Errorf("Expected OpenAI speed 1.0, got %f", config.OpenAISpeed)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name: "openai provider without key",
			config: &Config{
				Provider: "openai",
			},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name: "unknown provider",
			config: &Config{
				Provider: "unknown",
			},
			wantErr: true,
			errMsg:  "unknown audio provider: unknown",
		},
		{
			name: "openai with unusable fallback",
			config: &Config{
				Provider:  "openai",
				Fallback:  "unknown",
				OpenAIKey: "test-key",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && err.Error() != tt.errMsg {
				t.Errorf("NewProvider() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestProviderWithFallback(t *testing.T) {
	primary := &mockProvider{name: "primary", format: "mp3", data: []byte("primary")}
	fallback := &mockProvider{name: "fallback", format: "mp3", data: []byte("fallback")}

	provider := NewProviderWithFallback(primary, fallback, nil)

	// Test successful primary
	ctx := context.Background()
	data, err := provider.Synthesize(ctx, "test", "en")
	if err != nil {
		t.Errorf("Synthesize() unexpected error: %v", err)
	}
	if string(data) != "primary" {
		t.Errorf("Expected primary audio, got %q", data)
	}
	if fallback.synthesizeCall != 0 {
		t.Errorf("Expected 0 fallback calls, got %d", fallback.synthesizeCall)
	}

	// Test primary failure, fallback success
	primary.synthesizeErr = errors.New("primary failed")

	data, err = provider.Synthesize(ctx, "test", "en")
	if err != nil {
		t.Errorf("Synthesize() unexpected error: %v", err)
	}
	if string(data) != "fallback" {
		t.Errorf("Expected fallback audio, got %q", data)
	}

	// Test both fail
	fallback.synthesizeErr = errors.New("fallback failed")

	if _, err = provider.Synthesize(ctx, "test", "en"); err == nil {
		t.Error("Synthesize() expected error when both providers fail")
	}
}

func TestProviderWithFallbackCancelled(t *testing.T) {
	primary := &mockProvider{name: "primary", synthesizeErr: context.Canceled}
	fallback := &mockProvider{name: "fallback"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProviderWithFallback(primary, fallback, nil).Synthesize(ctx, "test", "en"); err == nil {
		t.Error("Expected cancellation error")
	}
	if fallback.synthesizeCall != 0 {
		t.Error("Fallback must not run after cancellation")
	}
}

func TestProviderWithFallbackName(t *testing.T) {
	primary := &mockProvider{name: "primary", format: "mp3"}
	fallback := &mockProvider{name: "fallback", format: "mp3"}

	provider := NewProviderWithFallback(primary, fallback, nil)

	expected := "primary (fallback: fallback)"
	if provider.Name() != expected {
		t.Errorf("Name() = %v, want %v", provider.Name(), expected)
	}
	if provider.Format() != "mp3" {
		t.Errorf("Format() = %v, want mp3", provider.Format())
	}
}

func TestProviderWithFallbackIsAvailable(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback, nil)

	// Both available
	err := provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}

	// Primary unavailable, fallback available
	primary.availableErr = errors.New("primary unavailable")
	err = provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error when fallback available: %v", err)
	}

	// Primary available, fallback unavailable
	primary.availableErr = nil
	fallback.availableErr = errors.New("fallback unavailable")
	err = provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error when primary available: %v", err)
	}

	// Both unavailable
	primary.availableErr = errors.New("primary unavailable")
	err = provider.IsAvailable()
	if err == nil {
		t.Error("IsAvailable() expected error when both providers unavailable")
	}
}
