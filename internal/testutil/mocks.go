package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/babelbox/internal/display"
	"codeberg.org/snonux/babelbox/internal/speech"
)

// RecordedError is one call to RecordingErrorLog.LogError
type RecordedError struct {
	Category string
	Message  string
}

// RecordingErrorLog collects journal entries in memory
type RecordingErrorLog struct {
	mu      sync.Mutex
	Entries []RecordedError
}

// LogError records an entry
func (l *RecordingErrorLog) LogError(category, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, RecordedError{Category: category, Message: message})
}

// Categories returns the recorded categories in order
func (l *RecordingErrorLog) Categories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	cats := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		cats[i] = e.Category
	}
	return cats
}

// MockCapturer mocks the microphone
type MockCapturer struct {
	mu    sync.Mutex
	Audio *speech.Audio
	Err   error
	// Block, when set, makes Listen wait until it is closed
	Block   chan struct{}
	Started chan struct{}
	Calls   int
}

// Listen returns the configured audio or error
func (m *MockCapturer) Listen(ctx context.Context, timeout, maxPhrase time.Duration) (*speech.Audio, error) {
	m.mu.Lock()
	m.Calls++
	block, started := m.Block, m.Started
	m.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Audio != nil {
		return m.Audio, nil
	}
	return &speech.Audio{PCM: make([]int16, 1600), SampleRate: 16000}, nil
}

// CallCount returns how often Listen was called
func (m *MockCapturer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockRecognizer mocks speech recognition
type MockRecognizer struct {
	mu    sync.Mutex
	Text  string
	Err   error
	Calls []string
}

// Recognize returns the configured text or error
func (m *MockRecognizer) Recognize(ctx context.Context, audio *speech.Audio, languageCode string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Recognize: %d samples (%s)", len(audio.PCM), languageCode))
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

// CallCount returns how often Recognize was called
func (m *MockRecognizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTranslator mocks translation service
type MockTranslator struct {
	mu           sync.Mutex
	Translations map[string]string
	Errors       map[string]error
	Err          error
	Calls        []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang))
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", text), nil
}

// CallCount returns how often Translate was called
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSynthesizer mocks text-to-speech
type MockSynthesizer struct {
	mu         sync.Mutex
	Data       []byte
	Err        error
	FormatName string
	Calls      []string
}

// Synthesize returns the configured audio or error
func (m *MockSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Synthesize: %s (%s)", text, languageCode))
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Data != nil {
		return m.Data, nil
	}
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}, nil
}

// Format returns the configured format, mp3 by default
func (m *MockSynthesizer) Format() string {
	if m.FormatName == "" {
		return "mp3"
	}
	return m.FormatName
}

// CallCount returns how often Synthesize was called
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockPlayer mocks audio playback and records the played paths
type MockPlayer struct {
	mu    sync.Mutex
	Err   error
	Paths []string
	// OnPlay runs while the file is being "played"
	OnPlay func(path string)
}

// Play records the path
func (m *MockPlayer) Play(ctx context.Context, path string) error {
	m.mu.Lock()
	m.Paths = append(m.Paths, path)
	onPlay := m.OnPlay
	m.mu.Unlock()

	if onPlay != nil {
		onPlay(path)
	}
	return m.Err
}

// Played returns the played paths
func (m *MockPlayer) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Paths...)
}

// RecordingDevice is a display device that keeps every frame shown
type RecordingDevice struct {
	mu     sync.Mutex
	Frames []display.Frame
	Err    error
	Closed bool
}

// Show records the frame
func (d *RecordingDevice) Show(frame display.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Frames = append(d.Frames, frame)
	return d.Err
}

// Close marks the device closed
func (d *RecordingDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// Last returns the most recent frame
func (d *RecordingDevice) Last() display.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Frames) == 0 {
		return display.Frame{}
	}
	return d.Frames[len(d.Frames)-1]
}

// All returns a copy of every frame shown
func (d *RecordingDevice) All() []display.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]display.Frame(nil), d.Frames...)
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateSpeech generates a captured phrase of the given length
func (g *TestDataGenerator) GenerateSpeech(d time.Duration) *speech.Audio {
	const rate = 16000
	pcm := make([]int16, int(d.Seconds()*rate))
	for i := range pcm {
		if i%2 == 0 {
			pcm[i] = 2000
		} else {
			pcm[i] = -2000
		}
	}
	return &speech.Audio{PCM: pcm, SampleRate: rate}
}

// GenerateAudioData generates mock audio data
func (g *TestDataGenerator) GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
