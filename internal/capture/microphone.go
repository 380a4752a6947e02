// Package capture records phrases from the default microphone through
// PortAudio. Phrase detection itself lives in package speech.
package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"codeberg.org/snonux/babelbox/internal/speech"
)

const (
	// Channels - mono capture
	Channels = 1
	// FramesPerBuffer - 64ms at 16kHz
	FramesPerBuffer = 1024
)

// Config tunes the microphone
type Config struct {
	SampleRate  int
	Calibration time.Duration // ambient noise sampling before each phrase
	Detector    speech.DetectorConfig
}

// DefaultConfig returns the microphone defaults
func DefaultConfig() Config {
	return Config{
		SampleRate:  16000,
		Calibration: time.Second,
		Detector:    speech.DefaultDetectorConfig(),
	}
}

// Microphone captures one phrase per Listen call
type Microphone struct {
	mu     sync.Mutex
	cfg    Config
	logger *zap.Logger
}

// Open initializes PortAudio
func Open(cfg Config, logger *zap.Logger) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	cfg.Detector.SampleRate = cfg.SampleRate

	return &Microphone{cfg: cfg, logger: logger}, nil
}

// Listen opens the input stream, calibrates, waits up to timeout for speech
// and records at most maxPhrase. It returns speech.ErrNoSpeech on timeout.
func (m *Microphone) Listen(ctx context.Context, timeout, maxPhrase time.Duration) (*speech.Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buffer := make([]int16, FramesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(
		Channels,                  // input channels
		0,                         // output channels
		float64(m.cfg.SampleRate), // sample rate
		FramesPerBuffer,           // frames per buffer
		buffer,                    // buffer
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}
	defer stream.Stop()

	cfg := m.cfg.Detector
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	if maxPhrase > 0 {
		cfg.MaxPhrase = maxPhrase
	}

	reader := &streamReader{stream: stream, buffer: buffer}
	audio, err := speech.Listen(ctx, reader, cfg, m.cfg.Calibration)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Captured phrase",
		zap.Duration("duration", audio.Duration()),
		zap.Int("samples", len(audio.PCM)))
	return audio, nil
}

// Close terminates PortAudio
func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return portaudio.Terminate()
}

// streamReader adapts a blocking PortAudio stream to speech.FrameReader
type streamReader struct {
	stream *portaudio.Stream
	buffer []int16
}

func (r *streamReader) ReadFrame() ([]int16, error) {
	if err := r.stream.Read(); err != nil {
		// Overflows drop samples but the stream keeps working
		if err != portaudio.InputOverflowed {
			return nil, err
		}
	}
	frame := make([]int16, len(r.buffer))
	copy(frame, r.buffer)
	return frame, nil
}
