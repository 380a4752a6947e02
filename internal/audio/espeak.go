package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Variant   string // Voice variant appended to the language, e.g. "m1" or "f2"
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultConfig returns the default espeak-ng configuration
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeak provides an interface to the espeak-ng text-to-speech engine
type ESpeak struct {
	config *ESpeakConfig
	binary string
}

// New creates a new ESpeak instance with the given configuration
func New(config *ESpeakConfig) (*ESpeak, error) {
	// Check if espeak-ng is installed
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	if config == nil {
		config = DefaultConfig()
	}

	return &ESpeak{config: config, binary: "espeak-ng"}, nil
}

// Voice maps a language code to an espeak-ng voice name
func Voice(languageCode, variant string) string {
	code := strings.ToLower(languageCode)
	var voice string
	switch {
	case code == "zh" || strings.HasPrefix(code, "zh-"):
		voice = "cmn"
	case code == "pt-br":
		voice = "pt-br"
	default:
		voice = code
		if i := strings.IndexAny(code, "-_"); i > 0 {
			voice = code[:i]
		}
	}

	if variant != "" {
		voice += "+" + variant
	}
	return voice
}

// args builds the espeak-ng command line writing WAV to stdout
func (e *ESpeak) args(text, languageCode string) []string {
	args := []string{
		"-v", Voice(languageCode, e.config.Variant), // Voice selection
		"-s", fmt.Sprintf("%d", e.config.Speed), // Speed
		"-p", fmt.Sprintf("%d", e.config.Pitch), // Pitch
		"-a", fmt.Sprintf("%d", e.config.Amplitude), // Amplitude/volume
	}

	// Add word gap if specified
	if e.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", e.config.WordGap))
	}

	return append(args, "--stdout", text)
}

// GenerateWAV renders text as WAV
func (e *ESpeak) GenerateWAV(ctx context.Context, text, languageCode string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, e.args(text, languageCode)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("espeak-ng produced no audio")
	}

	return stdout.Bytes(), nil
}

// SetSpeed updates the speech speed
func (e *ESpeak) SetSpeed(speed int) {
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}
	e.config.Speed = speed
}

// SetPitch updates the pitch (0-99, 50 is default)
func (e *ESpeak) SetPitch(pitch int) {
	if pitch < 0 {
		pitch = 0
	} else if pitch > 99 {
		pitch = 99
	}
	e.config.Pitch = pitch
}

// SetAmplitude updates the volume/amplitude (0-200, 100 is default)
func (e *ESpeak) SetAmplitude(amplitude int) {
	if amplitude < 0 {
		amplitude = 0
	} else if amplitude > 200 {
		amplitude = 200
	}
	e.config.Amplitude = amplitude
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ConvertWAVToMP3 converts WAV data to MP3 using ffmpeg
func ConvertWAVToMP3(ctx context.Context, wav []byte) ([]byte, error) {
	// Check if ffmpeg is installed
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg", "-loglevel", "error", "-f", "wav", "-i", "pipe:0", "-f", "mp3", "pipe:1")
	cmd.Stdin = bytes.NewReader(wav)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
