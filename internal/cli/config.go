package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/babelbox/internal/audio"
	"codeberg.org/snonux/babelbox/internal/breaker"
	"codeberg.org/snonux/babelbox/internal/buttons"
	"codeberg.org/snonux/babelbox/internal/display"
	"codeberg.org/snonux/babelbox/internal/journal"
	"codeberg.org/snonux/babelbox/internal/language"
	"codeberg.org/snonux/babelbox/internal/logging"
	"codeberg.org/snonux/babelbox/internal/recognition"
	"codeberg.org/snonux/babelbox/internal/session"
	"codeberg.org/snonux/babelbox/internal/speech"
	"codeberg.org/snonux/babelbox/internal/translation"
)

// Run modes
const (
	ModeHardware = "hardware"
	ModeConsole  = "console"
	ModeGUI      = "gui"
)

// DisplayConfig describes the screen
type DisplayConfig struct {
	Width  int
	Bus    string
	Rotate bool
}

// CaptureConfig describes the microphone; the listen timeout and phrase cap
// live in the session config
type CaptureConfig struct {
	SampleRate  int
	Calibration time.Duration
}

// Config is the validated, merged configuration of one babelbox process
type Config struct {
	Mode      string
	Languages []language.Entry

	Display  DisplayConfig
	GPIO     buttons.GPIOConfig
	Debounce time.Duration
	Capture  CaptureConfig
	Session  session.Config

	Recognition   recognition.Config
	Translation   translation.Config
	Audio         audio.Config
	PlayerCommand string
	Breaker       breaker.Config

	TempDir           string
	JournalPath       string
	JournalMaxEntries int
	Log               logging.LogConfig
	MetricsAddr       string
	NatsURL           string
}

// DefaultJournalPath is where the error journal lives unless configured
func DefaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "babelbox", "journal.db")
	}
	return filepath.Join(home, ".local", "state", "babelbox", "journal.db")
}

// SetDefaults registers the default of every key that has no flag
func SetDefaults() {
	gpio := buttons.DefaultGPIOConfig()
	sess := session.DefaultConfig()
	det := speech.DefaultDetectorConfig()
	brk := breaker.DefaultConfig()
	tts := audio.DefaultProviderConfig()

	viper.SetDefault("display.width", display.DefaultWidth)
	viper.SetDefault("display.i2c_bus", "")
	viper.SetDefault("display.rotate", false)

	viper.SetDefault("gpio.source_pin", gpio.SourcePin)
	viper.SetDefault("gpio.destination_pin", gpio.DestinationPin)
	viper.SetDefault("gpio.go_pin", gpio.GoPin)
	viper.SetDefault("gpio.debounce", buttons.DefaultDebounce)

	viper.SetDefault("capture.timeout", sess.ListenTimeout)
	viper.SetDefault("capture.max_phrase", sess.MaxPhrase)
	viper.SetDefault("capture.calibration", time.Second)
	viper.SetDefault("capture.sample_rate", det.SampleRate)
	viper.SetDefault("session.dwell", sess.Dwell)

	viper.SetDefault("stt.model", recognition.DefaultConfig().Model)
	viper.SetDefault("translation.cache", true)
	viper.SetDefault("tts.fallback", tts.Fallback)
	viper.SetDefault("tts.openai_model", tts.OpenAIModel)
	viper.SetDefault("tts.cache_dir", "")

	viper.SetDefault("journal.max_entries", journal.DefaultMaxEntries)
	viper.SetDefault("breaker.max_failures", brk.MaxFailures)
	viper.SetDefault("breaker.open_timeout", brk.OpenTimeout)
}

// Load builds the Config from flags, config file and environment and
// validates it
func Load() (*Config, error) {
	entries := language.DefaultEntries()
	if viper.IsSet("languages") {
		entries = nil
		if err := viper.UnmarshalKey("languages", &entries); err != nil {
			return nil, fmt.Errorf("invalid languages: %w", err)
		}
	}

	sess := session.DefaultConfig()
	sess.ListenTimeout = viper.GetDuration("capture.timeout")
	sess.MaxPhrase = viper.GetDuration("capture.max_phrase")
	sess.Dwell = viper.GetDuration("session.dwell")
	sess.Width = viper.GetInt("display.width")

	tts := audio.DefaultProviderConfig()
	tts.Provider = strings.ToLower(viper.GetString("tts.provider"))
	tts.Fallback = strings.ToLower(viper.GetString("tts.fallback"))
	tts.OpenAIKey = GetOpenAIKey()
	tts.OpenAIModel = viper.GetString("tts.openai_model")
	tts.OpenAIVoice = viper.GetString("tts.openai_voice")
	tts.OpenAISpeed = viper.GetFloat64("tts.openai_speed")
	tts.CacheDir = viper.GetString("tts.cache_dir")
	tts.EnableCache = tts.CacheDir != ""

	brk := breaker.DefaultConfig()
	brk.MaxFailures = viper.GetUint32("breaker.max_failures")
	brk.OpenTimeout = viper.GetDuration("breaker.open_timeout")

	cfg := &Config{
		Mode:      strings.ToLower(viper.GetString("mode")),
		Languages: entries,
		Display: DisplayConfig{
			Width:  viper.GetInt("display.width"),
			Bus:    viper.GetString("display.i2c_bus"),
			Rotate: viper.GetBool("display.rotate"),
		},
		GPIO: buttons.GPIOConfig{
			SourcePin:      viper.GetString("gpio.source_pin"),
			DestinationPin: viper.GetString("gpio.destination_pin"),
			GoPin:          viper.GetString("gpio.go_pin"),
		},
		Debounce: viper.GetDuration("gpio.debounce"),
		Capture: CaptureConfig{
			SampleRate:  viper.GetInt("capture.sample_rate"),
			Calibration: viper.GetDuration("capture.calibration"),
		},
		Session: sess,
		Recognition: recognition.Config{
			Provider:  strings.ToLower(viper.GetString("stt.provider")),
			OpenAIKey: GetOpenAIKey(),
			Model:     viper.GetString("stt.model"),
		},
		Translation: translation.Config{
			Provider:  strings.ToLower(viper.GetString("translation.provider")),
			Model:     viper.GetString("translation.model"),
			OpenAIKey: GetOpenAIKey(),
			GeminiKey: GetGeminiKey(),
			Cache:     viper.GetBool("translation.cache"),
		},
		Audio:             *tts,
		PlayerCommand:     viper.GetString("player.command"),
		Breaker:           brk,
		TempDir:           viper.GetString("temp_dir"),
		JournalPath:       viper.GetString("journal.path"),
		JournalMaxEntries: viper.GetInt("journal.max_entries"),
		Log: logging.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
		MetricsAddr: viper.GetString("metrics_addr"),
		NatsURL:     viper.GetString("nats_url"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting babelbox cannot start with
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeHardware, ModeConsole, ModeGUI:
	default:
		return fmt.Errorf("unknown mode %q (want hardware, console or gui)", c.Mode)
	}

	if _, err := language.NewRegistry(c.Languages); err != nil {
		return err
	}

	if err := oneOf("stt.provider", c.Recognition.Provider, "openai", "google"); err != nil {
		return err
	}
	if err := oneOf("translation.provider", c.Translation.Provider, "openai", "gemini"); err != nil {
		return err
	}
	if err := oneOf("tts.provider", c.Audio.Provider, "openai", "espeak"); err != nil {
		return err
	}
	if err := oneOf("tts.fallback", c.Audio.Fallback, "", "none", "openai", "espeak"); err != nil {
		return err
	}

	if c.Display.Width <= 0 {
		return fmt.Errorf("display.width must be positive, got %d", c.Display.Width)
	}
	if c.Session.ListenTimeout <= 0 || c.Session.MaxPhrase <= 0 {
		return fmt.Errorf("capture.timeout and capture.max_phrase must be positive")
	}
	if c.Capture.SampleRate <= 0 {
		return fmt.Errorf("capture.sample_rate must be positive, got %d", c.Capture.SampleRate)
	}
	if c.Debounce < buttons.MinDebounce {
		return fmt.Errorf("gpio.debounce must be at least %s, got %s", buttons.MinDebounce, c.Debounce)
	}
	if c.Breaker.MaxFailures == 0 {
		return fmt.Errorf("breaker.max_failures must be at least 1")
	}

	usesOpenAI := c.Recognition.Provider == "openai" || c.Translation.Provider == "openai" || c.Audio.Provider == "openai" || c.Audio.Fallback == "openai"
	if usesOpenAI && c.Recognition.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure openai_key in .babelbox.yaml")
	}
	if c.Translation.Provider == "gemini" && c.Translation.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY environment variable or configure gemini_key in .babelbox.yaml")
	}

	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (want one of %s)", key, value, strings.Join(allowed, ", "))
}
