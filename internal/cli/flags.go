package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	Mode         string
	ListModels   bool
	PrintJournal int
	TempDir      string
	JournalPath  string

	// Logging and observability
	LogLevel    string
	LogFormat   string
	MetricsAddr string
	NatsURL     string

	// Service providers
	STTProvider         string
	TranslationProvider string
	TTSProvider         string
	PlayerCommand       string

	// OpenAI flags
	TranslationModel string
	OpenAIVoice      string
	OpenAISpeed      float64
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Mode:                ModeHardware,
		LogLevel:            "info",
		LogFormat:           "console",
		STTProvider:         "openai",
		TranslationProvider: "openai",
		TTSProvider:         "openai",
		TranslationModel:    "gpt-4o-mini",
		OpenAIVoice:         "alloy",
		OpenAISpeed:         1.0,
	}
}
