package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/babelbox/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "babelbox",
		Short: "Push-button voice-to-voice translator",
		Long: `babelbox listens to a spoken phrase, translates it and speaks the
translation back. Two buttons cycle the source and target language,
the GO button starts a run, and a small screen shows the selection
and the progress.

Examples:
  babelbox                        # Run on the Raspberry Pi (GPIO + OLED)
  babelbox --mode console         # Keyboard and terminal instead of hardware
  babelbox --mode gui             # Desktop simulator window
  babelbox --list-models          # Show usable OpenAI models
  babelbox --print-journal 20     # Show the 20 newest logged errors`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.babelbox.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.Mode, "mode", "m", flags.Mode, "Run mode: hardware, console or gui")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().IntVar(&flags.PrintJournal, "print-journal", 0, "Print the newest N journal entries and exit")
	cmd.Flags().StringVar(&flags.TempDir, "temp-dir", "", "Directory for temporary audio (default: system temp dir)")
	cmd.Flags().StringVar(&flags.JournalPath, "journal", DefaultJournalPath(), "Error journal database")

	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")
	cmd.Flags().StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().StringVar(&flags.NatsURL, "nats-url", "", "Mirror the screen to this NATS server")

	cmd.Flags().StringVar(&flags.STTProvider, "stt-provider", flags.STTProvider, "Speech recognition: openai or google")
	cmd.Flags().StringVar(&flags.TranslationProvider, "translation-provider", flags.TranslationProvider, "Translation: openai or gemini")
	cmd.Flags().StringVar(&flags.TTSProvider, "tts-provider", flags.TTSProvider, "Speech synthesis: openai or espeak")
	cmd.Flags().StringVar(&flags.PlayerCommand, "player", "", "Audio player command (default: first of mpg321, mpg123, ffplay, play, paplay, aplay)")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.TranslationModel, "translation-model", flags.TranslationModel, "Chat model used for translation")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("mode", cmd.Flags().Lookup("mode"))
	viper.BindPFlag("temp_dir", cmd.Flags().Lookup("temp-dir"))
	viper.BindPFlag("journal.path", cmd.Flags().Lookup("journal"))
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.Flags().Lookup("log-format"))
	viper.BindPFlag("metrics_addr", cmd.Flags().Lookup("metrics-addr"))
	viper.BindPFlag("nats_url", cmd.Flags().Lookup("nats-url"))
	viper.BindPFlag("stt.provider", cmd.Flags().Lookup("stt-provider"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("translation-provider"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("translation-model"))
	viper.BindPFlag("tts.provider", cmd.Flags().Lookup("tts-provider"))
	viper.BindPFlag("tts.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("tts.openai_speed", cmd.Flags().Lookup("openai-speed"))
	viper.BindPFlag("player.command", cmd.Flags().Lookup("player"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".babelbox" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".babelbox")
	}

	// Environment variables
	viper.SetEnvPrefix("BABELBOX")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini_key")
}
