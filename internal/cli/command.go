package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/flashreel/internal"
	"codeberg.org/snonux/flashreel/internal/settings"
	"codeberg.org/snonux/flashreel/internal/transform"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flashreel [vocabulary-url]",
		Short: "Timed vocabulary flashcard player",
		Long: `flashreel plays a tab-separated vocabulary list as timed flashcards.

Each line of the list is "translation<TAB>word". Every card first shows the
word, then the word together with its translation, and playback loops over
the list forever. A transform written in Go can rewrite each card before it
is shown.

Examples:
  flashreel https://example.org/hsk1.tsv          # Launch GUI (default)
  flashreel --mode tui ./hsk1.tsv                 # Play in the terminal
  flashreel --mode headless --max-frames 4 words.tsv
  flashreel --transform pinyin.go --test-transform`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.flashreel.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	// Local flags
	cmd.Flags().StringVarP(&flags.Mode, "mode", "m", flags.Mode, "User interface: gui, tui or headless")
	cmd.Flags().StringVarP(&flags.VocabularyURL, "url", "u", "", "Vocabulary URL or file (translation<TAB>word per line)")
	cmd.Flags().Float64Var(&flags.WordSeconds, "word-time", flags.WordSeconds, "Seconds the word is shown alone")
	cmd.Flags().Float64Var(&flags.BothSeconds, "both-time", flags.BothSeconds, "Seconds word and translation are shown together")
	cmd.Flags().BoolVarP(&flags.Swap, "swap", "s", false, "Show the translation first")
	cmd.Flags().IntVar(&flags.MaxFrames, "max-frames", 0, "Stop headless playback after this many frames (0 plays forever)")

	// Transform flags
	cmd.Flags().StringVarP(&flags.TransformFile, "transform", "t", "", "Go source file declaring Process(pair map[string]string)")
	cmd.Flags().DurationVar(&flags.TransformTimeout, "transform-timeout", flags.TransformTimeout, "Maximum run time of one transform call")
	cmd.Flags().BoolVar(&flags.TestTransform, "test-transform", false, "Run the transform against a sample card and exit")
	cmd.Flags().BoolVar(&flags.WatchTransform, "watch", flags.WatchTransform, "Reload the transform file when it changes")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("ui.mode", cmd.Flags().Lookup("mode"))
	viper.BindPFlag("log.verbose", cmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("vocabulary.url", cmd.Flags().Lookup("url"))
	viper.BindPFlag("playback.word_seconds", cmd.Flags().Lookup("word-time"))
	viper.BindPFlag("playback.both_seconds", cmd.Flags().Lookup("both-time"))
	viper.BindPFlag("playback.swap", cmd.Flags().Lookup("swap"))
	viper.BindPFlag("transform.file", cmd.Flags().Lookup("transform"))
	viper.BindPFlag("transform.timeout", cmd.Flags().Lookup("transform-timeout"))
	viper.BindPFlag("transform.watch", cmd.Flags().Lookup("watch"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
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

		// Search config in home directory with name ".flashreel" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".flashreel")
	}

	// Environment variables, e.g. FLASHREEL_VOCABULARY_URL
	viper.SetEnvPrefix("FLASHREEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// LoadSettings builds the initial settings from configuration. A
// positional vocabulary argument overrides vocabulary.url.
func LoadSettings(args []string) (settings.Settings, error) {
	s := settings.Default()

	if viper.IsSet("vocabulary.url") {
		s.VocabularyURL = strings.TrimSpace(viper.GetString("vocabulary.url"))
	}
	if len(args) > 0 {
		s.VocabularyURL = strings.TrimSpace(args[0])
	}
	if viper.IsSet("playback.word_seconds") {
		s.WordDisplayTime = viper.GetFloat64("playback.word_seconds")
	}
	if viper.IsSet("playback.both_seconds") {
		s.BothDisplayTime = viper.GetFloat64("playback.both_seconds")
	}
	if viper.IsSet("playback.swap") {
		s.SwapWordTranslation = viper.GetBool("playback.swap")
	}

	if file := TransformFile(); file != "" {
		source, err := settings.ReadSource(file)
		if err != nil {
			return s, err
		}
		s.TransformSource = source
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// Mode returns the configured run mode
func Mode() (string, error) {
	mode := strings.ToLower(strings.TrimSpace(viper.GetString("ui.mode")))
	switch mode {
	case "":
		return ModeGUI, nil
	case ModeGUI, ModeTUI, ModeHeadless:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want gui, tui or headless)", mode)
	}
}

// TransformFile returns the configured transform source file, if any
func TransformFile() string {
	return strings.TrimSpace(viper.GetString("transform.file"))
}

// TransformTimeout returns the per-call transform timeout
func TransformTimeout() time.Duration {
	if d := viper.GetDuration("transform.timeout"); d > 0 {
		return d
	}
	return transform.DefaultTimeout
}

// Verbose reports whether debug logging is enabled
func Verbose() bool {
	return viper.GetBool("log.verbose")
}

// WatchTransform reports whether the transform file should be watched
func WatchTransform() bool {
	if !viper.IsSet("transform.watch") {
		return true
	}
	return viper.GetBool("transform.watch")
}
