package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/flashreel/internal/settings"
	"codeberg.org/snonux/flashreel/internal/transform"
)

// resetViper restores the global viper instance after the test
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "flashreel [vocabulary-url]" {
		t.Errorf("Expected Use to be 'flashreel [vocabulary-url]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "flashcard") {
		t.Errorf("Expected Short description to mention flashcards, got %q", cmd.Short)
	}

	// Test that flags are set up
	flagTests := []struct {
		name       string
		persistent bool
	}{
		{"config", true},
		{"verbose", true},
		{"mode", false},
		{"url", false},
		{"word-time", false},
		{"both-time", false},
		{"swap", false},
		{"max-frames", false},
		{"transform", false},
		{"transform-timeout", false},
		{"test-transform", false},
		{"watch", false},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.persistent {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}

	if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
		t.Error("Expected error for two positional arguments")
	}
}

func TestSetupFlags(t *testing.T) {
	resetViper(t)
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	defaults := map[string]string{
		"mode":              "gui",
		"word-time":         "2",
		"both-time":         "1",
		"swap":              "false",
		"transform-timeout": "2s",
		"watch":             "true",
	}

	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.DefValue != want {
			t.Errorf("Expected default %s to be %s, got %s", name, want, flag.DefValue)
		}
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `vocabulary:
  url: https://example.org/words.tsv
playback:
  word_seconds: 3.5`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			cfgPath := tt.setupFunc(t)
			InitConfig(cfgPath)

			if cfgPath != "" {
				if got := viper.GetString("vocabulary.url"); got != "https://example.org/words.tsv" {
					t.Errorf("vocabulary.url = %q", got)
				}
				if got := viper.GetFloat64("playback.word_seconds"); got != 3.5 {
					t.Errorf("playback.word_seconds = %v", got)
				}
			}

			// Test environment variable prefix
			t.Setenv("FLASHREEL_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			// Nested keys map to underscores
			t.Setenv("FLASHREEL_PLAYBACK_BOTH_SECONDS", "4")
			if viper.GetFloat64("playback.both_seconds") != 4 {
				t.Error("Nested environment variable not properly loaded")
			}
		})
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.Flags().Set("url", "/tmp/words.tsv")
	cmd.Flags().Set("word-time", "0.5")
	cmd.Flags().Set("mode", "tui")
	cmd.Flags().Set("transform-timeout", "500ms")

	bindFlagsToViper(cmd)

	if viper.GetString("vocabulary.url") != "/tmp/words.tsv" {
		t.Errorf("Expected vocabulary.url to be /tmp/words.tsv, got %s", viper.GetString("vocabulary.url"))
	}
	if viper.GetFloat64("playback.word_seconds") != 0.5 {
		t.Errorf("Expected playback.word_seconds to be 0.5, got %v", viper.GetFloat64("playback.word_seconds"))
	}
	if viper.GetString("ui.mode") != "tui" {
		t.Errorf("Expected ui.mode to be tui, got %s", viper.GetString("ui.mode"))
	}
	if TransformTimeout() != 500*time.Millisecond {
		t.Errorf("Expected transform timeout 500ms, got %v", TransformTimeout())
	}
}

func TestLoadSettings(t *testing.T) {
	resetViper(t)

	transformPath := filepath.Join(t.TempDir(), "upper.go")
	source := `func Process(pair map[string]string) map[string]string { return pair }`
	if err := os.WriteFile(transformPath, []byte(source), 0644); err != nil {
		t.Fatalf("Failed to write transform: %v", err)
	}

	viper.Set("vocabulary.url", "https://example.org/config.tsv")
	viper.Set("playback.word_seconds", 1.5)
	viper.Set("playback.swap", true)
	viper.Set("transform.file", transformPath)

	s, err := LoadSettings(nil)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.VocabularyURL != "https://example.org/config.tsv" {
		t.Errorf("VocabularyURL = %q", s.VocabularyURL)
	}
	if s.WordDisplayTime != 1.5 || s.BothDisplayTime != settings.DefaultBothDisplayTime {
		t.Errorf("Unexpected times %v / %v", s.WordDisplayTime, s.BothDisplayTime)
	}
	if !s.SwapWordTranslation {
		t.Error("Expected swap from config")
	}
	if s.TransformSource != source {
		t.Errorf("TransformSource = %q", s.TransformSource)
	}

	// Positional argument wins
	s, err = LoadSettings([]string{" ./local.tsv "})
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.VocabularyURL != "./local.tsv" {
		t.Errorf("VocabularyURL = %q, want ./local.tsv", s.VocabularyURL)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	resetViper(t)

	s, err := LoadSettings(nil)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s != settings.Default() {
		t.Errorf("Expected default settings, got %+v", s)
	}
	if s.TransformSource != transform.DefaultSource {
		t.Error("Expected default transform source")
	}
}

func TestLoadSettings_Errors(t *testing.T) {
	t.Run("negative time", func(t *testing.T) {
		resetViper(t)
		viper.Set("playback.both_seconds", -1)

		_, err := LoadSettings(nil)
		var ce *settings.ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("Expected ConfigError, got %v", err)
		}
	})

	t.Run("missing transform file", func(t *testing.T) {
		resetViper(t)
		viper.Set("transform.file", filepath.Join(t.TempDir(), "missing.go"))

		if _, err := LoadSettings(nil); err == nil {
			t.Error("Expected error for missing transform file")
		}
	})
}

func TestMode(t *testing.T) {
	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{"", ModeGUI, false},
		{"gui", ModeGUI, false},
		{" TUI ", ModeTUI, false},
		{"headless", ModeHeadless, false},
		{"web", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			resetViper(t)
			viper.Set("ui.mode", tt.value)

			got, err := Mode()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Mode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Mode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWatchTransform(t *testing.T) {
	resetViper(t)
	if !WatchTransform() {
		t.Error("Watching should default to on")
	}
	viper.Set("transform.watch", false)
	if WatchTransform() {
		t.Error("Expected watching disabled")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(false, zapcore.AddSync(&buf))

	logger.Debug("hidden")
	logger.Info("Vocabulary loaded")
	logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Debug message logged without verbose")
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "Vocabulary loaded") {
		t.Errorf("Unexpected log output %q", out)
	}

	buf.Reset()
	verbose := NewLogger(true, zapcore.AddSync(&buf))
	verbose.Debug("shown")
	verbose.Sync()
	if !strings.Contains(buf.String(), "shown") {
		t.Error("Debug message missing with verbose")
	}
}
