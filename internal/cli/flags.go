package cli

import (
	"time"

	"codeberg.org/snonux/flashreel/internal/settings"
	"codeberg.org/snonux/flashreel/internal/transform"
)

// Run modes
const (
	ModeGUI      = "gui"
	ModeTUI      = "tui"
	ModeHeadless = "headless"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile string
	Mode    string
	Verbose bool

	// Vocabulary and playback
	VocabularyURL string
	WordSeconds   float64
	BothSeconds   float64
	Swap          bool

	// Transform flags
	TransformFile    string
	TransformTimeout time.Duration
	TestTransform    bool
	WatchTransform   bool

	// Headless flags
	MaxFrames int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Mode:             ModeGUI,
		WordSeconds:      settings.DefaultWordDisplayTime,
		BothSeconds:      settings.DefaultBothDisplayTime,
		TransformTimeout: transform.DefaultTimeout,
		WatchTransform:   true,
	}
}
