package player

import (
	"fmt"
	"time"

	"codeberg.org/snonux/flashreel/internal/playback"
	"codeberg.org/snonux/flashreel/internal/transform"
)

// Frame is everything a shell needs to render the current card
type Frame struct {
	Pair         transform.DisplayPair
	Phase        playback.Phase
	Index        int
	Total        int
	Running      bool
	TransformErr error

	PhaseStarted  time.Time
	PhaseDuration time.Duration

	seq uint64
}

// Position returns the 1-based card number and the card count
func (f Frame) Position() (int, int) {
	if f.Total == 0 {
		return 0, 0
	}
	return f.Index + 1, f.Total
}

// ShowTranslation reports whether the translation is revealed
func (f Frame) ShowTranslation() bool {
	return f.Phase == playback.PhaseBoth
}

// Progress returns the elapsed fraction of the current phase at now
func (f Frame) Progress(now time.Time) float64 {
	if f.PhaseDuration <= 0 {
		return 1
	}
	p := float64(now.Sub(f.PhaseStarted)) / float64(f.PhaseDuration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// String renders the frame as a single line, e.g. "[1/2] word hello"
func (f Frame) String() string {
	if !f.Running {
		return "[stopped]"
	}
	current, total := f.Position()
	if f.ShowTranslation() {
		return fmt.Sprintf("[%d/%d] %s %s | %s", current, total, f.Phase, f.Pair.WordText(), f.Pair.TranslationText())
	}
	return fmt.Sprintf("[%d/%d] %s %s", current, total, f.Phase, f.Pair.WordText())
}
