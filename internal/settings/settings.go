// Package settings holds the user-configurable player settings as an
// explicit value object, a thread-safe store for the live values, and a
// watcher that keeps the transform source in sync with a file on disk.
package settings

import (
	"fmt"
	"math"
	"time"

	"codeberg.org/snonux/flashreel/internal/transform"
)

// Default display times in seconds
const (
	DefaultWordDisplayTime = 2.0
	DefaultBothDisplayTime = 1.0
)

// Settings is the configuration consumed by the loader, the scheduler and
// the transform engine. Timing changes apply from the next phase.
type Settings struct {
	VocabularyURL       string
	WordDisplayTime     float64 // seconds
	BothDisplayTime     float64 // seconds
	SwapWordTranslation bool
	TransformSource     string
}

// ConfigError reports an invalid setting
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Default returns default settings
func Default() Settings {
	return Settings{
		WordDisplayTime: DefaultWordDisplayTime,
		BothDisplayTime: DefaultBothDisplayTime,
		TransformSource: transform.DefaultSource,
	}
}

// Validate checks the display times. An empty vocabulary URL is valid
// here; the loader reports it when a load is attempted.
func (s Settings) Validate() error {
	if err := validSeconds("word display time", s.WordDisplayTime); err != nil {
		return err
	}
	return validSeconds("both display time", s.BothDisplayTime)
}

// WordDuration returns the word phase duration
func (s Settings) WordDuration() time.Duration {
	return Seconds(s.WordDisplayTime)
}

// BothDuration returns the word+translation phase duration
func (s Settings) BothDuration() time.Duration {
	return Seconds(s.BothDisplayTime)
}

// Seconds converts fractional seconds to a duration. Negative and NaN
// values become 0.
func Seconds(sec float64) time.Duration {
	if math.IsNaN(sec) || sec <= 0 {
		return 0
	}
	if math.IsInf(sec, 1) || sec > math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(sec * float64(time.Second))
}

func validSeconds(field string, sec float64) error {
	switch {
	case math.IsNaN(sec) || math.IsInf(sec, 0):
		return &ConfigError{Field: field, Reason: "must be a finite number"}
	case sec < 0:
		return &ConfigError{Field: field, Reason: "must not be negative"}
	}
	return nil
}
