package vocab

import (
	"errors"
	"fmt"
)

// ErrEmptyVocabulary is returned when a well-formed list has no entries
var ErrEmptyVocabulary = errors.New("no valid flashcard pairs found")

// ConfigError reports a missing or invalid setting. No I/O has happened
// when it is returned.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FetchError reports a transport, HTTP status or file read failure
type FetchError struct {
	URL        string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch vocabulary from %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch vocabulary from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports the first malformed line of a vocabulary list
type ParseError struct {
	Line int // 1-based physical line number
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid format on line %d (%q): each line must be 'translation\\tword'", e.Line, e.Text)
}
