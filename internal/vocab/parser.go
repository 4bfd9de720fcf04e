package vocab

import (
	"fmt"
	"io"
	"strings"
)

// Entry is one word/translation pair from a vocabulary list
type Entry struct {
	Word        string
	Translation string
}

// Parse reads a vocabulary list. Blank lines are skipped, every other line
// must hold a translation and a word as its first two tab-separated
// fields. The returned entries keep file order.
func Parse(r io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return ParseString(string(content))
}

// ParseString is Parse for in-memory text
func ParseString(text string) ([]Entry, error) {
	var entries []Entry

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, ok := parseLine(line)
		if !ok {
			return nil, &ParseError{Line: i + 1, Text: line}
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyVocabulary
	}

	return entries, nil
}

func parseLine(line string) (Entry, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return Entry{}, false
	}

	// Columns after the word are ignored
	translation, word := fields[0], fields[1]

	translation = strings.TrimSpace(translation)
	word = strings.TrimSpace(word)
	if translation == "" || word == "" {
		return Entry{}, false
	}

	return Entry{Word: word, Translation: translation}, true
}
