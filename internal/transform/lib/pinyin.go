package lib

import (
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/flashreel/internal/transform"
)

// Combining marks for tones 1 to 4
var toneMarks = [...]rune{
	'\u0304', // macron
	'\u0301', // acute
	'\u030C', // caron
	'\u0300', // grave
}

const diaeresis = '\u0308'

// Pinyin returns the "pinyin" library: tone-number to diacritic conversion
func Pinyin() transform.Library {
	return &library{
		name: "pinyin",
		symbols: map[string]reflect.Value{
			"Mark":  reflect.ValueOf(MarkTones),
			"Strip": reflect.ValueOf(StripTones),
			"Tone":  reflect.ValueOf(Tone),
		},
	}
}

// MarkTones converts numbered pinyin ("ni3 hao3", "lv4") to tone marks
// ("nǐ hǎo", "lǜ"). Tone 5 and 0 are neutral. Text that is not a numbered
// syllable is kept as is.
func MarkTones(s string) string {
	var b strings.Builder
	var syllable []rune

	flush := func() {
		b.WriteString(string(syllable))
		syllable = syllable[:0]
	}

	for _, r := range s {
		switch {
		case isPinyinLetter(r):
			syllable = append(syllable, r)
		case r >= '0' && r <= '5' && len(syllable) > 0:
			if marked, ok := markSyllable(syllable, int(r-'0')); ok {
				b.WriteString(marked)
			} else {
				b.WriteString(string(syllable))
				b.WriteRune(r)
			}
			syllable = syllable[:0]
		default:
			flush()
			b.WriteRune(r)
		}
	}
	flush()

	return norm.NFC.String(b.String())
}

// StripTones removes tone marks and tone numbers, keeping ü
func StripTones(s string) string {
	var b strings.Builder
	prevLetter := false

	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r) && r != diaeresis:
			continue
		case r >= '0' && r <= '5' && prevLetter:
			prevLetter = false
			continue
		}
		prevLetter = unicode.IsLetter(r) || r == diaeresis
		b.WriteRune(r)
	}

	return norm.NFC.String(b.String())
}

// Tone returns the tone (1-4, 5 for neutral) of a single syllable written
// with either tone numbers or tone marks, or 0 when it cannot tell.
func Tone(syllable string) int {
	syllable = strings.TrimSpace(syllable)
	if syllable == "" {
		return 0
	}

	last := syllable[len(syllable)-1]
	if last >= '1' && last <= '5' {
		return int(last - '0')
	}

	for _, r := range norm.NFD.String(syllable) {
		for i, m := range toneMarks {
			if r == m {
				return i + 1
			}
		}
	}

	for _, r := range syllable {
		if !unicode.IsLetter(r) {
			return 0
		}
	}
	return 5
}

func isPinyinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == 'ü' || r == 'Ü' || r == ':'
}

// markSyllable places the tone mark following the standard rules: a or e
// take the mark, then the o of "ou", otherwise the last vowel. It fails
// for letter runs without a vowel.
func markSyllable(syllable []rune, tone int) (string, bool) {
	letters := normalizeUmlaut(syllable)

	pos := -1
	for i, r := range letters {
		if lr := unicode.ToLower(r); lr == 'a' || lr == 'e' {
			pos = i
			break
		}
	}
	if pos < 0 {
		for i := 0; i+1 < len(letters); i++ {
			if unicode.ToLower(letters[i]) == 'o' && unicode.ToLower(letters[i+1]) == 'u' {
				pos = i
				break
			}
		}
	}
	if pos < 0 {
		for i := len(letters) - 1; i >= 0; i-- {
			if isVowel(letters[i]) {
				pos = i
				break
			}
		}
	}
	if pos < 0 {
		return "", false
	}
	if tone < 1 || tone > 4 {
		return string(letters), true
	}

	out := make([]rune, 0, len(letters)+1)
	out = append(out, letters[:pos+1]...)
	out = append(out, toneMarks[tone-1])
	out = append(out, letters[pos+1:]...)
	return string(out), true
}

// normalizeUmlaut rewrites "v" and "u:" as ü
func normalizeUmlaut(syllable []rune) []rune {
	out := make([]rune, 0, len(syllable))
	for i := 0; i < len(syllable); i++ {
		r := syllable[i]
		switch {
		case r == 'v':
			out = append(out, 'ü')
		case r == 'V':
			out = append(out, 'Ü')
		case (r == 'u' || r == 'U') && i+1 < len(syllable) && syllable[i+1] == ':':
			if r == 'u' {
				out = append(out, 'ü')
			} else {
				out = append(out, 'Ü')
			}
			i++
		case r == ':':
			// stray colon
		default:
			out = append(out, r)
		}
	}
	return out
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u', 'ü':
		return true
	}
	return false
}
