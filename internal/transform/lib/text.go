package lib

import (
	"reflect"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"codeberg.org/snonux/flashreel/internal/transform"
)

// Text returns the "text" library: locale-aware casing and width folding
func Text() transform.Library {
	return &library{
		name: "text",
		symbols: map[string]reflect.Value{
			"Upper":  reflect.ValueOf(Upper),
			"Lower":  reflect.ValueOf(Lower),
			"Title":  reflect.ValueOf(Title),
			"Fold":   reflect.ValueOf(Fold),
			"Narrow": reflect.ValueOf(Narrow),
			"Widen":  reflect.ValueOf(Widen),
		},
	}
}

// Casers are not safe for concurrent use; each call builds its own.

// Upper upper-cases s for the BCP 47 tag lang ("" for no language)
func Upper(lang, s string) string {
	return cases.Upper(parseTag(lang)).String(s)
}

// Lower lower-cases s for lang
func Lower(lang, s string) string {
	return cases.Lower(parseTag(lang)).String(s)
}

// Title title-cases s for lang
func Title(lang, s string) string {
	return cases.Title(parseTag(lang)).String(s)
}

// Fold applies Unicode case folding for caseless comparison
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Narrow maps full-width characters to their narrow forms
func Narrow(s string) string {
	return width.Narrow.String(s)
}

// Widen maps narrow characters to their full-width forms
func Widen(s string) string {
	return width.Widen.String(s)
}

func parseTag(lang string) language.Tag {
	if lang == "" {
		return language.Und
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}
