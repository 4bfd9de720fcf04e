package transform

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"codeberg.org/snonux/flashreel/internal/vocab"
)

// Keys of the maps exchanged with transform code
const (
	KeyWord            = "word"
	KeyTranslation     = "translation"
	KeyWordHTML        = "wordHtml"
	KeyTranslationHTML = "translationHtml"
)

// DisplayPair is what a card shows. Word and Translation are always set
// and double as plain-text fallbacks when the HTML variants are used.
type DisplayPair struct {
	Word            string
	Translation     string
	WordHTML        string
	TranslationHTML string
}

// HasWordHTML reports whether the transform supplied word markup
func (p DisplayPair) HasWordHTML() bool {
	return p.WordHTML != ""
}

// HasTranslationHTML reports whether the transform supplied translation markup
func (p DisplayPair) HasTranslationHTML() bool {
	return p.TranslationHTML != ""
}

// WordText is the word as a plain-text shell shows it: the text of
// WordHTML when present, else Word
func (p DisplayPair) WordText() string {
	if p.HasWordHTML() {
		return PlainText(p.WordHTML)
	}
	return p.Word
}

// TranslationText is WordText for the translation
func (p DisplayPair) TranslationText() string {
	if p.HasTranslationHTML() {
		return PlainText(p.TranslationHTML)
	}
	return p.Translation
}

// PlainText renders an HTML fragment as text. Ruby annotations follow
// their base in parentheses; unparsable input is returned as is.
func PlainText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	})
	if err != nil {
		return fragment
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			return
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteString(" ")
			return
		case n.Type == html.ElementNode && n.DataAtom == atom.Rp:
			return
		case n.Type == html.ElementNode && n.DataAtom == atom.Rt:
			b.WriteString(" (")
			defer b.WriteString(")")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.TrimSpace(b.String())
}

func (p DisplayPair) String() string {
	return fmt.Sprintf("%s | %s", p.Word, p.Translation)
}

// fromEntry converts an entry, exchanging the fields when swap is set
func fromEntry(entry vocab.Entry, swap bool) DisplayPair {
	if swap {
		return DisplayPair{Word: entry.Translation, Translation: entry.Word}
	}
	return DisplayPair{Word: entry.Word, Translation: entry.Translation}
}

// input is the map handed to Process. A fresh map is built per call.
func (p DisplayPair) input() map[string]string {
	return map[string]string{
		KeyWord:        p.Word,
		KeyTranslation: p.Translation,
	}
}

// merge applies a transform result field by field on top of base
func merge(base DisplayPair, out map[string]interface{}) DisplayPair {
	merged := DisplayPair{Word: base.Word, Translation: base.Translation}

	if html, ok := out[KeyWordHTML].(string); ok {
		merged.WordHTML = html
	}
	if word, ok := out[KeyWord].(string); ok {
		merged.Word = word
	}

	if html, ok := out[KeyTranslationHTML].(string); ok {
		merged.TranslationHTML = html
	}
	if translation, ok := out[KeyTranslation].(string); ok {
		merged.Translation = translation
	}

	return merged
}
