package lib

import (
	"reflect"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"codeberg.org/snonux/flashreel/internal/transform"
)

// Markup returns the "markup" library for building wordHtml values
func Markup() transform.Library {
	return &library{
		name: "markup",
		symbols: map[string]reflect.Value{
			"Escape": reflect.ValueOf(html.EscapeString),
			"Ruby":   reflect.ValueOf(Ruby),
			"Span":   reflect.ValueOf(Span),
			"Strip":  reflect.ValueOf(StripTags),
		},
	}
}

// Ruby renders base with an annotation above it, e.g. a word with its
// pinyin: <ruby>你好<rt>nǐ hǎo</rt></ruby>
func Ruby(base, annotation string) string {
	ruby := element(atom.Ruby)
	ruby.AppendChild(textNode(base))

	rt := element(atom.Rt)
	rt.AppendChild(textNode(annotation))
	ruby.AppendChild(rt)

	return render(ruby)
}

// Span wraps text in a span with the given class
func Span(class, text string) string {
	span := element(atom.Span)
	if class != "" {
		span.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	span.AppendChild(textNode(text))
	return render(span)
}

// StripTags returns the text content of an HTML fragment
func StripTags(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), element(atom.Div))
	if err != nil {
		return fragment
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return html.EscapeString(n.Data)
	}
	return b.String()
}
