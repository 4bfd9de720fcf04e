// Package lib provides the helper libraries available to transforms.
// Every function is pure, so the same Library values are shared by all
// interpreters.
package lib

import (
	"reflect"

	"codeberg.org/snonux/flashreel/internal/transform"
)

// library is a named symbol table
type library struct {
	name    string
	symbols map[string]reflect.Value
}

func (l *library) Name() string {
	return l.name
}

func (l *library) Symbols() map[string]reflect.Value {
	return l.symbols
}

// All returns every built-in helper library
func All() []transform.Library {
	return []transform.Library{
		Pinyin(),
		Markup(),
		Text(),
	}
}
