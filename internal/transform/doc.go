// Package transform derives the displayed pair of a flashcard from a raw
// vocabulary entry. User transforms are Go source interpreted with yaegi
// on every call; the interpreter only sees a whitelist of pure standard
// library packages plus the registered helper libraries, each importable
// as "flashreel/<name>".
//
// A transform declares
//
//	func Process(pair map[string]string) map[string]interface{}
//
// where pair holds "word" and "translation". The result may set "word",
// "translation", "wordHtml" and "translationHtml"; anything it leaves out
// falls back to the input pair. Any failure falls back to the input pair
// unchanged and is reported in Result.Err.
package transform
