// Package vocab loads vocabulary lists for flashreel. A list is UTF-8 text
// with one "translation<TAB>word" entry per line, fetched over HTTP or read
// from a local file. Parsing is all-or-nothing: the first malformed line
// aborts the load.
package vocab
