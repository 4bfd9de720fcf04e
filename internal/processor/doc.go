// Package processor wires the vocabulary loader, the transform engine and
// the player together from configuration and runs the selected mode: the
// GUI, the terminal UI, headless playback or a one-off transform test.
package processor
