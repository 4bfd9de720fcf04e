package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Mode", flags.Mode, "gui"},
		{"WordSeconds", flags.WordSeconds, 2.0},
		{"BothSeconds", flags.BothSeconds, 1.0},
		{"TransformTimeout", flags.TransformTimeout, 2 * time.Second},
		{"WatchTransform", flags.WatchTransform, true},
		{"MaxFrames", flags.MaxFrames, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Swap", flags.Swap},
		{"TestTransform", flags.TestTransform},
		{"Verbose", flags.Verbose},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s should default to false", tt.name)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"VocabularyURL", flags.VocabularyURL},
		{"TransformFile", flags.TransformFile},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s should be empty by default, got %s", tt.name, tt.value)
			}
		})
	}
}
