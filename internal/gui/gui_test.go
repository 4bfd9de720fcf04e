package gui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/flashreel/internal/transform"
)

func TestLogBuffer_NewestFirst(t *testing.T) {
	b := NewLogBuffer(0)
	b.Write([]byte("first\n"))
	b.Write([]byte("second\nthird\n"))

	got := b.Messages()
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("Messages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Messages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if b.Text() != "third\nsecond\nfirst" {
		t.Errorf("Text() = %q", b.Text())
	}
}

func TestLogBuffer_Trim(t *testing.T) {
	b := NewLogBuffer(3)
	for i := 0; i < 10; i++ {
		fmt.Fprintf(b, "line %d\n", i)
	}

	got := b.Messages()
	if len(got) != 3 || got[0] != "line 9" || got[2] != "line 7" {
		t.Errorf("Unexpected messages after trim: %v", got)
	}

	b.Clear()
	if len(b.Messages()) != 0 {
		t.Error("Clear did not drop messages")
	}
}

func TestLogBuffer_OnChange(t *testing.T) {
	b := NewLogBuffer(0)
	calls := 0
	b.setOnChange(func() { calls++ })

	b.Write([]byte("hello\n"))
	b.Clear()
	if calls != 2 {
		t.Errorf("Expected 2 change notifications, got %d", calls)
	}
}

func TestLogBuffer_ZapSink(t *testing.T) {
	b := NewLogBuffer(0)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(b),
		zapcore.InfoLevel,
	)
	logger := zap.New(core)

	logger.Info("Vocabulary loaded", zap.Int("entries", 2))
	logger.Sync()

	if !strings.Contains(b.Text(), "Vocabulary loaded") {
		t.Errorf("Log line missing: %q", b.Text())
	}
}

func TestShortcutFor(t *testing.T) {
	tests := []struct {
		r    rune
		want action
	}{
		{'s', actionSettings},
		{'E', actionEditor},
		{'r', actionReload},
		{'w', actionSwap},
		{'l', actionLog},
		{'?', actionHelp},
		{'q', actionQuit},
		{'x', actionNone},
		{'你', actionNone},
	}

	for _, tt := range tests {
		if got := shortcutFor(tt.r); got != tt.want {
			t.Errorf("shortcutFor(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestParseSeconds(t *testing.T) {
	if got, err := parseSeconds("Word time", " 1.5 "); err != nil || got != 1.5 {
		t.Errorf("parseSeconds() = %v, %v", got, err)
	}
	if _, err := parseSeconds("Word time", "soon"); err == nil || !strings.Contains(err.Error(), "Word time") {
		t.Errorf("Expected error naming the field, got %v", err)
	}
	if formatSeconds(2) != "2" || formatSeconds(0.25) != "0.25" {
		t.Error("Unexpected formatting")
	}
}

func TestDescribeResult(t *testing.T) {
	ok := transform.Result{
		Pair:   transform.DisplayPair{Word: "HELLO", Translation: "你好"},
		Output: map[string]interface{}{"word": "HELLO", "extra": 1},
	}
	got := describeResult(ok)
	if !strings.Contains(got, "extra: 1\n  word: HELLO") {
		t.Errorf("Output keys not sorted: %q", got)
	}
	if !strings.Contains(got, "Displayed: HELLO | 你好") {
		t.Errorf("Displayed pair missing: %q", got)
	}

	failed := transform.Result{
		Pair: transform.DisplayPair{Word: "hello", Translation: "你好"},
		Err:  &transform.TransformError{Stage: transform.StageCompile, Err: errors.New("expected ;")},
	}
	got = describeResult(failed)
	if !strings.HasPrefix(got, "Error: transform compile error") || !strings.Contains(got, "Fallback: hello | 你好") {
		t.Errorf("Unexpected failure description: %q", got)
	}
}
