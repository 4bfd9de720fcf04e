package processor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/flashreel/internal/cli"
	"codeberg.org/snonux/flashreel/internal/testutil"
	"codeberg.org/snonux/flashreel/internal/transform"
)

// newTestProcessor parses args through the root command and builds a
// processor writing to out
func newTestProcessor(t *testing.T, out *bytes.Buffer, args ...string) *Processor {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	flags := cli.NewFlags()
	cmd := cli.CreateRootCommand(flags)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	var logs bytes.Buffer
	p, err := NewProcessor(&Config{
		Flags:    flags,
		Args:     cmd.Flags().Args(),
		Out:      out,
		LogSinks: []zapcore.WriteSyncer{zapcore.AddSync(&logs)},
	})
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func TestNewProcessor_RequiresFlags(t *testing.T) {
	if _, err := NewProcessor(nil); err == nil {
		t.Error("Expected error for nil config")
	}
	if _, err := NewProcessor(&Config{}); err == nil {
		t.Error("Expected error for missing flags")
	}
}

func TestNewProcessor_InvalidMode(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	flags := cli.NewFlags()
	cmd := cli.CreateRootCommand(flags)
	if err := cmd.ParseFlags([]string{"--mode", "vr"}); err != nil {
		t.Fatal(err)
	}

	if _, err := NewProcessor(&Config{Flags: flags}); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestRunHeadless(t *testing.T) {
	path := testutil.CreateVocabularyFile(t, testutil.SampleVocabulary)

	var out bytes.Buffer
	p := newTestProcessor(t, &out,
		"--mode", "headless",
		"--word-time", "0.02",
		"--both-time", "0.02",
		"--max-frames", "5",
		path,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"[1/2] word hello",
		"[1/2] both hello | 你好",
		"[2/2] word thanks",
		"[2/2] both thanks | 谢谢",
		"[1/2] word hello",
	}
	if len(lines) != len(want) {
		t.Fatalf("Got %d lines, want %d:\n%s", len(lines), len(want), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRunHeadless_LoadFailure(t *testing.T) {
	var out bytes.Buffer
	p := newTestProcessor(t, &out, "--mode", "headless", "/does/not/exist.tsv")

	if err := p.Run(context.Background()); err == nil {
		t.Error("Expected error for missing vocabulary file")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no frames, got %q", out.String())
	}
}

func TestRunHeadless_StopsOnCancel(t *testing.T) {
	path := testutil.CreateVocabularyFile(t, testutil.SampleVocabulary)

	var out bytes.Buffer
	p := newTestProcessor(t, &out, "--mode", "headless", path)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := p.RunHeadless(ctx); err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "[1/2] word hello") {
		t.Errorf("Expected first frame, got %q", out.String())
	}
}

func TestRunTransformTest(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantErr  bool
		contains []string
	}{
		{
			name:     "default",
			source:   transform.DefaultSource,
			contains: []string{"Output:", "word: hello", "Displayed: hello | 你好"},
		},
		{
			name: "upper with html",
			source: `package main

import "strings"

func Process(pair map[string]string) map[string]interface{} {
	return map[string]interface{}{
		"word":     strings.ToUpper(pair["word"]),
		"wordHtml": "<b>" + pair["word"] + "</b>",
	}
}
`,
			contains: []string{"Displayed: HELLO | 你好", "Word HTML: <b>hello</b>"},
		},
		{
			name:     "compile error",
			source:   "package main\n\nfunc Process(",
			wantErr:  true,
			contains: []string{"Error:", "Fallback: hello | 你好"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := testutil.CreateTransformFile(t, tt.source)

			var out bytes.Buffer
			p := newTestProcessor(t, &out, "--mode", "headless", "--test-transform", "--transform", file)

			err := p.Run(context.Background())
			if tt.wantErr {
				var te *transform.TransformError
				if !errors.As(err, &te) {
					t.Errorf("Expected *transform.TransformError, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			for _, s := range tt.contains {
				if !strings.Contains(out.String(), s) {
					t.Errorf("Output missing %q:\n%s", s, out.String())
				}
			}
		})
	}
}

func TestRun_WatchesTransformFile(t *testing.T) {
	path := testutil.CreateVocabularyFile(t, testutil.SampleVocabulary)
	file := testutil.CreateTransformFile(t, transform.DefaultSource)

	var out bytes.Buffer
	p := newTestProcessor(t, &out,
		"--mode", "headless",
		"--transform", file,
		"--max-frames", "1",
		path,
	)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if p.watcher == nil {
		t.Error("Expected transform watcher to be running")
	}
}

func TestRun_WatchDisabled(t *testing.T) {
	path := testutil.CreateVocabularyFile(t, testutil.SampleVocabulary)
	file := testutil.CreateTransformFile(t, transform.DefaultSource)

	var out bytes.Buffer
	p := newTestProcessor(t, &out,
		"--mode", "headless",
		"--transform", file,
		"--watch=false",
		"--max-frames", "1",
		path,
	)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if p.watcher != nil {
		t.Error("Watcher should not start with --watch=false")
	}
}
