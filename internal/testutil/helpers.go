package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleVocabulary is a two-card list in translation<TAB>word order
const SampleVocabulary = "你好\thello\n谢谢\tthanks\n"

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateVocabularyFile writes a vocabulary list into a temp dir and
// returns its path
func CreateVocabularyFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vocabulary.tsv")
	CreateTestFile(t, path, []byte(content))
	return path
}

// CreateTransformFile writes transform source into a temp dir and returns
// its path
func CreateTransformFile(t *testing.T, source string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "transform.go")
	CreateTestFile(t, path, []byte(source))
	return path
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// CaptureOutput captures stdout/stderr during test execution
func CaptureOutput(t *testing.T, f func()) (stdout, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	// Drain concurrently so large output cannot block f
	outCh := make(chan string)
	errCh := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, rOut)
		outCh <- buf.String()
	}()
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, rErr)
		errCh <- buf.String()
	}()

	defer func() {
		os.Stdout = oldStdout
		os.Stderr = oldStderr
	}()

	f()

	wOut.Close()
	wErr.Close()
	stdout = <-outCh
	stderr = <-errCh
	rOut.Close()
	rErr.Close()

	return stdout, stderr
}
