package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogBuffer collects log lines, newest first. It is a zapcore.WriteSyncer
// so the logger can be built before the window exists.
type LogBuffer struct {
	mu          sync.Mutex
	messages    []string
	maxMessages int
	onChange    func()
}

// NewLogBuffer creates a buffer keeping the last maxMessages lines
func NewLogBuffer(maxMessages int) *LogBuffer {
	if maxMessages <= 0 {
		maxMessages = 1000
	}
	return &LogBuffer{maxMessages: maxMessages}
}

// Write implements io.Writer
func (b *LogBuffer) Write(p []byte) (int, error) {
	lines := strings.Split(strings.TrimRight(string(p), "\n"), "\n")

	b.mu.Lock()
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.messages = append([]string{line}, b.messages...)
	}
	if len(b.messages) > b.maxMessages {
		b.messages = b.messages[:b.maxMessages]
	}
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer
func (b *LogBuffer) Sync() error {
	return nil
}

// Messages returns the buffered lines, newest first
func (b *LogBuffer) Messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.messages...)
}

// Text returns the buffered lines joined by newlines
func (b *LogBuffer) Text() string {
	return strings.Join(b.Messages(), "\n")
}

// Clear drops all lines
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	b.messages = b.messages[:0]
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func (b *LogBuffer) setOnChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// LogViewer is a widget that displays log messages
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
	buffer     *LogBuffer
}

// NewLogViewer creates a new log viewer widget for buffer
func NewLogViewer(buffer *LogBuffer) *LogViewer {
	v := &LogViewer{buffer: buffer}

	// Create log entry (read-only multiline)
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord
	v.logEntry.SetText(buffer.Text())

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(0, 160))
	v.scrollView.Direction = container.ScrollBoth

	v.container = container.NewBorder(
		widget.NewLabel("Log messages (newest first):"),
		nil,
		nil,
		nil,
		v.scrollView,
	)

	buffer.setOnChange(func() {
		// Update UI on main thread
		fyne.Do(v.refreshText)
	})

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

func (v *LogViewer) refreshText() {
	v.logEntry.SetText(v.buffer.Text())

	// Keep scroll at top to show newest messages
	v.scrollView.Offset = fyne.NewPos(0, 0)
	v.scrollView.Refresh()
}
