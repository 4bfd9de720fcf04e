package gui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/flashreel/internal/settings"
	"codeberg.org/snonux/flashreel/internal/transform"
)

// parseSeconds parses a display time entered by the user
func parseSeconds(field, text string) (float64, error) {
	sec, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number of seconds", field)
	}
	return sec, nil
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', -1, 64)
}

// describeResult renders a transform test result for the editor
func describeResult(result transform.Result) string {
	if result.Err != nil {
		return fmt.Sprintf("Error: %v\nFallback: %s", result.Err, result.Pair)
	}

	keys := make([]string, 0, len(result.Output))
	for k := range result.Output {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("Output:")
	for _, k := range keys {
		fmt.Fprintf(&sb, "\n  %s: %v", k, result.Output[k])
	}
	fmt.Fprintf(&sb, "\nDisplayed: %s", result.Pair)
	return sb.String()
}

func (a *Application) onShowSettings() {
	current := a.store.Get()

	urlEntry := NewCustomEntry()
	urlEntry.SetPlaceHolder("https://example.org/words.tsv or a local file")
	urlEntry.SetText(current.VocabularyURL)

	wordEntry := NewCustomEntry()
	wordEntry.SetText(formatSeconds(current.WordDisplayTime))

	bothEntry := NewCustomEntry()
	bothEntry.SetText(formatSeconds(current.BothDisplayTime))

	swapCheck := widget.NewCheck("Show translation first", nil)
	swapCheck.SetChecked(current.SwapWordTranslation)

	items := []*widget.FormItem{
		widget.NewFormItem("Vocabulary URL", urlEntry),
		widget.NewFormItem("Word time (s)", wordEntry),
		widget.NewFormItem("Both time (s)", bothEntry),
		widget.NewFormItem("", swapCheck),
	}

	d := dialog.NewForm("Settings", "Load", "Cancel", items, func(ok bool) {
		a.closePanel()
		if !ok {
			return
		}

		word, err := parseSeconds("Word time", wordEntry.Text)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		both, err := parseSeconds("Both time", bothEntry.Text)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}

		url, swap := strings.TrimSpace(urlEntry.Text), swapCheck.Checked

		// Settings changes recompute the card through the interpreter
		go func() {
			err := a.store.Update(func(s *settings.Settings) {
				s.VocabularyURL = url
				s.WordDisplayTime = word
				s.BothDisplayTime = both
				s.SwapWordTranslation = swap
			})
			if err != nil {
				fyne.Do(func() { dialog.ShowError(err, a.window) })
				return
			}
			a.load()
		}()
	}, a.window)

	for _, entry := range []*CustomEntry{urlEntry, wordEntry, bothEntry} {
		entry.SetOnEscape(d.Hide)
	}

	d.Resize(fyne.NewSize(560, 300))
	a.openPanel(d)
	a.window.Canvas().Focus(urlEntry)
}

func (a *Application) onShowEditor() {
	engine := a.player.Engine()

	editor := NewCustomMultiLineEntry()
	editor.SetText(a.store.Get().TransformSource)

	result := widget.NewLabel("")
	result.Wrapping = fyne.TextWrapWord
	result.TextStyle = fyne.TextStyle{Monospace: true}

	imports := widget.NewLabel("Imports: " + strings.Join(engine.AllowedImports(), ", "))
	imports.Wrapping = fyne.TextWrapWord

	testBtn := widget.NewButton("Test", func() {
		source := editor.Text
		result.SetText("Running...")
		go func() {
			r := engine.Test(a.ctx, source)
			fyne.Do(func() { result.SetText(describeResult(r)) })
		}()
	})

	applyBtn := widget.NewButton("Apply", func() {
		source := editor.Text
		go func() {
			err := a.store.Update(func(s *settings.Settings) { s.TransformSource = source })
			fyne.Do(func() {
				if err != nil {
					result.SetText(fmt.Sprintf("Error: %v", err))
					return
				}
				result.SetText("Applied")
			})
		}()
	})

	resetBtn := widget.NewButton("Reset", func() {
		editor.SetText(transform.DefaultSource)
		result.SetText("")
	})

	buttons := container.NewHBox(testBtn, applyBtn, resetBtn)
	content := container.NewBorder(
		imports,
		container.NewVBox(buttons, result),
		nil, nil,
		container.NewScroll(editor),
	)

	d := dialog.NewCustom("Transform", "Close", content, a.window)
	editor.SetOnEscape(d.Hide)
	d.Resize(fyne.NewSize(760, 560))
	a.openPanel(d)
	a.window.Canvas().Focus(editor)
}
