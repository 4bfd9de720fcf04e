package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

type action int

const (
	actionNone action = iota
	actionSettings
	actionEditor
	actionReload
	actionSwap
	actionLog
	actionHelp
	actionQuit
)

// shortcutFor maps a typed rune to its action
func shortcutFor(r rune) action {
	switch r {
	case 's', 'S':
		return actionSettings
	case 'e', 'E':
		return actionEditor
	case 'r', 'R':
		return actionReload
	case 'w', 'W':
		return actionSwap
	case 'l', 'L':
		return actionLog
	case 'h', 'H', '?':
		return actionHelp
	case 'q', 'Q':
		return actionQuit
	}
	return actionNone
}

func (a *Application) setupKeyboardShortcuts() {
	// Runes only arrive here while no entry has focus
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if a.panelOpen() {
			return
		}
		a.runAction(shortcutFor(r))
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.window.Canvas().Unfocus()
			a.closePanel()
		}
	})
}

func (a *Application) runAction(act action) {
	switch act {
	case actionSettings:
		a.onShowSettings()
	case actionEditor:
		a.onShowEditor()
	case actionReload:
		a.onReload()
	case actionSwap:
		a.onToggleSwap()
	case actionLog:
		a.onToggleLog()
	case actionHelp:
		a.onShowHotkeys()
	case actionQuit:
		a.window.Close()
	}
}

func (a *Application) onShowHotkeys() {
	hotkeys := `## Playback
**r** Reload vocabulary
**w** Swap word and translation

## Panels
**s** Settings
**e** Transform editor
**l** Show or hide log
**Esc** Close panel

## Help
**h** Show hotkeys
**q** Quit application`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(360, 320))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)
	a.openPanel(d)
}
