package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/flashreel/internal/player"
)

// CardDisplay is a custom widget showing the current flashcard
type CardDisplay struct {
	widget.BaseWidget

	container   *fyne.Container
	word        *canvas.Text
	translation *canvas.Text
	hint        *widget.Label
}

// NewCardDisplay creates a new card display widget
func NewCardDisplay() *CardDisplay {
	d := &CardDisplay{}

	d.word = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	d.word.TextSize = 56
	d.word.TextStyle = fyne.TextStyle{Bold: true}
	d.word.Alignment = fyne.TextAlignCenter

	d.translation = canvas.NewText("", theme.Color(theme.ColorNamePrimary))
	d.translation.TextSize = 36
	d.translation.Alignment = fyne.TextAlignCenter

	d.hint = widget.NewLabel("Press s to open settings and load a vocabulary")
	d.hint.Alignment = fyne.TextAlignCenter

	d.container = container.NewCenter(container.NewVBox(d.word, d.translation, d.hint))

	d.ExtendBaseWidget(d)
	return d
}

// CreateRenderer implements fyne.Widget
func (d *CardDisplay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(d.container)
}

// SetFrame shows frame. Must be called on the main thread.
func (d *CardDisplay) SetFrame(frame player.Frame) {
	if !frame.Running {
		d.word.Text = ""
		d.translation.Text = ""
		d.hint.Show()
	} else {
		d.hint.Hide()
		d.word.Text = frame.Pair.WordText()
		if frame.ShowTranslation() {
			d.translation.Text = frame.Pair.TranslationText()
		} else {
			d.translation.Text = ""
		}
	}

	d.word.Color = theme.Color(theme.ColorNameForeground)
	if frame.TransformErr != nil {
		d.word.Color = color.NRGBA{R: 0xE0, G: 0x6C, B: 0x75, A: 0xFF}
	}

	d.word.Refresh()
	d.translation.Refresh()
}
