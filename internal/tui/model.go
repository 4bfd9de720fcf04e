// Package tui plays flashcards in the terminal with bubbletea.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/flashreel/internal/player"
	"codeberg.org/snonux/flashreel/internal/settings"
)

const tickInterval = 100 * time.Millisecond

// Session is the part of the player the terminal UI drives
type Session interface {
	Load(ctx context.Context) error
	Store() *settings.Store
}

// FrameMsg delivers a new frame to the model
type FrameMsg player.Frame

// NoticeMsg delivers a notice to the model
type NoticeMsg player.Notice

type tickMsg time.Time

type loadedMsg struct{ err error }

// Model is the bubbletea model of the player
type Model struct {
	ctx     context.Context
	session Session

	width    int
	height   int
	progress progress.Model
	styles   Styles

	frame   player.Frame
	notice  player.Notice
	now     time.Time
	loading bool
}

// NewModel creates the model. Playback starts when Init loads the
// vocabulary.
func NewModel(ctx context.Context, session Session) Model {
	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = 40
	return Model{
		ctx:      ctx,
		session:  session,
		progress: p,
		styles:   DefaultStyles(),
		width:    80,
		height:   24,
		now:      time.Now(),
	}
}

// Init loads the vocabulary and starts the progress ticker
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(60, max(10, msg.Width-8))

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.load()
		case "w":
			return m, m.toggleSwap()
		}

	case FrameMsg:
		m.frame = player.Frame(msg)

	case NoticeMsg:
		m.notice = player.Notice(msg)

	case loadedMsg:
		m.loading = false

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	}

	return m, nil
}

// View renders the current card
func (m Model) View() string {
	var card string
	if !m.frame.Running {
		msg := "No flashcards loaded. Press r to load."
		if m.loading {
			msg = "Loading vocabulary..."
		}
		card = m.styles.Muted.Render(msg)
	} else {
		lines := []string{m.styles.Word.Render(m.frame.Pair.WordText())}
		if m.frame.ShowTranslation() {
			lines = append(lines, "", m.styles.Translation.Render(m.frame.Pair.TranslationText()))
		} else {
			lines = append(lines, "", "")
		}
		card = m.styles.Card.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))

		current, total := m.frame.Position()
		card = lipgloss.JoinVertical(lipgloss.Center,
			card,
			m.progress.ViewAs(m.frame.Progress(m.now)),
			m.styles.Position.Render(fmt.Sprintf("%d / %d", current, total)),
		)
	}

	var status string
	if m.notice.Message != "" {
		style := m.styles.Info
		if m.notice.Level == player.LevelError {
			style = m.styles.Error
		}
		status = style.Render(m.notice.String())
	}
	if m.frame.TransformErr != nil {
		status = m.styles.Error.Render(fmt.Sprintf("Transform: %v", m.frame.TransformErr))
	}

	help := m.styles.Muted.Render("r reload • w swap • q quit")
	body := lipgloss.JoinVertical(lipgloss.Center, card, "", status, help)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// load runs in a command goroutine; the player publishes frames through
// Program.Send, which must not be called from Update
func (m Model) load() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return loadedMsg{err: session.Load(ctx)}
	}
}

func (m Model) toggleSwap() tea.Cmd {
	store := m.session.Store()
	return func() tea.Msg {
		store.Update(func(s *settings.Settings) {
			s.SwapWordTranslation = !s.SwapWordTranslation
		})
		return nil
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
