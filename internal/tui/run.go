package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/flashreel/internal/player"
)

// Run plays p in the terminal until the user quits or ctx is done
func Run(ctx context.Context, p *player.Player) error {
	program := tea.NewProgram(NewModel(ctx, p), tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the program reads; it returns once the program
	// has exited
	p.Subscribe(func(f player.Frame) { program.Send(FrameMsg(f)) })
	p.OnNotice(func(n player.Notice) { program.Send(NoticeMsg(n)) })

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
