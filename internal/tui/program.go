package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// eventBuffer is large enough that a full round of events fits while the UI
// is busy; refresh polling covers anything dropped
const eventBuffer = 256

// Engine is a Controller that also publishes events
type Engine interface {
	Controller
	Subscribe(sub game.EventSubscriber)
	Unsubscribe(sub game.EventSubscriber)
}

// Run shows the table until the user quits or ctx is cancelled
func Run(ctx context.Context, engine Engine, logger *log.Logger, opts Options, progOpts ...tea.ProgramOption) error {
	sub := game.NewChannelSubscriber(eventBuffer)
	engine.Subscribe(sub)
	defer func() {
		engine.Unsubscribe(sub)
		sub.Close()
		if n := sub.Dropped(); n > 0 {
			logger.Warn("UI dropped events", "count", n)
		}
	}()

	model := NewModel(engine, sub.Events(), logger, opts)
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, progOpts...)
	program := tea.NewProgram(model, progOpts...)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
