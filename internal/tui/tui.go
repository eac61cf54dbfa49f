// Package tui is the terminal front end for a blackjack engine.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

const hiddenCard = "▒▒"

// Controller is the part of the engine the UI drives
type Controller interface {
	State() blackjack.State
	HitMe() error
	Stay() error
	TogglePause(paused bool)
	AcknowledgeDeal() error
}

// Options configure the model
type Options struct {
	// Perspective is the human player's name; it is rendered as "You"
	Perspective string
	// Animation is how long each dealt card is shown before the next one
	Animation time.Duration
	// Refresh is how often state is re-read when no events arrive
	Refresh time.Duration
	// ShowPhases adds phase transitions to the log
	ShowPhases bool
}

// DefaultOptions returns the standard animation timings
func DefaultOptions() Options {
	return Options{
		Animation: 250 * time.Millisecond,
		Refresh:   200 * time.Millisecond,
	}
}

// EventMsg carries an engine event into the update loop
type EventMsg struct {
	Event game.GameEvent
}

// ackMsg fires when a dealt card's animation has finished
type ackMsg struct{}

// refreshMsg re-reads engine state
type refreshMsg struct{}

// Model is the Bubble Tea model for a blackjack table
type Model struct {
	ctrl      Controller
	events    <-chan game.GameEvent
	logger    *log.Logger
	formatter *game.EventFormatter
	opts      Options

	keys     KeyMap
	help     help.Model
	viewport viewport.Model

	state      blackjack.State
	gameLog    []string
	status     string
	ackPending bool
	quitting   bool

	width  int
	height int
}

// NewModel creates a model. events may be nil, in which case the model only
// polls state.
func NewModel(ctrl Controller, events <-chan game.GameEvent, logger *log.Logger, opts Options) *Model {
	vp := viewport.New(40, 8)
	return &Model{
		ctrl:   ctrl,
		events: events,
		logger: logger.WithPrefix("tui"),
		formatter: game.NewEventFormatter(game.FormattingOptions{
			ShowPhases:  opts.ShowPhases,
			Perspective: opts.Perspective,
		}),
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: vp,
		state:    ctrl.State(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.scheduleRefresh())
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg{Event: ev}
	}
}

func (m *Model) scheduleRefresh() tea.Cmd {
	if m.opts.Refresh <= 0 {
		return nil
	}
	return tea.Tick(m.opts.Refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

// scheduleAck waits out the deal animation once per dealt card
func (m *Model) scheduleAck() tea.Cmd {
	if m.ackPending {
		return nil
	}
	m.ackPending = true
	if m.opts.Animation <= 0 {
		return func() tea.Msg { return ackMsg{} }
	}
	return tea.Tick(m.opts.Animation, func(time.Time) tea.Msg { return ackMsg{} })
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()

	case EventMsg:
		m.handleEvent(msg.Event)
		m.refresh()
		if m.state.AwaitingAck {
			cmds = append(cmds, m.scheduleAck())
		}
		cmds = append(cmds, m.waitForEvent())

	case ackMsg:
		m.ackPending = false
		if err := m.ctrl.AcknowledgeDeal(); err != nil && !errors.Is(err, blackjack.ErrNoDealPending) {
			m.logger.Debug("Acknowledge failed", "err", err)
		}
		m.refresh()

	case refreshMsg:
		m.refresh()
		if m.state.AwaitingAck && !m.state.Paused {
			cmds = append(cmds, m.scheduleAck())
		}
		cmds = append(cmds, m.scheduleRefresh())

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()

	case key.Matches(msg, m.keys.Hit):
		switch {
		case !m.state.CanAct:
			m.status = "Not your turn"
		case !m.state.CanHit:
			m.status = "You cannot take another card"
		default:
			m.command(m.ctrl.HitMe)
		}

	case key.Matches(msg, m.keys.Stay):
		if !m.state.CanAct {
			m.status = "Not your turn"
			break
		}
		m.command(m.ctrl.Stay)

	case key.Matches(msg, m.keys.Pause):
		m.ctrl.TogglePause(!m.state.Paused)
		m.refresh()
		m.status = ""
	}
	return nil
}

func (m *Model) command(fn func() error) {
	m.status = ""
	if err := fn(); err != nil {
		m.status = err.Error()
		m.logger.Debug("Command rejected", "err", err)
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.state = m.ctrl.State()
}

func (m *Model) handleEvent(ev game.GameEvent) {
	line := m.formatter.Format(ev)
	if line == "" {
		return
	}
	m.addLogEntry(line)
}

func (m *Model) addLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.viewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.viewport.GotoBottom()
}

// Log returns the formatted event log
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

// Status returns the last status message
func (m *Model) Status() string { return m.status }

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	used := lipgloss.Height(m.renderTable()) + lipgloss.Height(m.renderFooter()) + 4
	m.viewport.Width = max(m.width-2, 1)
	m.viewport.Height = max(m.height-used, 3)
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(PaneStyle.Render(m.renderTable()))
	b.WriteString("\n")
	b.WriteString(PaneStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	s := m.state
	if !s.Started {
		return HeaderStyle.Render(fmt.Sprintf("Blackjack: waiting for players (%d/%d)", s.Registered, s.MinPlayers))
	}
	header := fmt.Sprintf("Blackjack  Round %d  %s  Deck %d/%d", s.Round, s.Phase, s.PoolSize, s.DeckSize)
	if s.Paused {
		header += "  PAUSED"
	}
	return HeaderStyle.Render(header)
}

func (m *Model) renderTable() string {
	if len(m.state.Seats) == 0 {
		return InfoStyle.Render("No one is seated")
	}

	lines := make([]string, 0, len(m.state.Seats))
	for _, seat := range m.state.Seats {
		lines = append(lines, m.renderSeat(seat))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSeat(seat blackjack.SeatState) string {
	name := seat.Name
	if name == m.opts.Perspective && name != "" {
		name = "You"
	}
	if seat.IsDealer {
		name += " (dealer)"
	}

	hidden := false
	for _, c := range seat.Cards {
		if !c.FaceUp {
			hidden = true
		}
	}
	score := fmt.Sprintf("%d", seat.Score)
	if hidden {
		score = fmt.Sprintf("%d+", seat.VisibleScore)
	}
	if seat.Bust && !hidden {
		score += " " + ErrorStyle.Render("BUST")
	}

	marker, style := "  ", SeatStyle
	if seat.IsMyTurn && m.state.Phase == blackjack.PhasePlayerTurn {
		marker, style = "▸ ", ActiveSeatStyle
	}
	return fmt.Sprintf("%s%s %s %s  %s", marker, style.Render(fmt.Sprintf("%-16s", name)),
		FormatCards(seat.Cards), score, InfoStyle.Render(fmt.Sprintf("wins %d", seat.Wins)))
}

func (m *Model) renderFooter() string {
	var b strings.Builder
	s := m.state

	switch {
	case s.Paused:
		b.WriteString(WarningStyle.Render("Paused: press p to resume"))
	case s.CanAct:
		actions := SuccessStyle.Render("[s] stay")
		if s.CanHit {
			actions = SuccessStyle.Render("[h] hit") + " " + actions
		}
		b.WriteString("Your turn: " + actions)
	case s.Phase == blackjack.PhaseRoundEnd && s.HasWinner:
		b.WriteString(SuccessStyle.Render(s.WinnerName + " wins the round"))
	case s.Phase == blackjack.PhaseRoundEnd:
		b.WriteString(WarningStyle.Render("Everyone busted"))
	default:
		b.WriteString(InfoStyle.Render("Waiting..."))
	}

	if m.status != "" {
		b.WriteString("  " + ErrorStyle.Render(m.status))
	}
	if s.LastError != nil {
		b.WriteString("\n" + ErrorStyle.Render(s.LastError.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// FormatCard renders one card in red or black, or as a back when face down
func FormatCard(c deck.Card) string {
	switch {
	case !c.FaceUp:
		return HiddenCardStyle.Render(hiddenCard)
	case c.IsRed():
		return RedCardStyle.Render(c.String())
	default:
		return BlackCardStyle.Render(c.String())
	}
}

// FormatCards renders a hand
func FormatCards(cards []deck.Card) string {
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = FormatCard(c)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
