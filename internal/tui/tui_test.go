package tui

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type fakeController struct {
	state  blackjack.State
	hits   int
	stays  int
	acks   int
	pauses []bool
	hitErr error
}

func (f *fakeController) State() blackjack.State { return f.state }

func (f *fakeController) HitMe() error {
	f.hits++
	return f.hitErr
}

func (f *fakeController) Stay() error {
	f.stays++
	return nil
}

func (f *fakeController) TogglePause(paused bool) {
	f.pauses = append(f.pauses, paused)
	f.state.Paused = paused
}

func (f *fakeController) AcknowledgeDeal() error {
	f.acks++
	f.state.AwaitingAck = false
	return nil
}

func card(suit deck.Suit, rank deck.Rank, faceUp bool) deck.Card {
	c := deck.NewCard(int(suit)*deck.RankCount+int(rank)-1, suit, rank)
	c.FaceUp = faceUp
	return *c
}

func playerTurnState() blackjack.State {
	return blackjack.State{
		Started:    true,
		Phase:      blackjack.PhasePlayerTurn,
		Round:      3,
		PlayerTurn: 1,
		PoolSize:   48,
		DeckSize:   52,
		CanAct:     true,
		CanHit:     true,
		MinPlayers: 2,
		Registered: 2,
		Seats: []blackjack.SeatState{
			{
				PlayerID: 1, Name: "Dealer", IsDealer: true, IsAgent: true,
				Cards:        []deck.Card{card(deck.Spade, deck.Ace, true), card(deck.Heart, deck.King, false)},
				Score:        21,
				VisibleScore: 11,
				Wins:         2,
			},
			{
				PlayerID: 2, Name: "Alice", Seat: 1, IsMyTurn: true,
				Cards:        []deck.Card{card(deck.Heart, deck.Nine, true), card(deck.Club, deck.Five, true)},
				Score:        14,
				VisibleScore: 14,
				Wins:         1,
			},
		},
	}
}

func newTestModel(ctrl *fakeController) *Model {
	return NewModel(ctrl, nil, log.New(io.Discard), Options{Perspective: "Alice"})
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestHitAndStayKeys(t *testing.T) {
	ctrl := &fakeController{state: playerTurnState()}
	m := newTestModel(ctrl)

	m.Update(keyPress('h'))
	assert.Equal(t, 1, ctrl.hits)
	m.Update(keyPress('s'))
	assert.Equal(t, 1, ctrl.stays)
	assert.Empty(t, m.Status())
}

func TestActionsGatedOnState(t *testing.T) {
	t.Run("not your turn", func(t *testing.T) {
		state := playerTurnState()
		state.CanAct = false
		ctrl := &fakeController{state: state}
		m := newTestModel(ctrl)

		m.Update(keyPress('h'))
		m.Update(keyPress('s'))
		assert.Zero(t, ctrl.hits)
		assert.Zero(t, ctrl.stays)
		assert.Equal(t, "Not your turn", m.Status())
	})

	t.Run("hand closed", func(t *testing.T) {
		state := playerTurnState()
		state.CanHit = false
		ctrl := &fakeController{state: state}
		m := newTestModel(ctrl)

		m.Update(keyPress('h'))
		assert.Zero(t, ctrl.hits)
		assert.Equal(t, "You cannot take another card", m.Status())

		m.Update(keyPress('s'))
		assert.Equal(t, 1, ctrl.stays)
	})
}

func TestRejectedCommandShowsStatus(t *testing.T) {
	ctrl := &fakeController{state: playerTurnState(), hitErr: errors.New("game is paused")}
	m := newTestModel(ctrl)

	m.Update(keyPress('h'))
	assert.Equal(t, "game is paused", m.Status())
	assert.Contains(t, m.View(), "game is paused")
}

func TestPauseToggles(t *testing.T) {
	ctrl := &fakeController{state: playerTurnState()}
	m := newTestModel(ctrl)

	m.Update(keyPress('p'))
	m.Update(keyPress('p'))
	assert.Equal(t, []bool{true, false}, ctrl.pauses)
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{keyPress('q'), {Type: tea.KeyCtrlC}} {
		m := newTestModel(&fakeController{state: playerTurnState()})
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	}
}

func TestEventsAreLogged(t *testing.T) {
	ctrl := &fakeController{state: playerTurnState()}
	m := newTestModel(ctrl)
	now := time.Now()

	m.Update(EventMsg{Event: game.NewGameLoadedEvent(now, "s", []string{"Dealer", "Alice"}, false)})
	m.Update(EventMsg{Event: game.NewPhaseCompleteEvent(now, "Clear", "Reset")})
	m.Update(EventMsg{Event: game.NewStayEvent(now, game.NewPlayer(2, "Alice"), 14)})

	assert.Equal(t, []string{
		"Started session with Dealer, Alice",
		"You stays on 14",
	}, m.Log(), "phase lines are hidden by default")
}

func TestDealAnimationAcknowledges(t *testing.T) {
	state := playerTurnState()
	state.Phase = blackjack.PhaseDeal
	state.CanAct = false
	state.AwaitingAck = true
	ctrl := &fakeController{state: state}
	m := newTestModel(ctrl)

	p := game.NewPlayer(2, "Alice")
	c := deck.NewCard(0, deck.Spade, deck.Ace)
	_, cmd := m.Update(EventMsg{Event: game.NewCardDealtEvent(time.Now(), p, 1, c, 1, 4, true)})
	require.NotNil(t, cmd)
	assert.True(t, m.ackPending)
	assert.Nil(t, m.scheduleAck(), "one pending ack at a time")

	m.Update(ackMsg{})
	assert.Equal(t, 1, ctrl.acks)
	assert.False(t, m.ackPending)
}

func TestRefreshPicksUpMissedAck(t *testing.T) {
	state := playerTurnState()
	state.Phase = blackjack.PhaseDeal
	state.AwaitingAck = true
	ctrl := &fakeController{state: state}
	m := newTestModel(ctrl)

	m.Update(refreshMsg{})
	assert.True(t, m.ackPending)
}

func TestView(t *testing.T) {
	ctrl := &fakeController{state: playerTurnState()}
	m := newTestModel(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Round 3")
	assert.Contains(t, view, "Dealer (dealer)")
	assert.Contains(t, view, "A♠ ▒▒", "the dealer's hole card is hidden")
	assert.Contains(t, view, "11+")
	assert.Contains(t, view, "▸ You")
	assert.Contains(t, view, "9♥ 5♣")
	assert.Contains(t, view, "[h] hit")
	assert.Contains(t, view, "wins 2")
}

func TestViewWaitingForPlayers(t *testing.T) {
	ctrl := &fakeController{state: blackjack.State{MinPlayers: 2, Registered: 1, PlayerTurn: -1}}
	m := newTestModel(ctrl)
	assert.Contains(t, m.View(), "waiting for players (1/2)")
}

func TestFormatCards(t *testing.T) {
	cards := []deck.Card{card(deck.Diamond, deck.Ten, true), card(deck.Club, deck.Queen, false)}
	assert.Equal(t, "[10♦ ▒▒]", FormatCards(cards))
	assert.Equal(t, "[]", FormatCards(nil))
}
