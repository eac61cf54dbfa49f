package game

import (
	"sync"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeGameLoaded    EventType = "game_loaded"
	EventTypeShuffle       EventType = "shuffle"
	EventTypeCardDealt     EventType = "card_dealt"
	EventTypeDeal          EventType = "deal"
	EventTypeTurn          EventType = "turn"
	EventTypeHit           EventType = "hit"
	EventTypeStay          EventType = "stay"
	EventTypeRoundEnd      EventType = "round_end"
	EventTypeRoundAborted  EventType = "round_aborted"
	EventTypeReset         EventType = "reset"
	EventTypePhaseComplete EventType = "phase_complete"
	EventTypePause         EventType = "pause"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a session
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameLoadedEvent is published once when a session starts
type GameLoadedEvent struct {
	SessionID string
	Players   []string
	Resumed   bool
	timestamp time.Time
}

func (e GameLoadedEvent) EventType() EventType { return EventTypeGameLoaded }
func (e GameLoadedEvent) Timestamp() time.Time { return e.timestamp }

// NewGameLoadedEvent creates a new game loaded event
func NewGameLoadedEvent(at time.Time, sessionID string, players []string, resumed bool) GameLoadedEvent {
	names := make([]string, len(players))
	copy(names, players)
	return GameLoadedEvent{SessionID: sessionID, Players: names, Resumed: resumed, timestamp: at}
}

// ShuffleEvent is published whenever the draw pool is rebuilt
type ShuffleEvent struct {
	Hard      bool
	PoolSize  int
	timestamp time.Time
}

func (e ShuffleEvent) EventType() EventType { return EventTypeShuffle }
func (e ShuffleEvent) Timestamp() time.Time { return e.timestamp }

// NewShuffleEvent creates a new shuffle event
func NewShuffleEvent(at time.Time, hard bool, poolSize int) ShuffleEvent {
	return ShuffleEvent{Hard: hard, PoolSize: poolSize, timestamp: at}
}

// ResetEvent asks collaborators to return every card to the box
type ResetEvent struct {
	timestamp time.Time
}

func (e ResetEvent) EventType() EventType { return EventTypeReset }
func (e ResetEvent) Timestamp() time.Time { return e.timestamp }

// NewResetEvent creates a new reset event
func NewResetEvent(at time.Time) ResetEvent {
	return ResetEvent{timestamp: at}
}

// CardDealtEvent is published for each starting card. When NeedsAck is set
// the engine waits for an acknowledgement before dealing the next card.
type CardDealtEvent struct {
	PlayerID   int
	PlayerName string
	Seat       int
	Card       deck.Card
	Dealt      int
	Total      int
	NeedsAck   bool
	timestamp  time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// NewCardDealtEvent creates a new card dealt event
func NewCardDealtEvent(at time.Time, p *Player, seat int, card *deck.Card, dealt, total int, needsAck bool) CardDealtEvent {
	return CardDealtEvent{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Seat:       seat,
		Card:       *card,
		Dealt:      dealt,
		Total:      total,
		NeedsAck:   needsAck,
		timestamp:  at,
	}
}

// DealEvent is published when every starting card has been dealt
type DealEvent struct {
	Cards     int
	PoolSize  int
	timestamp time.Time
}

func (e DealEvent) EventType() EventType { return EventTypeDeal }
func (e DealEvent) Timestamp() time.Time { return e.timestamp }

// NewDealEvent creates a new deal event
func NewDealEvent(at time.Time, cards, poolSize int) DealEvent {
	return DealEvent{Cards: cards, PoolSize: poolSize, timestamp: at}
}

// TurnEvent is published when a seat becomes active
type TurnEvent struct {
	PlayerID   int
	PlayerName string
	Seat       int
	Score      int
	IsDealer   bool
	timestamp  time.Time
}

func (e TurnEvent) EventType() EventType { return EventTypeTurn }
func (e TurnEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnEvent creates a new turn event
func NewTurnEvent(at time.Time, p *Player, seat, score int) TurnEvent {
	return TurnEvent{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Seat:       seat,
		Score:      score,
		IsDealer:   p.IsDealer,
		timestamp:  at,
	}
}

// HitEvent is published when the active player draws a card
type HitEvent struct {
	PlayerID   int
	PlayerName string
	Card       deck.Card
	Score      int
	Bust       bool
	timestamp  time.Time
}

func (e HitEvent) EventType() EventType { return EventTypeHit }
func (e HitEvent) Timestamp() time.Time { return e.timestamp }

// NewHitEvent creates a new hit event
func NewHitEvent(at time.Time, p *Player, card *deck.Card, score int, bust bool) HitEvent {
	return HitEvent{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Card:       *card,
		Score:      score,
		Bust:       bust,
		timestamp:  at,
	}
}

// StayEvent is published when the active player stands
type StayEvent struct {
	PlayerID   int
	PlayerName string
	Score      int
	timestamp  time.Time
}

func (e StayEvent) EventType() EventType { return EventTypeStay }
func (e StayEvent) Timestamp() time.Time { return e.timestamp }

// NewStayEvent creates a new stay event
func NewStayEvent(at time.Time, p *Player, score int) StayEvent {
	return StayEvent{PlayerID: p.ID, PlayerName: p.Name, Score: score, timestamp: at}
}

// SeatResult is one seat's outcome at the end of a round
type SeatResult struct {
	PlayerID   int
	PlayerName string
	Score      int
	Bust       bool
	Wins       int
}

// RoundEndEvent is published when a round is resolved
type RoundEndEvent struct {
	Round      int
	HasWinner  bool
	WinnerID   int
	WinnerName string
	WinnerSeat int
	Results    []SeatResult
	timestamp  time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundEndEvent creates a new round end event. winner may be nil when
// every hand busted.
func NewRoundEndEvent(at time.Time, round int, winner *Player, winnerSeat int, results []SeatResult) RoundEndEvent {
	e := RoundEndEvent{
		Round:      round,
		WinnerSeat: -1,
		Results:    append([]SeatResult(nil), results...),
		timestamp:  at,
	}
	if winner != nil {
		e.HasWinner = true
		e.WinnerID = winner.ID
		e.WinnerName = winner.Name
		e.WinnerSeat = winnerSeat
	}
	return e
}

// RoundAbortedEvent is published when a round cannot continue
type RoundAbortedEvent struct {
	Round     int
	Err       error
	timestamp time.Time
}

func (e RoundAbortedEvent) EventType() EventType { return EventTypeRoundAborted }
func (e RoundAbortedEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundAbortedEvent creates a new round aborted event
func NewRoundAbortedEvent(at time.Time, round int, err error) RoundAbortedEvent {
	return RoundAbortedEvent{Round: round, Err: err, timestamp: at}
}

// PhaseCompleteEvent is published on every phase transition
type PhaseCompleteEvent struct {
	From      string
	To        string
	timestamp time.Time
}

func (e PhaseCompleteEvent) EventType() EventType { return EventTypePhaseComplete }
func (e PhaseCompleteEvent) Timestamp() time.Time { return e.timestamp }

// NewPhaseCompleteEvent creates a new phase complete event
func NewPhaseCompleteEvent(at time.Time, from, to string) PhaseCompleteEvent {
	return PhaseCompleteEvent{From: from, To: to, timestamp: at}
}

// PauseEvent is published when the pause flag changes
type PauseEvent struct {
	Paused    bool
	timestamp time.Time
}

func (e PauseEvent) EventType() EventType { return EventTypePause }
func (e PauseEvent) Timestamp() time.Time { return e.timestamp }

// NewPauseEvent creates a new pause event
func NewPauseEvent(at time.Time, paused bool) PauseEvent {
	return PauseEvent{Paused: paused, timestamp: at}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is an in-memory, synchronous event bus
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber. Adding one that is already present does nothing.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for _, sub := range bus.subscribers {
		if sub == subscriber {
			return
		}
	}
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

// Len returns the number of subscribers
func (bus *SimpleEventBus) Len() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subscribers)
}

type funcSubscriber struct {
	fn func(GameEvent)
}

func (s *funcSubscriber) OnEvent(event GameEvent) { s.fn(event) }

// SubscriberFunc adapts a function into an EventSubscriber. Each call
// returns a distinct subscriber so it can later be unsubscribed.
func SubscriberFunc(fn func(GameEvent)) EventSubscriber {
	return &funcSubscriber{fn: fn}
}

// ChannelSubscriber forwards events onto a buffered channel. Events that
// arrive while the buffer is full are dropped and counted.
type ChannelSubscriber struct {
	mu      sync.Mutex
	ch      chan GameEvent
	closed  bool
	dropped int
}

// NewChannelSubscriber creates a subscriber with the given buffer size
func NewChannelSubscriber(buffer int) *ChannelSubscriber {
	return &ChannelSubscriber{ch: make(chan GameEvent, buffer)}
}

// OnEvent implements EventSubscriber
func (s *ChannelSubscriber) OnEvent(event GameEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- event:
	default:
		s.dropped++
	}
}

// Events returns the receive side of the channel
func (s *ChannelSubscriber) Events() <-chan GameEvent {
	return s.ch
}

// Dropped returns how many events were discarded because the buffer was full
func (s *ChannelSubscriber) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close closes the channel. Later events are ignored.
func (s *ChannelSubscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
