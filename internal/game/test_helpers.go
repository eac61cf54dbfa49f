package game

import (
	"sync"
)

// TestTableOption configures test table creation
type TestTableOption func(*testTableBuilder)

type testTableBuilder struct {
	players       []string
	dealer        int
	startingCards int
}

// WithPlayers sets the seated player names
func WithPlayers(names ...string) TestTableOption {
	return func(b *testTableBuilder) { b.players = names }
}

// WithDealerSeat flags the given seat as dealer. A negative seat leaves
// every dealer flag clear.
func WithDealerSeat(seat int) TestTableOption {
	return func(b *testTableBuilder) { b.dealer = seat }
}

// WithStartingCards sets the per-seat deal size
func WithStartingCards(n int) TestTableOption {
	return func(b *testTableBuilder) { b.startingCards = n }
}

// NewTestTable creates a table for testing with sensible defaults. Player
// ids are assigned from 1 in seating order.
func NewTestTable(opts ...TestTableOption) *Table {
	builder := &testTableBuilder{
		players:       []string{"Dealer", "Alice"},
		dealer:        0,
		startingCards: 2,
	}
	for _, opt := range opts {
		opt(builder)
	}

	seq := NewIDSequence()
	players := make([]*Player, len(builder.players))
	for i, name := range builder.players {
		players[i] = NewPlayer(seq.Next(), name)
		players[i].IsDealer = i == builder.dealer
	}

	t, err := NewTable(players, WithStartingCardCount(builder.startingCards))
	if err != nil {
		panic(err)
	}
	return t
}

// Recorder is an EventSubscriber that keeps every event it sees
type Recorder struct {
	mu     sync.Mutex
	events []GameEvent
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnEvent implements EventSubscriber
func (r *Recorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything recorded
func (r *Recorder) Events() []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]GameEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// Count returns how many events of the given type were recorded
func (r *Recorder) Count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.EventType() == t {
			n++
		}
	}
	return n
}

// Last returns the most recent event of the given type, or nil
func (r *Recorder) Last(t EventType) GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EventType() == t {
			return r.events[i]
		}
	}
	return nil
}

// Reset discards everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
