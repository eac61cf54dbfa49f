package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// Source produces snapshots on demand
type Source interface {
	Snapshot() (*GameSnapshot, error)
}

// DefaultSaveTimeout bounds a single autosave
const DefaultSaveTimeout = 5 * time.Second

// Autosaver is an event subscriber that saves a snapshot when a session
// loads and after every round. Failures are logged and otherwise ignored.
type Autosaver struct {
	source  Source
	store   Store
	logger  *log.Logger
	timeout time.Duration

	mu      sync.Mutex
	saves   int
	lastErr error
}

// NewAutosaver creates an autosaver. Subscribe it to the engine that source
// refers to.
func NewAutosaver(source Source, store Store, logger *log.Logger) *Autosaver {
	return &Autosaver{
		source:  source,
		store:   store,
		logger:  logger.WithPrefix("autosave"),
		timeout: DefaultSaveTimeout,
	}
}

// OnEvent implements game.EventSubscriber
func (a *Autosaver) OnEvent(event game.GameEvent) {
	switch event.EventType() {
	case game.EventTypeGameLoaded, game.EventTypeRoundEnd:
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		_ = a.Save(ctx)
	}
}

// Save takes a snapshot and writes it to the store now
func (a *Autosaver) Save(ctx context.Context) error {
	snap, err := a.source.Snapshot()
	if err == nil {
		err = a.store.Save(ctx, *snap)
	}

	a.mu.Lock()
	a.lastErr = err
	if err == nil {
		a.saves++
	}
	a.mu.Unlock()

	if err != nil {
		a.logger.Error("Failed to save snapshot", "err", err)
		return err
	}
	a.logger.Debug("Saved snapshot", "session", snap.SessionID, "rounds", snap.Stats.RoundsPlayed)
	return nil
}

// Saves returns how many snapshots were written successfully
func (a *Autosaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

// LastError returns the error from the most recent save attempt
func (a *Autosaver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}
