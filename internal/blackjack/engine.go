package blackjack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	rand "math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameerr"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/snapshot"
)

// maxFiresPerTick bounds how many due actions one Tick runs, so zero delays
// cannot spin forever
const maxFiresPerTick = 256

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithSessionID sets the session id instead of generating one
func WithSessionID(id string) EngineOption {
	return func(e *Engine) { e.sessionID = id }
}

// WithEventBus publishes events on bus instead of a private bus
func WithEventBus(bus game.EventBus) EngineOption {
	return func(e *Engine) { e.bus = bus }
}

// WithAutoStart controls whether Tick starts the game once enough players
// have registered. It defaults to true.
func WithAutoStart(on bool) EngineOption {
	return func(e *Engine) { e.autoStart = on }
}

type registration struct {
	name    string
	id      int
	hasID   bool
	seat    int
	hasSeat bool
	dealer  bool
	agent   Agent
}

// RegisterOption configures a player registration
type RegisterOption func(*registration)

// AtSeat requests a seating priority. Lower values sit earlier; players
// without a priority sit after those with one, in registration order.
func AtSeat(priority int) RegisterOption {
	return func(r *registration) { r.seat, r.hasSeat = priority, true }
}

// WithPlayerID registers the player under a fixed id
func WithPlayerID(id int) RegisterOption {
	return func(r *registration) { r.id, r.hasID = id, true }
}

// AsDealer makes the player the dealer
func AsDealer() RegisterOption {
	return func(r *registration) { r.dealer = true }
}

// WithAgent lets an agent play the seat
func WithAgent(a Agent) RegisterOption {
	return func(r *registration) { r.agent = a }
}

// Engine runs blackjack rounds on one table. All methods are safe for
// concurrent use. Events are published after the engine lock is released;
// subscribers may query State or Snapshot from OnEvent but must not issue
// commands synchronously.
type Engine struct {
	mu        sync.Mutex
	publishMu sync.Mutex

	cfg        Config
	clock      quartz.Clock
	baseLogger *log.Logger
	logger     *log.Logger
	bus        game.EventBus
	sessionID  string
	autoStart  bool

	ids     *game.IDSequence
	pending []*registration
	agents  map[int]Agent

	deck   *deck.Deck
	table  *game.Table
	scores *Scoreboard

	started      bool
	paused       bool
	phase        Phase
	round        int
	roundsPlayed int
	dealerTurn   bool
	deal         *game.DealPlan
	awaitingAck  bool
	ackQueued    bool
	hasWinner    bool
	winnerID     int
	winnerName   string
	lastErr      error
	resume       *snapshot.GameSnapshot

	lastTick   time.Time
	phaseTimer countdown
	agentTimer countdown

	outbox []game.GameEvent
}

// NewEngine creates an engine. A nil clock uses the real clock, a nil rng is
// seeded from the clock and a nil logger discards output.
func NewEngine(cfg Config, clock quartz.Clock, rng *rand.Rand, logger *log.Logger, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if rng == nil {
		rng = randutil.New(randutil.Seed(0, clock.Now()))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	d, err := deck.New(rng, cfg.Suits, cfg.Ranks)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		clock:     clock,
		bus:       game.NewEventBus(),
		autoStart: true,
		ids:       game.NewIDSequence(),
		agents:    make(map[int]Agent),
		deck:      d,
		scores:    NewScoreboard(),
		phase:     PhaseClear,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sessionID == "" {
		e.sessionID = gameid.Generate()
	}
	e.baseLogger = logger.WithPrefix("engine")
	e.logger = e.baseLogger.With("session", e.sessionID)
	return e, nil
}

// RegisterPlayer adds a player before the game starts and returns its id
func (e *Engine) RegisterPlayer(name string, opts ...RegisterOption) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return 0, ErrAlreadyStarted
	}

	r := &registration{name: name}
	for _, opt := range opts {
		opt(r)
	}
	if r.hasID {
		for _, other := range e.pending {
			if other.id == r.id {
				return 0, gameerr.NewConfigError("player_id", r.id, "already registered")
			}
		}
		e.ids.Observe(r.id)
	} else {
		r.id = e.ids.Next()
	}

	e.pending = append(e.pending, r)
	e.logger.Debug("Registered player", "name", name, "id", r.id, "agent", r.agent != nil)
	return r.id, nil
}

// Resume arranges for Start to restore snap. It must be called before the
// game starts.
func (e *Engine) Resume(snap *snapshot.GameSnapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	if snap == nil {
		return nil
	}
	if snap.Version > snapshot.Version {
		return fmt.Errorf("snapshot version %d is newer than supported version %d", snap.Version, snapshot.Version)
	}
	e.resume = snap
	if snap.SessionID != "" {
		e.sessionID = snap.SessionID
		e.logger = e.baseLogger.With("session", e.sessionID)
	}
	return nil
}

// Start seats the registered players and begins the first round
func (e *Engine) Start() error {
	e.mu.Lock()
	var err error
	if e.started {
		err = ErrAlreadyStarted
	} else {
		err = e.startLocked()
	}
	e.mu.Unlock()
	e.flush()
	return err
}

func (e *Engine) startLocked() error {
	if len(e.pending) < e.cfg.MinPlayers {
		return gameerr.NewConfigError("players", len(e.pending), fmt.Sprintf("need at least %d", e.cfg.MinPlayers))
	}

	regs := make([]*registration, len(e.pending))
	copy(regs, e.pending)
	sort.SliceStable(regs, func(i, j int) bool {
		return seatKey(regs[i]) < seatKey(regs[j])
	})

	players := make([]*game.Player, len(regs))
	names := make([]string, len(regs))
	var dealer *game.Player
	for i, r := range regs {
		players[i] = game.NewPlayer(r.id, r.name)
		names[i] = r.name
		if r.dealer && dealer == nil {
			dealer = players[i]
		}
	}

	table, err := game.NewTable(players, game.WithStartingCardCount(e.cfg.StartingCards))
	if err != nil {
		return err
	}
	if table.CardsRequired() > e.deck.Size() {
		return gameerr.NewConfigError("starting_cards", e.cfg.StartingCards,
			fmt.Sprintf("a deal needs %d cards but the deck has %d", table.CardsRequired(), e.deck.Size()))
	}
	if dealer != nil {
		if err := table.SetDealer(dealer); err != nil {
			return err
		}
	}

	for _, r := range regs {
		if r.agent != nil {
			e.agents[r.id] = r.agent
		}
	}
	e.table = table
	e.started = true
	e.lastTick = e.clock.Now()

	resumed, inRound := false, false
	if e.resume != nil {
		resumed, inRound = e.restoreLocked(e.resume)
		e.resume = nil
	}

	e.emit(game.NewGameLoadedEvent(e.clock.Now(), e.sessionID, names, resumed))
	e.logger.Info("Session started", "players", len(players), "resumed", resumed, "dealer", table.GetPlayer(table.GetDealer()).Name)

	if inRound {
		e.resumeTurnLocked()
		return nil
	}
	e.table.ClearHands()
	e.enterPhase(PhaseClear)
	return nil
}

// seatKey orders registrations; a stable sort keeps registration order
// among equal keys
func seatKey(r *registration) int {
	if r.hasSeat {
		return r.seat
	}
	return math.MaxInt
}

// restoreLocked applies a snapshot to the freshly built table. It reports
// whether anything was restored and whether a round was in progress.
func (e *Engine) restoreLocked(snap *snapshot.GameSnapshot) (resumed, inRound bool) {
	restored, errs := snapshot.Restore(e.table, e.deck, snap)
	for _, err := range errs {
		e.logger.Warn("Skipped snapshot reference", "err", err)
	}
	if snap.StartingCardCount != e.table.StartingCardCount() {
		e.logger.Warn("Snapshot starting card count differs from config",
			"snapshot", snap.StartingCardCount, "config", e.table.StartingCardCount())
	}

	for _, s := range restored.Scores {
		e.scores.SetWins(s.PlayerID, s.Wins)
	}
	for _, p := range e.table.Players() {
		e.scores.SetScore(p.ID, Score(p.Hand()))
	}
	e.roundsPlayed = restored.Stats.RoundsPlayed
	e.round = e.roundsPlayed

	e.logger.Info("Restored snapshot", "players", restored.Players, "cards", restored.Cards,
		"rounds", e.roundsPlayed, "skipped", len(errs))
	return restored.Players > 0, snap.InRound && restored.Cards > 0
}

// resumeTurnLocked continues a restored round from its active seat
func (e *Engine) resumeTurnLocked() {
	e.round = e.roundsPlayed + 1
	cur := e.table.CurrentPlayer()

	if cur.IsDealer && !cur.IsMyTurn {
		// Saved before the first turn of the round was handed out.
		e.dealerTurn = false
		e.enterPhase(PhasePlayerTurn)
		return
	}

	prev := e.phase
	e.phase = PhasePlayerTurn
	e.dealerTurn = true
	for _, p := range e.table.Players() {
		e.table.RestPlayer(p)
	}
	e.table.WakePlayer(cur)
	cur.RevealHand()
	score := Score(cur.Hand())
	e.scores.SetScore(cur.ID, score)

	now := e.clock.Now()
	e.emit(game.NewPhaseCompleteEvent(now, prev.String(), e.phase.String()))
	e.emit(game.NewTurnEvent(now, cur, e.table.PlayerTurn(), score))
	e.scheduleAgent(cur)
}

// Run ticks the engine every interval until ctx is cancelled or Tick fails
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return gameerr.NewConfigError("tick_interval", interval, "must be positive")
	}
	w := e.clock.TickerFunc(ctx, interval, e.Tick, "engine", "tick")
	err := w.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Tick credits elapsed time to pending delays and runs whatever is due.
// Before the game starts it waits for the minimum player count.
func (e *Engine) Tick() error {
	e.mu.Lock()
	err := e.tickLocked()
	e.mu.Unlock()
	e.flush()
	return err
}

func (e *Engine) tickLocked() error {
	if !e.started {
		if !e.autoStart || len(e.pending) < e.cfg.MinPlayers {
			return nil
		}
		if err := e.startLocked(); err != nil {
			return err
		}
	}

	e.accrue(e.clock.Now())
	if e.paused {
		return nil
	}

	if e.ackQueued {
		e.ackQueued = false
		e.ackDeal()
	}

	for i := 0; i < maxFiresPerTick; i++ {
		fn := e.phaseTimer.take()
		if fn == nil {
			fn = e.agentTimer.take()
		}
		if fn == nil {
			return nil
		}
		fn()
	}
	e.logger.Warn("Tick fire limit reached", "limit", maxFiresPerTick)
	return nil
}

// accrue credits time since the last tick to the countdowns. Paused time is
// skipped, which freezes the remaining delay.
func (e *Engine) accrue(now time.Time) {
	if e.started && !e.paused {
		if elapsed := now.Sub(e.lastTick); elapsed > 0 {
			e.phaseTimer.elapse(elapsed)
			e.agentTimer.elapse(elapsed)
		}
	}
	e.lastTick = now
}

// HitMe draws a card for the active player
func (e *Engine) HitMe() error {
	return e.command("hit", func() error {
		p, err := e.externalActor()
		if err != nil {
			return err
		}
		if !CanHit(p.Hand()) {
			return ErrCannotHit
		}
		return e.hit(p)
	})
}

// Stay ends the active player's turn without drawing
func (e *Engine) Stay() error {
	return e.command("stay", func() error {
		p, err := e.externalActor()
		if err != nil {
			return err
		}
		e.stay(p)
		return nil
	})
}

// AcknowledgeDeal reports that the last dealt card has been shown. During
// a sequential deal the next card is only dealt after this call.
func (e *Engine) AcknowledgeDeal() error {
	return e.command("acknowledge", func() error {
		if !e.started {
			return ErrNotStarted
		}
		if e.phase != PhaseDeal || !e.awaitingAck {
			return ErrNoDealPending
		}
		if e.paused {
			e.awaitingAck = false
			e.ackQueued = true
			return nil
		}
		e.ackDeal()
		return nil
	})
}

// TogglePause sets the pause flag. While paused no delay elapses and Hit and
// Stay are rejected.
func (e *Engine) TogglePause(paused bool) {
	e.mu.Lock()
	e.accrue(e.clock.Now())
	if e.paused != paused {
		e.paused = paused
		e.emit(game.NewPauseEvent(e.clock.Now(), paused))
		e.logger.Info("Pause toggled", "paused", paused)
	}
	e.mu.Unlock()
	e.flush()
}

func (e *Engine) command(name string, fn func() error) error {
	e.mu.Lock()
	err := fn()
	e.mu.Unlock()
	e.flush()

	if err != nil && !errors.Is(err, ErrRoundAborted) {
		e.logger.Warn("Rejected command", "command", name, "err", err)
	}
	return err
}

func (e *Engine) externalActor() (*game.Player, error) {
	switch {
	case !e.started:
		return nil, ErrNotStarted
	case e.paused:
		return nil, ErrPaused
	case e.phase != PhasePlayerTurn:
		return nil, ErrWrongPhase
	}
	p := e.table.CurrentPlayer()
	if _, ok := e.agents[p.ID]; ok {
		return nil, ErrAgentSeat
	}
	return p, nil
}

func (e *Engine) emit(ev game.GameEvent) {
	e.outbox = append(e.outbox, ev)
}

// flush publishes queued events in order. publishMu keeps batches from
// concurrent callers from interleaving.
func (e *Engine) flush() {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()
	for {
		e.mu.Lock()
		events := e.outbox
		e.outbox = nil
		e.mu.Unlock()

		if len(events) == 0 {
			return
		}
		for _, ev := range events {
			e.bus.Publish(ev)
		}
	}
}

func (e *Engine) enterPhase(next Phase) {
	prev := e.phase
	e.phase = next
	e.logger.Debug("Phase", "from", prev, "to", next, "round", e.round)
	e.emit(game.NewPhaseCompleteEvent(e.clock.Now(), prev.String(), next.String()))

	switch next {
	case PhaseReset:
		e.enterReset()
	case PhaseDeal:
		e.enterDeal()
	case PhasePlayerTurn:
		e.enterPlayerTurn()
	case PhaseRoundEnd:
		e.enterRoundEnd()
	case PhaseClear:
		e.enterClear()
	}
}

func (e *Engine) after(label string, d time.Duration, next Phase) {
	e.phaseTimer.schedule(label, d, func() { e.enterPhase(next) })
}

func (e *Engine) enterReset() {
	e.table.ClearHands()
	e.deck.Reshuffle()

	now := e.clock.Now()
	e.emit(game.NewResetEvent(now))
	e.emit(game.NewShuffleEvent(now, true, e.deck.PoolSize()))
	e.logger.Debug("Deck reshuffled", "pool", e.deck.PoolSize())
	e.after("reset->deal", e.cfg.Delays.AfterReset, PhaseDeal)
}

func (e *Engine) enterDeal() {
	e.round++
	e.dealerTurn = false
	e.hasWinner = false
	e.winnerName = ""
	e.lastErr = nil

	dealer := e.table.GetDealer()
	_ = e.table.SetPlayerTurn(dealer)
	for _, p := range e.table.Players() {
		e.table.RestPlayer(p)
	}

	e.deal = game.NewDealPlan(e.table)
	if e.deal.Total() == 0 {
		e.finishDeal()
		return
	}
	if e.cfg.DealSequentially {
		e.dealNext(true)
		return
	}
	for !e.deal.Done() {
		if !e.dealNext(false) {
			return
		}
	}
	e.finishDeal()
}

// dealNext deals one card. It returns false if the round was aborted.
func (e *Engine) dealNext(needsAck bool) bool {
	poolBefore := e.deck.PoolSize()
	p, c, err := e.deal.Next(e.deck)
	if err != nil {
		e.abortRound(err)
		return false
	}
	if poolBefore == 0 {
		e.emit(game.NewShuffleEvent(e.clock.Now(), false, e.deck.PoolSize()+1))
	}

	seat, _ := e.table.SeatOf(p.ID)
	e.awaitingAck = needsAck
	e.logger.Debug("Dealt card", "player", p.Name, "card", c.String(), "dealt", e.deal.Dealt(), "total", e.deal.Total())
	e.emit(game.NewCardDealtEvent(e.clock.Now(), p, seat, c, e.deal.Dealt(), e.deal.Total(), needsAck))
	return true
}

func (e *Engine) ackDeal() {
	e.awaitingAck = false
	if e.deal == nil {
		return
	}
	if e.deal.Done() {
		e.finishDeal()
		return
	}
	e.dealNext(true)
}

func (e *Engine) finishDeal() {
	total := e.deal.Total()
	e.deal = nil
	e.awaitingAck = false
	for _, p := range e.table.Players() {
		e.scores.SetScore(p.ID, Score(p.Hand()))
	}
	e.emit(game.NewDealEvent(e.clock.Now(), total, e.deck.PoolSize()))
	e.after("deal->turn", e.cfg.Delays.AfterDeal, PhasePlayerTurn)
}

func (e *Engine) enterPlayerTurn() {
	dealerSeat := e.table.GetDealer()
	if e.table.PlayerTurn() == dealerSeat {
		if e.dealerTurn {
			e.table.RestPlayer(e.table.CurrentPlayer())
			e.enterPhase(PhaseRoundEnd)
			return
		}
		e.dealerTurn = true
	}

	// The dealer shows the first card and keeps the second hidden until acting.
	hand := e.table.GetPlayer(dealerSeat).Hand()
	if len(hand) > 0 {
		hand[0].Reveal()
	}
	if len(hand) > 1 {
		hand[1].Hide()
	}

	next := e.table.NextPlayerTurn()
	next.RevealHand()
	score := Score(next.Hand())
	e.scores.SetScore(next.ID, score)

	seat := e.table.PlayerTurn()
	e.logger.Debug("Turn", "player", next.Name, "seat", seat, "score", score)
	e.emit(game.NewTurnEvent(e.clock.Now(), next, seat, score))
	e.scheduleAgent(next)
}

func (e *Engine) hit(p *game.Player) error {
	poolBefore := e.deck.PoolSize()
	card, err := e.deck.DealRandomCard(e.table)
	if err == nil {
		err = p.AddCard(card)
	}
	if err != nil {
		e.abortRound(err)
		return fmt.Errorf("%w: %w", ErrRoundAborted, err)
	}
	if poolBefore == 0 {
		e.emit(game.NewShuffleEvent(e.clock.Now(), false, e.deck.PoolSize()+1))
	}

	p.RevealHand()
	hand := p.Hand()
	score := Score(hand)
	e.scores.SetScore(p.ID, score)
	e.logger.Debug("Hit", "player", p.Name, "card", card.String(), "score", score)
	e.emit(game.NewHitEvent(e.clock.Now(), p, card, score, score > Blackjack))

	if !CanHit(hand) {
		e.enterPhase(PhasePlayerTurn)
	}
	return nil
}

func (e *Engine) stay(p *game.Player) {
	score := Score(p.Hand())
	e.scores.SetScore(p.ID, score)
	e.logger.Debug("Stay", "player", p.Name, "score", score)
	e.emit(game.NewStayEvent(e.clock.Now(), p, score))
	e.agentTimer.cancel()
	e.enterPhase(PhasePlayerTurn)
}

func (e *Engine) scheduleAgent(p *game.Player) {
	agent, ok := e.agents[p.ID]
	if !ok {
		e.agentTimer.cancel()
		return
	}
	id := p.ID
	e.agentTimer.schedule("agent "+p.Name, agent.ThinkTime(), func() { e.runAgent(id) })
}

func (e *Engine) runAgent(id int) {
	if e.phase != PhasePlayerTurn {
		return
	}
	cur := e.table.CurrentPlayer()
	agent, ok := e.agents[id]
	if cur.ID != id || !ok {
		return
	}

	view := e.turnView(cur)
	decision := agent.Decide(view)
	e.logger.Debug("Agent decided", "player", cur.Name, "action", decision.Action, "reason", decision.Reasoning)

	if decision.Action == Hit && view.CanHit {
		if err := e.hit(cur); err != nil {
			return
		}
		if e.phase == PhasePlayerTurn && e.table.CurrentPlayer().ID == id {
			e.scheduleAgent(cur)
		}
		return
	}
	e.stay(cur)
}

func (e *Engine) turnView(p *game.Player) TurnView {
	hand := p.Hand()
	view := TurnView{
		PlayerID: p.ID,
		Hand:     make([]deck.Card, len(hand)),
		Score:    Score(hand),
		CanHit:   CanHit(hand),
		IsDealer: p.IsDealer,
	}
	for i, c := range hand {
		view.Hand[i] = *c
	}
	for _, other := range e.table.Players() {
		if other.ID == p.ID {
			continue
		}
		view.Others = append(view.Others, SeatView{
			PlayerID: other.ID,
			Name:     other.Name,
			Score:    Score(other.Hand()),
			IsDealer: other.IsDealer,
		})
	}
	return view
}

func (e *Engine) enterRoundEnd() {
	e.agentTimer.cancel()
	e.table.RevealAll()

	players := e.table.Players()
	hands := make([][]*deck.Card, len(players))
	for i, p := range players {
		hands[i] = p.Hand()
		e.scores.SetScore(p.ID, Score(hands[i]))
	}

	seat, ok := Winner(hands)
	var winner *game.Player
	if ok {
		winner = players[seat]
		e.scores.AddWin(winner.ID)
		e.winnerID, e.winnerName = winner.ID, winner.Name
	}
	e.hasWinner = ok
	e.roundsPlayed++

	results := make([]game.SeatResult, len(players))
	for i, p := range players {
		results[i] = game.SeatResult{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Score:      e.scores.Score(p.ID),
			Bust:       e.scores.IsBust(p.ID),
			Wins:       e.scores.Wins(p.ID),
		}
	}

	if ok {
		e.logger.Info("Round complete", "round", e.round, "winner", winner.Name, "score", e.scores.Score(winner.ID))
	} else {
		e.logger.Info("Round complete", "round", e.round, "winner", "none")
	}
	e.emit(game.NewRoundEndEvent(e.clock.Now(), e.round, winner, seat, results))
	e.after("round end->clear", e.cfg.Delays.AfterRoundEnd, PhaseClear)
}

func (e *Engine) enterClear() {
	e.agentTimer.cancel()
	e.table.ClearHands()
	e.scores.ResetRound()
	for _, p := range e.table.Players() {
		e.table.RestPlayer(p)
	}
	e.dealerTurn = false
	e.deal = nil
	e.awaitingAck = false
	e.ackQueued = false

	if e.deck.NotEnoughCards(e.table.CardsRequired()) {
		e.after("clear->reset", e.cfg.Delays.ClearToReset, PhaseReset)
		return
	}
	e.after("clear->deal", e.cfg.Delays.ClearToDeal, PhaseDeal)
}

// abortRound surfaces a failed draw and routes to Clear. The draw is not
// retried.
func (e *Engine) abortRound(err error) {
	e.lastErr = err
	e.logger.Error("Round aborted", "round", e.round, "err", err)
	e.emit(game.NewRoundAbortedEvent(e.clock.Now(), e.round, err))
	e.enterPhase(PhaseClear)
}

// Subscribe adds an event subscriber
func (e *Engine) Subscribe(sub game.EventSubscriber) { e.bus.Subscribe(sub) }

// Unsubscribe removes an event subscriber
func (e *Engine) Unsubscribe(sub game.EventSubscriber) { e.bus.Unsubscribe(sub) }

// SessionID returns the session identifier
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Winner returns the id of the last round's winner. ok is false before the
// first round ends, while a new round is being dealt, and when every hand
// busted.
func (e *Engine) Winner() (playerID int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.winnerID, e.hasWinner
}

// State returns a copy of the engine state for presentation
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := State{
		SessionID:   e.sessionID,
		Started:     e.started,
		Paused:      e.paused,
		Phase:       e.phase,
		Round:       e.round,
		PlayerTurn:  -1,
		PoolSize:    e.deck.PoolSize(),
		DeckSize:    e.deck.Size(),
		AwaitingAck: e.awaitingAck,
		HasWinner:   e.hasWinner,
		WinnerName:  e.winnerName,
		LastError:   e.lastErr,
		MinPlayers:  e.cfg.MinPlayers,
		Registered:  len(e.pending),
	}
	if !e.started {
		return s
	}

	s.PlayerTurn = e.table.PlayerTurn()
	for i, p := range e.table.Players() {
		hand := p.Hand()
		cards := make([]deck.Card, len(hand))
		for j, c := range hand {
			cards[j] = *c
		}
		score := Score(hand)
		_, agent := e.agents[p.ID]
		s.Seats = append(s.Seats, SeatState{
			PlayerID:     p.ID,
			Name:         p.Name,
			Seat:         i,
			Cards:        cards,
			Score:        score,
			VisibleScore: VisibleScore(hand),
			Bust:         score > Blackjack,
			Wins:         e.scores.Wins(p.ID),
			IsMyTurn:     p.IsMyTurn,
			IsDealer:     p.IsDealer,
			IsAgent:      agent,
		})
	}

	if _, err := e.externalActor(); err == nil {
		s.CanAct = true
		s.CanHit = CanHit(e.table.CurrentPlayer().Hand())
	}
	return s
}

// Snapshot captures the session as plain data
func (e *Engine) Snapshot() (*snapshot.GameSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, ErrNotStarted
	}

	var scores []snapshot.PlayerScore
	for _, entry := range e.scores.Entries() {
		scores = append(scores, snapshot.PlayerScore{
			PlayerID: entry.PlayerID,
			Score:    entry.Score,
			Wins:     entry.Wins,
		})
	}
	snap := snapshot.Capture(e.table, e.deck, scores, snapshot.Stats{RoundsPlayed: e.roundsPlayed})
	snap.SessionID = e.sessionID
	snap.SavedAt = e.clock.Now().UTC()
	snap.InRound = e.phase == PhasePlayerTurn
	return &snap, nil
}
