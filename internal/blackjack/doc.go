// Package blackjack implements scoring and the round state machine.
//
// # Scoring
//
// Score counts aces as 1 and promotes a single ace to 11 when that keeps the
// hand at or under 21. Winner scans seats in order and keeps the first
// strictly higher qualifying score, so ties go to the earlier seat.
//
// # Rounds
//
// An Engine cycles through five phases:
//
//	Reset -> Deal -> PlayerTurn (once per seat) -> RoundEnd -> Clear
//	Clear -> Deal when the pool can cover another deal, else Clear -> Reset
//
// Automatic transitions wait for the delays in Config. Nothing runs on its
// own goroutine: Tick credits elapsed clock time to the pending delay and
// fires it when due. Run wraps Tick in a quartz ticker.
//
//	e, _ := blackjack.NewEngine(cfg, quartz.NewReal(), randutil.New(seed), logger)
//	e.RegisterPlayer("Dealer", blackjack.AsDealer(), blackjack.WithAgent(blackjack.NewDealerAgent(time.Second)))
//	e.RegisterPlayer("You")
//	go e.Run(ctx, 50*time.Millisecond)
//
// During PlayerTurn the active seat is driven by HitMe and Stay, or by its
// Agent. Commands outside PlayerTurn, while paused, or aimed at an agent's
// seat are rejected with a sentinel error and change nothing.
//
// With Config.DealSequentially set, each dealt card waits for
// AcknowledgeDeal so a front end can animate it before the next one.
package blackjack
