package blackjack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/sanity-io/litter"

	"github.com/lox/blackjack/internal/deck"
)

// RoundResult is the ledger entry for one round
type RoundResult struct {
	ID     string
	Number int

	Outcome    Outcome
	InitialBet int
	Bet        int // after any double
	Doubled    bool
	Credit     int // returned for the main bet

	InsuranceTaken  bool
	InsuranceStake  int
	InsuranceCredit int

	CashBefore int
	CashAfter  int
	Net        int

	Player HandView
	Dealer HandView

	// Aborted holds the cause when Outcome is OutcomeAborted
	Aborted string

	StartedAt time.Time
	EndedAt   time.Time
}

// Wagered is everything escrowed during the round
func (r RoundResult) Wagered() int { return r.Bet + r.InsuranceStake }

// Engine runs rounds between one player and the dealer. Hands are allocated
// once and reset after every round whatever the exit path.
type Engine struct {
	shoe     *deck.Shoe
	bankroll *Bankroll
	player   *Hand
	dealer   *Hand

	bus    EventBus
	logger *log.Logger
	clock  quartz.Clock

	rounds int
	phase  Phase
	cur    RoundResult
}

// NewEngine creates an engine dealing from shoe and paying into bankroll
func NewEngine(shoe *deck.Shoe, bankroll *Bankroll, opts ...Option) *Engine {
	o := applyOptions(opts)
	return &Engine{
		shoe:     shoe,
		bankroll: bankroll,
		player:   NewHand(Player),
		dealer:   NewHand(Dealer),
		bus:      o.bus,
		logger:   o.logger.WithPrefix("round"),
		clock:    o.clock,
		phase:    PhaseDone,
	}
}

// Phase returns the current position in the round
func (e *Engine) Phase() Phase { return e.phase }

// Rounds returns how many rounds have started
func (e *Engine) Rounds() int { return e.rounds }

// Bankroll returns the cash the engine settles into
func (e *Engine) Bankroll() *Bankroll { return e.bankroll }

// View returns the current table state with the hole card masked
func (e *Engine) View() TableView {
	return TableView{
		RoundID:        e.cur.ID,
		Phase:          e.phase,
		Cash:           e.bankroll.Cash(),
		Bet:            e.cur.Bet,
		InsuranceStake: e.cur.InsuranceStake,
		Player:         e.player.View(),
		Dealer:         e.dealer.View(),
		ShoeRemaining:  e.shoe.Remaining(),
	}
}

// PlayRound runs one round from betting to done. The returned error wraps
// ErrRoundAborted when the round could not be settled; the result is still
// returned and any escrowed stake is forfeited.
func (e *Engine) PlayRound(ctx context.Context, agent Agent) (RoundResult, error) {
	e.rounds++
	e.cur = RoundResult{
		ID:         newID(),
		Number:     e.rounds,
		CashBefore: e.bankroll.Cash(),
		StartedAt:  e.clock.Now(),
	}
	defer e.reset()

	e.phase = PhaseBetting
	if err := e.takeBet(ctx, agent); err != nil {
		return e.abort(err)
	}
	e.bus.Publish(RoundStartEvent{View: e.View(), timestamp: e.clock.Now()})

	e.phase = PhaseDealing
	if err := e.dealInitial(); err != nil {
		return e.abort(err)
	}

	if e.insuranceOffered() {
		e.phase = PhaseInsurance
		if err := e.offerInsurance(ctx, agent); err != nil {
			return e.abort(err)
		}
	}

	e.phase = PhaseNaturalCheck
	if outcome, credit, ok := e.checkNaturals(); ok {
		return e.settle(outcome, credit), nil
	}

	e.phase = PhasePlayerTurn
	quit, err := e.playerTurn(ctx, agent)
	if err != nil {
		return e.abort(err)
	}
	if quit {
		return e.finish(OutcomeQuit), nil
	}

	if !e.player.IsBusted() {
		e.phase = PhaseDealerTurn
		if err := e.dealerTurn(); err != nil {
			return e.abort(err)
		}
	}

	e.phase = PhaseSettlement
	e.revealHoleCard()
	outcome, credit := Settle(e.player, e.dealer, e.cur.Bet)
	return e.settle(outcome, credit), nil
}

func (e *Engine) takeBet(ctx context.Context, agent Agent) error {
	limits := LimitsFor(e.bankroll.Cash())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		bet, err := agent.PlaceBet(ctx, e.View(), limits)
		if err != nil {
			return fmt.Errorf("placing bet: %w", err)
		}
		if err := limits.Validate(bet); err != nil {
			e.reject("bet", bet, err)
			continue
		}
		if err := e.bankroll.Escrow(bet); err != nil {
			e.reject("bet", bet, err)
			continue
		}
		e.cur.InitialBet = bet
		e.cur.Bet = bet
		e.logger.Debug("Bet placed", "round", e.cur.ID, "bet", bet, "cash", e.bankroll.Cash())
		return nil
	}
}

// dealInitial deals player, dealer face down, player, dealer face up
func (e *Engine) dealInitial() error {
	steps := []struct {
		hand   *Hand
		hidden bool
	}{
		{e.player, false},
		{e.dealer, true},
		{e.player, false},
		{e.dealer, false},
	}
	for _, step := range steps {
		if err := e.dealTo(step.hand, step.hidden); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) dealTo(h *Hand, hidden bool) error {
	c, err := e.shoe.Deal()
	if err != nil {
		return err
	}
	if hidden {
		err = h.AddHiddenCard(c)
	} else {
		err = h.AddCard(c)
	}
	if err != nil {
		return err
	}

	ev := CardDealtEvent{View: e.View(), To: h.Owner(), Card: c, FaceDown: hidden, timestamp: e.clock.Now()}
	if hidden {
		ev.Card = deck.Card{}
	}
	e.bus.Publish(ev)
	return nil
}

func (e *Engine) insuranceOffered() bool {
	up, ok := e.dealer.UpCard()
	if !ok || !up.IsAce() {
		return false
	}
	return e.bankroll.CanCover(InsuranceCost(e.cur.Bet))
}

func (e *Engine) offerInsurance(ctx context.Context, agent Agent) error {
	cost := InsuranceCost(e.cur.Bet)
	take, err := agent.Insurance(ctx, e.View(), cost)
	if err != nil {
		return fmt.Errorf("insurance decision: %w", err)
	}

	dealerBJ := e.dealer.wouldBeNatural()
	if take {
		if err := e.bankroll.Escrow(cost); err != nil {
			return err
		}
		e.cur.InsuranceTaken = true
		e.cur.InsuranceStake = cost
		e.cur.InsuranceCredit = InsurancePayout(cost, dealerBJ)
		e.bankroll.Credit(e.cur.InsuranceCredit)
	}
	e.dealer.natural = dealerBJ

	e.logger.Debug("Insurance resolved", "round", e.cur.ID, "taken", take, "stake", e.cur.InsuranceStake,
		"credit", e.cur.InsuranceCredit)
	e.bus.Publish(InsuranceResolvedEvent{
		View:            e.View(),
		Taken:           take,
		Stake:           e.cur.InsuranceStake,
		Credit:          e.cur.InsuranceCredit,
		DealerBlackjack: dealerBJ && take,
		timestamp:       e.clock.Now(),
	})
	return nil
}

// checkNaturals peeks the dealer's two cards and ends the round on any natural
func (e *Engine) checkNaturals() (Outcome, int, bool) {
	playerBJ := e.player.IsNaturalBlackjack()
	dealerBJ := e.dealer.wouldBeNatural()
	e.player.natural = playerBJ
	e.dealer.natural = dealerBJ
	if !playerBJ && !dealerBJ {
		return 0, 0, false
	}

	e.revealHoleCard()
	outcome, credit := NaturalPayout(playerBJ, dealerBJ, e.cur.Bet)
	return outcome, credit, true
}

// ValidActions lists what the player may do with the current hand
func (e *Engine) ValidActions() []Action {
	if e.phase != PhasePlayerTurn || e.player.IsStopped() {
		return nil
	}
	actions := []Action{Hit, Stand}
	if e.canDouble() == nil {
		actions = append(actions, Double)
	}
	return append(actions, Quit)
}

func (e *Engine) canDouble() error {
	if e.player.Len() != 2 {
		return fmt.Errorf("%w: double only on the first two cards", ErrIllegalAction)
	}
	if e.bankroll.Cash() < e.cur.Bet {
		return fmt.Errorf("%w: doubling needs $%d, have $%d", ErrInsufficientFunds, e.cur.Bet, e.bankroll.Cash())
	}
	return nil
}

func (e *Engine) checkAction(a Action) error {
	switch a {
	case Hit, Stand, Quit:
		return nil
	case Double:
		return e.canDouble()
	case Insurance:
		return fmt.Errorf("%w: only before the player turn with a dealer ace", ErrInsuranceNotOffered)
	default:
		return fmt.Errorf("%w: %s", ErrIllegalAction, a)
	}
}

// playerTurn loops until the hand stops. It reports true when the player quits.
func (e *Engine) playerTurn(ctx context.Context, agent Agent) (bool, error) {
	for !e.player.IsStopped() {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		a, err := agent.Action(ctx, e.View(), e.ValidActions())
		if err != nil {
			return false, fmt.Errorf("player action: %w", err)
		}
		if err := e.checkAction(a); err != nil {
			e.reject(a.String(), e.cur.Bet, err)
			continue
		}

		switch a {
		case Quit:
			e.logger.Info("Player quit", "round", e.cur.ID)
			return true, nil
		case Stand:
			e.player.stopped = true
		case Hit:
			if err := e.dealTo(e.player, false); err != nil {
				return false, err
			}
			if e.player.IsBusted() || e.player.Len() >= CharlieCards {
				e.player.stopped = true
			}
		case Double:
			if err := e.dealTo(e.player, false); err != nil {
				return false, err
			}
			if err := e.bankroll.Escrow(e.cur.Bet); err != nil {
				return false, err
			}
			e.cur.Bet *= 2
			e.cur.Doubled = true
			e.player.doubled = true
			e.player.stopped = true
		}
		e.bus.Publish(PlayerActionEvent{View: e.View(), Action: a, timestamp: e.clock.Now()})
	}
	return false, nil
}

// dealerTurn reveals the hole card and draws to 17
func (e *Engine) dealerTurn() error {
	e.revealHoleCard()
	for e.dealer.Value() < DealerStandsOn {
		if err := e.dealTo(e.dealer, false); err != nil {
			return err
		}
	}
	e.dealer.stopped = true
	return nil
}

func (e *Engine) revealHoleCard() {
	c, ok := e.dealer.RevealHiddenCard()
	if !ok {
		return
	}
	e.bus.Publish(HoleCardRevealedEvent{View: e.View(), Card: c, timestamp: e.clock.Now()})
}

func (e *Engine) reject(decision string, amount int, reason error) {
	e.logger.Debug("Decision rejected", "round", e.cur.ID, "decision", decision, "amount", amount, "reason", reason)
	e.bus.Publish(ActionRejectedEvent{View: e.View(), Decision: decision, Amount: amount, Reason: reason, timestamp: e.clock.Now()})
}

func (e *Engine) settle(outcome Outcome, credit int) RoundResult {
	e.bankroll.Credit(credit)
	e.cur.Credit = credit
	return e.finish(outcome)
}

func (e *Engine) abort(cause error) (RoundResult, error) {
	e.cur.Aborted = cause.Error()
	e.logger.Warn("Round aborted", "round", e.cur.ID, "phase", e.phase, "err", cause)
	res := e.finish(OutcomeAborted)
	if errors.Is(cause, ErrRoundAborted) {
		return res, cause
	}
	return res, fmt.Errorf("%w: %w", ErrRoundAborted, cause)
}

func (e *Engine) finish(outcome Outcome) RoundResult {
	e.phase = PhaseDone
	e.cur.Outcome = outcome
	e.cur.CashAfter = e.bankroll.Cash()
	e.cur.Net = e.cur.CashAfter - e.cur.CashBefore
	e.cur.EndedAt = e.clock.Now()
	e.cur.Player = e.player.fullView()
	e.cur.Dealer = e.dealer.fullView()
	res := e.cur

	e.logger.Info("Round complete", "round", res.Number, "outcome", res.Outcome,
		"bet", res.Bet, "net", res.Net, "cash", res.CashAfter)
	if e.logger.GetLevel() <= log.DebugLevel {
		e.logger.Debug("Round result", "dump", litter.Sdump(res))
	}
	e.bus.Publish(RoundEndEvent{Result: res, Cash: res.CashAfter, timestamp: res.EndedAt})
	return res
}

func (e *Engine) reset() {
	e.player.Reset()
	e.dealer.Reset()
	e.phase = PhaseDone
	e.cur = RoundResult{}
}
