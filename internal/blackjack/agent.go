package blackjack

import "context"

// TableView is the read-only state of the table handed to agents and
// published with every event. The dealer's hole card is masked until revealed.
type TableView struct {
	RoundID        string
	Phase          Phase
	Cash           int
	Bet            int
	InsuranceStake int
	Player         HandView
	Dealer         HandView
	ShoeRemaining  int
}

// CanDouble reports whether doubling is legal for this view
func (v TableView) CanDouble() bool {
	return v.Phase == PhasePlayerTurn && len(v.Player.Cards) == 2 && v.Bet > 0 && v.Cash >= v.Bet
}

// Agent represents any entity (human or strategy) that decides for the player.
// Agents receive immutable state and return decisions; the engine validates
// every decision and asks again when it is not legal.
type Agent interface {
	// PlaceBet returns the stake for the next round
	PlaceBet(ctx context.Context, view TableView, limits BetLimits) (int, error)
	// Insurance is asked only when the dealer shows an ace
	Insurance(ctx context.Context, view TableView, cost int) (bool, error)
	// Action returns the next player decision
	Action(ctx context.Context, view TableView, valid []Action) (Action, error)
	// Continue is asked after every settled round while cash remains
	Continue(ctx context.Context, view TableView) (bool, error)
}
