package blackjack

import (
	"context"
	"slices"
)

// BasicStrategyAgent plays a simplified basic strategy at the minimum bet.
// It never takes insurance and always continues.
type BasicStrategyAgent struct{}

// NewBasicStrategyAgent returns the strategy agent used by the simulator
func NewBasicStrategyAgent() *BasicStrategyAgent {
	return &BasicStrategyAgent{}
}

func (a *BasicStrategyAgent) PlaceBet(_ context.Context, _ TableView, limits BetLimits) (int, error) {
	return limits.Min, nil
}

func (a *BasicStrategyAgent) Insurance(context.Context, TableView, int) (bool, error) {
	return false, nil
}

func (a *BasicStrategyAgent) Continue(context.Context, TableView) (bool, error) {
	return true, nil
}

func (a *BasicStrategyAgent) Action(_ context.Context, view TableView, valid []Action) (Action, error) {
	return Decide(view.Player.Value, view.Player.Soft, dealerUpValue(view), slices.Contains(valid, Double)), nil
}

// Decide returns the strategy action for a player total against the dealer up card value
func Decide(total int, soft bool, dealerUp int, canDouble bool) Action {
	if soft {
		if total >= 19 {
			return Stand
		}
		return Hit
	}
	switch {
	case (total == 10 || total == 11) && canDouble:
		return Double
	case total >= 17:
		return Stand
	case total >= 12 && dealerUp >= 2 && dealerUp <= 6:
		return Stand
	default:
		return Hit
	}
}

func dealerUpValue(view TableView) int {
	up, ok := view.Dealer.UpCard()
	if !ok {
		return 0
	}
	return up.Value()
}
