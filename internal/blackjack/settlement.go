package blackjack

// Settle decides a round that reached settlement without a natural and returns
// the amount credited back for a bet already escrowed. Checks run in order:
// player bust, dealer bust, 6-card Charlie, then the higher total.
func Settle(player, dealer *Hand, bet int) (Outcome, int) {
	switch {
	case player.IsBusted():
		return OutcomePlayerBust, 0
	case dealer.IsBusted():
		return OutcomeDealerBust, bet * 2
	case player.IsCharlie():
		return OutcomeCharlie, bet * 3
	case player.Value() > dealer.Value():
		return OutcomePlayerWin, bet * 2
	case player.Value() == dealer.Value():
		return OutcomePush, bet
	default:
		return OutcomeDealerWin, 0
	}
}

// NaturalPayout settles a round ended by a natural blackjack. A player natural
// returns the stake plus 3:2, rounded down.
func NaturalPayout(playerNatural, dealerNatural bool, bet int) (Outcome, int) {
	switch {
	case playerNatural && dealerNatural:
		return OutcomeBlackjackPush, bet
	case playerNatural:
		return OutcomeBlackjack, bet + bet*3/2
	default:
		return OutcomeDealerBlackjack, 0
	}
}

// InsuranceCost is half the main bet
func InsuranceCost(bet int) int { return bet / 2 }

// InsurancePayout returns the credit for an escrowed insurance stake
func InsurancePayout(stake int, dealerBlackjack bool) int {
	if dealerBlackjack {
		return stake * 2
	}
	return 0
}
