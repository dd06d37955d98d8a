// Package blackjack implements a single-player blackjack table against a dealer.
//
// A Session owns a shoe, a bankroll and an Engine. Each round the Engine walks the
// phases Betting, Dealing, Insurance, Natural check, Player turn, Dealer turn and
// Settlement, asking an Agent for every decision and publishing events describing
// each mutation.
//
// # Basic Usage
//
//	agent := blackjack.NewBasicStrategyAgent()
//	s, err := blackjack.NewSession(blackjack.SessionConfig{Decks: 6, StartingCash: 500}, agent,
//	    blackjack.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	result, err := s.Run(ctx)
//
// # House rules
//
//   - Dealer stands on all 17s.
//   - Natural blackjack pays 3:2; insurance costs half the bet and returns twice the stake.
//   - Double down on any first two cards while cash covers the bet.
//   - An unbusted six card hand (6-card Charlie) wins and pays 2:1 unless the dealer busts.
//
// # Deterministic Testing
//
// Scripted shoes make the deal order exact:
//
//	shoe, _ := deck.NewShoeFromCards(deck.MustParseCards("Ts9h7dKc"), 1)
//	e := blackjack.NewEngine(shoe, bankroll, blackjack.WithEventBus(bus))
package blackjack
