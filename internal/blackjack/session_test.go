package blackjack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func scriptedShoe(t *testing.T, cards string, opts ...deck.ShoeOption) *deck.Shoe {
	t.Helper()
	shoe, err := deck.NewShoeFromCards(deck.MustParseCards(cards), 1, opts...)
	require.NoError(t, err)
	return shoe
}

func TestSessionConfigValidate(t *testing.T) {
	assert.NoError(t, SessionConfig{Decks: 1, StartingCash: 500}.Validate())
	assert.ErrorIs(t, SessionConfig{Decks: 0, StartingCash: 500}.Validate(), deck.ErrInvalidDeckCount)
	assert.ErrorIs(t, SessionConfig{Decks: 9, StartingCash: 500}.Validate(), deck.ErrInvalidDeckCount)
	assert.ErrorIs(t, SessionConfig{Decks: 2, StartingCash: 50}.Validate(), ErrInvalidStartingCash)
	assert.ErrorIs(t, SessionConfig{Decks: 2, StartingCash: 550}.Validate(), ErrInvalidStartingCash)
	assert.Error(t, SessionConfig{Decks: 2, StartingCash: 500, MaxRounds: -1}.Validate())

	_, err := NewSession(SessionConfig{Decks: 1, StartingCash: 500}, nil)
	assert.Error(t, err)
}

func TestSessionEndsWhenCashExhausted(t *testing.T) {
	agent := &MockAgent{Bets: []int{100}, Continues: []bool{true}}
	s, err := NewSession(SessionConfig{Decks: 1, StartingCash: 100}, agent,
		WithShoe(scriptedShoe(t, "Ts7h6dKc")))
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, EndCashExhausted, res.Reason)
	assert.Equal(t, 1, res.RoundsPlayed)
	assert.Equal(t, 0, res.FinalCash)
	assert.Equal(t, -100, res.Net())
	assert.Equal(t, 0, agent.continues, "no continue prompt once cash is gone")
}

func TestSessionPlayerStops(t *testing.T) {
	agent := &MockAgent{Continues: []bool{true, false}}
	s, err := NewSession(SessionConfig{Decks: 1, StartingCash: 500}, agent,
		WithShoe(scriptedShoe(t, "Ts7h9dKc Ts7h7dKc")))
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, EndPlayerStopped, res.Reason)
	require.Len(t, res.Rounds, 2)
	assert.Equal(t, OutcomePlayerWin, res.Rounds[0].Outcome)
	assert.Equal(t, OutcomePush, res.Rounds[1].Outcome)
	assert.Equal(t, 525, res.FinalCash)
}

func TestSessionPlayerQuits(t *testing.T) {
	agent := &MockAgent{Actions: []Action{Quit}, Continues: []bool{true}}
	s, err := NewSession(SessionConfig{Decks: 1, StartingCash: 500}, agent,
		WithShoe(scriptedShoe(t, "Ts7h6dKc")))
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EndPlayerQuit, res.Reason)
	assert.Equal(t, 475, res.FinalCash)
	assert.Equal(t, 0, agent.continues)
}

func TestSessionDealerElevenCardHand(t *testing.T) {
	agent := &MockAgent{Continues: []bool{false}}
	s, err := NewSession(SessionConfig{Decks: 1, StartingCash: 500}, agent,
		WithShoe(scriptedShoe(t, "Ts2s9d2h 2d2c2s2h AsAdAhAc Kc")))
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EndPlayerStopped, res.Reason)
	require.Len(t, res.Rounds, 1)
	assert.Equal(t, OutcomeDealerBust, res.Rounds[0].Outcome)
	assert.Len(t, res.Rounds[0].Dealer.Cards, MaxCards)
	assert.Equal(t, 525, res.FinalCash)
}

func TestSessionStopsWhenShoeCannotRefill(t *testing.T) {
	boom := errors.New("allocation failed")
	shoe := scriptedShoe(t, "Ts7h", deck.WithCardSource(func(int) ([]deck.Card, error) { return nil, boom }))
	s, err := NewSession(SessionConfig{Decks: 1, StartingCash: 500}, &MockAgent{}, WithShoe(shoe))
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, deck.ErrShoeExhausted)
	assert.Equal(t, EndError, res.Reason)
	assert.Equal(t, 475, res.FinalCash)
}

func TestSessionDurationUsesClock(t *testing.T) {
	clock := quartz.NewMock(t)
	agent := &MockAgent{OnContinue: func() { clock.Advance(90 * time.Second) }}
	s, err := NewSession(SessionConfig{Decks: 1, StartingCash: 500}, agent,
		WithClock(clock), WithShoe(scriptedShoe(t, "Ts7h9dKc")))
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, res.Duration)
}

func TestSessionRoundLimitWithBasicStrategy(t *testing.T) {
	bus := NewEventBus()
	reshuffles := 0
	bus.Subscribe(SubscriberFunc(func(ev GameEvent) {
		if ev.EventType() == EventTypeShoeReshuffled {
			reshuffles++
		}
	}))

	s, err := NewSession(SessionConfig{Decks: 2, StartingCash: 1000, MaxRounds: 200},
		NewBasicStrategyAgent(), WithEventBus(bus))
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, []EndReason{EndRoundLimit, EndCashExhausted}, res.Reason)
	assert.LessOrEqual(t, res.RoundsPlayed, 200)
	assert.Equal(t, reshuffles, res.Reshuffles)

	for _, r := range res.Rounds {
		assert.GreaterOrEqual(t, r.CashAfter, 0)
		assert.Equal(t, r.CashBefore-r.Wagered()+r.Credit+r.InsuranceCredit, r.CashAfter,
			"round %d ledger", r.Number)
		assert.LessOrEqual(t, len(r.Player.Cards), CharlieCards)
	}
	if res.RoundsPlayed == 200 {
		assert.Positive(t, res.Reshuffles, "200 rounds exhaust a two deck shoe")
	}
}

func TestSessionWithoutHistory(t *testing.T) {
	s, err := NewSession(SessionConfig{Decks: 1, StartingCash: 500, MaxRounds: 5},
		NewBasicStrategyAgent(), WithoutHistory())
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Rounds)
	assert.Positive(t, res.RoundsPlayed)
}
