package blackjack

import (
	"context"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

// MockAgent follows a predetermined script. When a script runs out it bets
// the minimum, declines insurance, stands and stops.
type MockAgent struct {
	Bets      []int
	Insure    []bool
	Actions   []Action
	Continues []bool

	bets, insure, actions, continues int

	InsuranceOffers []int
	ValidSeen       [][]Action
	OnContinue      func()
}

func (m *MockAgent) PlaceBet(_ context.Context, _ TableView, limits BetLimits) (int, error) {
	if m.bets >= len(m.Bets) {
		return limits.Min, nil
	}
	bet := m.Bets[m.bets]
	m.bets++
	return bet, nil
}

func (m *MockAgent) Insurance(_ context.Context, _ TableView, cost int) (bool, error) {
	m.InsuranceOffers = append(m.InsuranceOffers, cost)
	if m.insure >= len(m.Insure) {
		return false, nil
	}
	take := m.Insure[m.insure]
	m.insure++
	return take, nil
}

func (m *MockAgent) Action(_ context.Context, _ TableView, valid []Action) (Action, error) {
	m.ValidSeen = append(m.ValidSeen, valid)
	if m.actions >= len(m.Actions) {
		return Stand, nil
	}
	a := m.Actions[m.actions]
	m.actions++
	return a, nil
}

func (m *MockAgent) Continue(context.Context, TableView) (bool, error) {
	if m.OnContinue != nil {
		m.OnContinue()
	}
	if m.continues >= len(m.Continues) {
		return false, nil
	}
	more := m.Continues[m.continues]
	m.continues++
	return more, nil
}

// newTestEngine returns an engine dealing cards in order, cards[0] first
func newTestEngine(t *testing.T, cash int, cards string) (*Engine, *EventRecorder) {
	t.Helper()
	shoe, err := deck.NewShoeFromCards(deck.MustParseCards(cards), 1, deck.WithClock(quartz.NewMock(t)))
	require.NoError(t, err)
	bankroll, err := NewBankroll(cash)
	require.NoError(t, err)

	bus := NewEventBus()
	rec := &EventRecorder{}
	bus.Subscribe(rec)
	return NewEngine(shoe, bankroll, WithEventBus(bus), WithClock(quartz.NewMock(t))), rec
}

func hand(t *testing.T, owner Participant, cards string) *Hand {
	t.Helper()
	h := NewHand(owner)
	for _, c := range deck.MustParseCards(cards) {
		require.NoError(t, h.AddCard(c))
	}
	return h
}
