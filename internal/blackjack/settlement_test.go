package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name    string
		player  string
		dealer  string
		outcome Outcome
		credit  int
	}{
		{"player bust beats dealer bust", "TsKd5h", "Ts6dKh", OutcomePlayerBust, 0},
		{"dealer bust", "Ts8d", "Ts6dKh", OutcomeDealerBust, 20},
		{"dealer bust outranks charlie", "2s2d2h2c3s3d", "Ts6dKh", OutcomeDealerBust, 20},
		{"charlie", "2s2d2h2c3s3d", "TsKd", OutcomeCharlie, 30},
		{"higher total", "TsKd", "Ts9d", OutcomePlayerWin, 20},
		{"push", "Ts7d", "8s9d", OutcomePush, 10},
		{"dealer higher", "Ts7d", "Ts9d", OutcomeDealerWin, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, credit := Settle(hand(t, Player, tt.player), hand(t, Dealer, tt.dealer), 10)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.credit, credit)
		})
	}
}

func TestNaturalPayout(t *testing.T) {
	outcome, credit := NaturalPayout(true, true, 20)
	assert.Equal(t, OutcomeBlackjackPush, outcome)
	assert.Equal(t, 20, credit)

	outcome, credit = NaturalPayout(true, false, 20)
	assert.Equal(t, OutcomeBlackjack, outcome)
	assert.Equal(t, 50, credit)

	_, credit = NaturalPayout(true, false, 25)
	assert.Equal(t, 62, credit, "3:2 rounds down")

	outcome, credit = NaturalPayout(false, true, 20)
	assert.Equal(t, OutcomeDealerBlackjack, outcome)
	assert.Equal(t, 0, credit)
}

func TestInsurancePayout(t *testing.T) {
	assert.Equal(t, 10, InsuranceCost(20))
	assert.Equal(t, 2, InsuranceCost(5))
	assert.Equal(t, 20, InsurancePayout(10, true))
	assert.Equal(t, 0, InsurancePayout(10, false))
}

func TestOutcomeClassification(t *testing.T) {
	assert.True(t, OutcomeCharlie.PlayerWon())
	assert.True(t, OutcomeBlackjack.PlayerWon())
	assert.False(t, OutcomePush.PlayerWon())
	assert.True(t, OutcomeBlackjackPush.IsPush())
	assert.Equal(t, "six_card_charlie", OutcomeCharlie.String())
}
