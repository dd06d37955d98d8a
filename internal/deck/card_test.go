package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "blackjack",
			input: "AsKh",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Hearts},
			},
		},
		{
			name:  "low cards with spaces",
			input: "2c 3d 9h",
			expected: []Card{
				{Rank: Two, Suit: Clubs},
				{Rank: Three, Suit: Diamonds},
				{Rank: Nine, Suit: Hearts},
			},
		},
		{
			name:  "case insensitive",
			input: "tSjCqd",
			expected: []Card{
				{Rank: Ten, Suit: Spades},
				{Rank: Jack, Suit: Clubs},
				{Rank: Queen, Suit: Diamonds},
			},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AsKx", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
		{name: "empty string", input: "", expected: []Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCardValue(t *testing.T) {
	tests := []struct {
		card  string
		value int
		ace   bool
	}{
		{"As", 11, true},
		{"2h", 2, false},
		{"9c", 9, false},
		{"Td", 10, false},
		{"Js", 10, false},
		{"Qh", 10, false},
		{"Kc", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			c := MustParseCards(tt.card)[0]
			assert.Equal(t, tt.value, c.Value())
			assert.Equal(t, tt.ace, c.IsAce())
		})
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", NewCard(Ace, Spades).String())
	assert.Equal(t, "T♥", NewCard(Ten, Hearts).String())
	assert.Equal(t, "Queen", Queen.Name())
	assert.Equal(t, "D", Diamonds.Letter())
	assert.True(t, NewCard(Two, Diamonds).IsRed())
	assert.False(t, NewCard(Two, Clubs).IsRed())
	assert.False(t, Card{}.IsValid())
}
