package roulette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidBet        = errors.New("invalid bet")
	ErrTooManyBets       = errors.New("too many bets")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrNoBets            = errors.New("no bets placed")
)

// BetKind is the closed set of bets the table accepts
type BetKind int

const (
	Straight BetKind = iota
	RedBet
	BlackBet
	Even
	Odd
	Low
	High
	Dozen1
	Dozen2
	Dozen3
	Column1
	Column2
	Column3
	numBetKinds
)

var betNames = [numBetKinds]string{
	"straight", "red", "black", "even", "odd", "low", "high",
	"dozen1", "dozen2", "dozen3", "column1", "column2", "column3",
}

// payouts is the total returned per chip on a win, stake included
var payouts = [numBetKinds]int{
	Straight: 36,
	RedBet:   2,
	BlackBet: 2,
	Even:     2,
	Odd:      2,
	Low:      2,
	High:     2,
	Dozen1:   3,
	Dozen2:   3,
	Dozen3:   3,
	Column1:  3,
	Column2:  3,
	Column3:  3,
}

func (k BetKind) String() string {
	if k < 0 || k >= numBetKinds {
		return "unknown"
	}
	return betNames[k]
}

// Multiplier is the total return per chip staked when the bet wins
func (k BetKind) Multiplier() int {
	if k < 0 || k >= numBetKinds {
		return 0
	}
	return payouts[k]
}

// covers reports whether kind k wins on number n. Zero only pays a straight bet on zero.
func (k BetKind) covers(n, number int) bool {
	if k == Straight {
		return n == number
	}
	if n <= 0 || n >= Pockets {
		return false
	}
	switch k {
	case RedBet:
		return ColorOf(n) == Red
	case BlackBet:
		return ColorOf(n) == Black
	case Even:
		return n%2 == 0
	case Odd:
		return n%2 == 1
	case Low:
		return n <= 18
	case High:
		return n >= 19
	case Dozen1, Dozen2, Dozen3:
		return (n-1)/12 == int(k-Dozen1)
	case Column1, Column2, Column3:
		return (n-1)%3 == int(k-Column1)
	}
	return false
}

var kindAliases = map[string]BetKind{
	"1st12": Dozen1, "2nd12": Dozen2, "3rd12": Dozen3,
	"1l": Column1, "2l": Column2, "3l": Column3,
	"number": Straight,
}

// ParseKind maps a bet name or alias onto a BetKind
func ParseKind(s string) (BetKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range betNames {
		if name == s {
			return BetKind(k), true
		}
	}
	k, ok := kindAliases[s]
	return k, ok
}

// Bet is a stake on one kind. Number is only meaningful for Straight.
type Bet struct {
	Kind   BetKind
	Number int
	Amount int
}

// Validate checks the amount and the straight number
func (b Bet) Validate() error {
	if b.Kind < 0 || b.Kind >= numBetKinds {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidBet, b.Kind)
	}
	if b.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidBet, b.Amount)
	}
	if b.Kind == Straight && (b.Number < 0 || b.Number >= Pockets) {
		return fmt.Errorf("%w: straight number %d not in [0, %d]", ErrInvalidBet, b.Number, Pockets-1)
	}
	return nil
}

// Wins reports whether the bet pays on number n
func (b Bet) Wins(n int) bool { return b.Kind.covers(n, b.Number) }

// Payout is the total returned for number n, 0 when the bet loses
func (b Bet) Payout(n int) int {
	if !b.Wins(n) {
		return 0
	}
	return b.Amount * b.Kind.Multiplier()
}

func (b Bet) String() string {
	if b.Kind == Straight {
		return fmt.Sprintf("straight %d $%d", b.Number, b.Amount)
	}
	return fmt.Sprintf("%s $%d", b.Kind, b.Amount)
}

// ParseBet reads "kind:amount" or "straight:number:amount", e.g. "red:10" or
// "straight:17:5".
func ParseBet(s string) (Bet, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	kind, ok := ParseKind(parts[0])
	if !ok {
		return Bet{}, fmt.Errorf("%w: unknown bet kind %q", ErrInvalidBet, parts[0])
	}

	want := 2
	if kind == Straight {
		want = 3
	}
	if len(parts) != want {
		if kind == Straight {
			return Bet{}, fmt.Errorf("%w: %q, want straight:number:amount", ErrInvalidBet, s)
		}
		return Bet{}, fmt.Errorf("%w: %q, want %s:amount", ErrInvalidBet, s, kind)
	}

	b := Bet{Kind: kind}
	var err error
	if kind == Straight {
		if b.Number, err = strconv.Atoi(parts[1]); err != nil {
			return Bet{}, fmt.Errorf("%w: number %q", ErrInvalidBet, parts[1])
		}
	}
	if b.Amount, err = strconv.Atoi(parts[want-1]); err != nil {
		return Bet{}, fmt.Errorf("%w: amount %q", ErrInvalidBet, parts[want-1])
	}
	if err := b.Validate(); err != nil {
		return Bet{}, err
	}
	return b, nil
}
