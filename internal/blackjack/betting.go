package blackjack

import "fmt"

// Table limits
const (
	MinStartingCash     = 100
	MaxStartingCash     = 10000
	StartingCashStep    = 100
	DefaultStartingCash = 500

	MinBetIncrement = 5
	// BetIncrementPercent of current cash is the bet step
	BetIncrementPercent = 5
)

// BetLimits bounds the bet for one round
type BetLimits struct {
	Min  int
	Max  int
	Step int
}

// LimitsFor derives the bet limits from current cash. The step is 5% of cash
// with a floor of 5, the minimum bet is one step and the maximum is all cash.
// A bankroll smaller than one step may only bet everything.
func LimitsFor(cash int) BetLimits {
	step := max(cash*BetIncrementPercent/100, MinBetIncrement)
	return BetLimits{
		Min:  min(step, cash),
		Max:  cash,
		Step: step,
	}
}

// Validate checks a proposed bet against the limits
func (l BetLimits) Validate(bet int) error {
	if bet < l.Min || bet > l.Max || bet <= 0 {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBet, bet, l.Min, l.Max)
	}
	return nil
}

// ValidateStartingCash checks the starting cash range and step
func ValidateStartingCash(cash int) error {
	if cash < MinStartingCash || cash > MaxStartingCash {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidStartingCash, cash, MinStartingCash, MaxStartingCash)
	}
	if cash%StartingCashStep != 0 {
		return fmt.Errorf("%w: %d is not a multiple of %d", ErrInvalidStartingCash, cash, StartingCashStep)
	}
	return nil
}

// Selector is a bounded value adjusted in fixed steps, used by the input
// layer for bets, starting cash and deck count.
type Selector struct {
	value int
	min   int
	max   int
	step  int
}

// NewSelector returns a selector clamped to [lo, hi]
func NewSelector(value, lo, hi, step int) *Selector {
	s := &Selector{min: lo, max: max(lo, hi), step: max(step, 1)}
	s.Set(value)
	return s
}

// NewBetSelector starts at the minimum bet for cash
func NewBetSelector(cash int) *Selector {
	l := LimitsFor(cash)
	return NewSelector(l.Min, l.Min, l.Max, l.Step)
}

// NewStartingCashSelector starts at the default starting cash
func NewStartingCashSelector() *Selector {
	return NewSelector(DefaultStartingCash, MinStartingCash, MaxStartingCash, StartingCashStep)
}

// NewDeckSelector starts at a single deck
func NewDeckSelector(lo, hi int) *Selector {
	return NewSelector(lo, lo, hi, 1)
}

// Up raises the value by one step, capped at the maximum
func (s *Selector) Up() int {
	s.Set(s.value + s.step)
	return s.value
}

// Down lowers the value by one step, floored at the minimum
func (s *Selector) Down() int {
	s.Set(s.value - s.step)
	return s.value
}

// Set clamps v into range
func (s *Selector) Set(v int) {
	s.value = min(max(v, s.min), s.max)
}

func (s *Selector) Value() int { return s.value }
func (s *Selector) Min() int   { return s.min }
func (s *Selector) Max() int   { return s.max }
func (s *Selector) Step() int  { return s.step }
