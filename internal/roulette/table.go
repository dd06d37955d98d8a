package roulette

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

const (
	// MaxBets is the number of bets that may be on the cloth at once
	MaxBets = 10
	// HistorySize is the number of winning numbers remembered
	HistorySize = 15
)

// BetResult is the settlement of one bet
type BetResult struct {
	Bet    Bet
	Payout int
}

// SpinResult is the settlement of a spin
type SpinResult struct {
	Number int
	Color  Color
	Bets   []BetResult
	Staked int
	Payout int
	Chips  int
}

// Net is the chip change caused by the spin
func (r SpinResult) Net() int { return r.Payout - r.Staked }

// Table holds the player's chips, the bets on the cloth and recent numbers.
// Chips are taken when a bet is placed.
type Table struct {
	chips   int
	bets    []Bet
	history []int
	spinner Spinner
	logger  *log.Logger
}

// TableOption configures a Table
type TableOption func(*Table)

// WithSpinner replaces the random wheel
func WithSpinner(s Spinner) TableOption {
	return func(t *Table) { t.spinner = s }
}

// WithLogger sets the table logger
func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) { t.logger = logger.WithPrefix("roulette") }
}

// NewTable creates a table with the given chips
func NewTable(chips int, opts ...TableOption) (*Table, error) {
	if chips < 0 {
		return nil, fmt.Errorf("%w: negative chips %d", ErrInsufficientChips, chips)
	}
	t := &Table{
		chips:  chips,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.spinner == nil {
		t.spinner = NewWheel(nil)
	}
	return t, nil
}

// Chips returns the chips not on the cloth
func (t *Table) Chips() int { return t.chips }

// Bets returns a copy of the bets on the cloth
func (t *Table) Bets() []Bet {
	out := make([]Bet, len(t.bets))
	copy(out, t.bets)
	return out
}

// History returns the last winning numbers, oldest first
func (t *Table) History() []int {
	out := make([]int, len(t.history))
	copy(out, t.history)
	return out
}

// Place validates b and takes its chips
func (t *Table) Place(b Bet) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if len(t.bets) >= MaxBets {
		return fmt.Errorf("%w: at most %d", ErrTooManyBets, MaxBets)
	}
	if b.Amount > t.chips {
		return fmt.Errorf("%w: bet %d with %d chips", ErrInsufficientChips, b.Amount, t.chips)
	}
	t.chips -= b.Amount
	t.bets = append(t.bets, b)
	t.logger.Debug("Bet placed", "bet", b.String(), "chips", t.chips)
	return nil
}

// Clear takes every bet back and returns the chips refunded
func (t *Table) Clear() int {
	refund := 0
	for _, b := range t.bets {
		refund += b.Amount
	}
	t.chips += refund
	t.bets = t.bets[:0]
	return refund
}

// Spin spins the wheel and settles every bet on the cloth
func (t *Table) Spin() (SpinResult, error) {
	if len(t.bets) == 0 {
		return SpinResult{}, ErrNoBets
	}
	n := t.spinner.Spin()
	if n < 0 || n >= Pockets {
		return SpinResult{}, fmt.Errorf("spinner returned %d", n)
	}
	return t.settle(n), nil
}

func (t *Table) settle(n int) SpinResult {
	res := SpinResult{Number: n, Color: ColorOf(n), Bets: make([]BetResult, len(t.bets))}
	for i, b := range t.bets {
		p := b.Payout(n)
		res.Bets[i] = BetResult{Bet: b, Payout: p}
		res.Staked += b.Amount
		res.Payout += p
	}
	t.chips += res.Payout
	t.bets = t.bets[:0]
	res.Chips = t.chips

	t.history = append(t.history, n)
	if len(t.history) > HistorySize {
		t.history = t.history[len(t.history)-HistorySize:]
	}

	t.logger.Info("Spin settled", "number", n, "color", res.Color, "staked", res.Staked,
		"payout", res.Payout, "chips", res.Chips)
	return res
}
