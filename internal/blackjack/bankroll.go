package blackjack

import "fmt"

// Bankroll is the player's cash. It never goes negative: stakes are escrowed
// when placed and credits are applied at settlement.
type Bankroll struct {
	cash int
}

// NewBankroll returns a bankroll holding cash
func NewBankroll(cash int) (*Bankroll, error) {
	if cash < 0 {
		return nil, fmt.Errorf("%w: negative cash %d", ErrInsufficientFunds, cash)
	}
	return &Bankroll{cash: cash}, nil
}

// Cash returns the current balance
func (b *Bankroll) Cash() int { return b.cash }

// CanCover reports whether amount could be escrowed
func (b *Bankroll) CanCover(amount int) bool {
	return amount > 0 && amount <= b.cash
}

// Escrow removes a stake from the balance
func (b *Bankroll) Escrow(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: stake must be positive, got %d", ErrInvalidBet, amount)
	}
	if amount > b.cash {
		return fmt.Errorf("%w: stake %d exceeds cash %d", ErrInsufficientFunds, amount, b.cash)
	}
	b.cash -= amount
	return nil
}

// Credit adds a settlement payout
func (b *Bankroll) Credit(amount int) {
	if amount > 0 {
		b.cash += amount
	}
}

// ApplyDelta adjusts the balance by a signed amount, refusing to go below zero
func (b *Bankroll) ApplyDelta(delta int) error {
	if b.cash+delta < 0 {
		return fmt.Errorf("%w: delta %d exceeds cash %d", ErrInsufficientFunds, delta, b.cash)
	}
	b.cash += delta
	return nil
}
