package blackjack

import "errors"

var (
	// ErrInvalidBet is returned when a bet falls outside the table limits
	ErrInvalidBet = errors.New("invalid bet")
	// ErrInsufficientFunds is returned when the bankroll cannot cover an escrow
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrIllegalAction is returned when an action is not available at this point
	ErrIllegalAction = errors.New("illegal action")
	// ErrInsuranceNotOffered is returned when insurance is requested without a dealer ace
	ErrInsuranceNotOffered = errors.New("insurance not offered")
	// ErrHandFull is returned when a hand has no room for another card
	ErrHandFull = errors.New("hand is full")
	// ErrRoundAborted wraps the cause of a round ending without settlement
	ErrRoundAborted = errors.New("round aborted")
	// ErrInvalidStartingCash is returned for starting cash outside the allowed range
	ErrInvalidStartingCash = errors.New("invalid starting cash")
)
