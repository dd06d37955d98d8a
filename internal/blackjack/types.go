package blackjack

// Participant identifies who holds a hand
type Participant int

const (
	Player Participant = iota
	Dealer
)

func (p Participant) String() string {
	switch p {
	case Player:
		return "Player"
	case Dealer:
		return "Dealer"
	default:
		return "Unknown"
	}
}

// Action is a player decision during the player turn
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Insurance
	Quit
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Insurance:
		return "insurance"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// ParseAction maps typed input and its short aliases onto an Action
func ParseAction(s string) (Action, bool) {
	switch s {
	case "hit", "h":
		return Hit, true
	case "stand", "s":
		return Stand, true
	case "double", "d", "dd":
		return Double, true
	case "insurance", "i", "ins":
		return Insurance, true
	case "quit", "q", "exit":
		return Quit, true
	default:
		return 0, false
	}
}

// Phase is the round state machine position
type Phase int

const (
	PhaseBetting Phase = iota
	PhaseDealing
	PhaseInsurance
	PhaseNaturalCheck
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseSettlement
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "Betting"
	case PhaseDealing:
		return "Dealing"
	case PhaseInsurance:
		return "Insurance"
	case PhaseNaturalCheck:
		return "Natural check"
	case PhasePlayerTurn:
		return "Player turn"
	case PhaseDealerTurn:
		return "Dealer turn"
	case PhaseSettlement:
		return "Settlement"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Outcome is how a round finished from the player's point of view
type Outcome int

const (
	OutcomePlayerBust Outcome = iota
	OutcomeDealerBust
	OutcomeCharlie
	OutcomePlayerWin
	OutcomePush
	OutcomeDealerWin
	OutcomeBlackjack
	OutcomeDealerBlackjack
	OutcomeBlackjackPush
	OutcomeQuit
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayerBust:
		return "player_bust"
	case OutcomeDealerBust:
		return "dealer_bust"
	case OutcomeCharlie:
		return "six_card_charlie"
	case OutcomePlayerWin:
		return "player_win"
	case OutcomePush:
		return "push"
	case OutcomeDealerWin:
		return "dealer_win"
	case OutcomeBlackjack:
		return "blackjack"
	case OutcomeDealerBlackjack:
		return "dealer_blackjack"
	case OutcomeBlackjackPush:
		return "blackjack_push"
	case OutcomeQuit:
		return "quit"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// PlayerWon reports whether the outcome credits more than the stake
func (o Outcome) PlayerWon() bool {
	switch o {
	case OutcomeDealerBust, OutcomeCharlie, OutcomePlayerWin, OutcomeBlackjack:
		return true
	}
	return false
}

// IsPush reports whether the stake was returned without profit
func (o Outcome) IsPush() bool {
	return o == OutcomePush || o == OutcomeBlackjackPush
}
