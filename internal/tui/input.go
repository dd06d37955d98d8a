package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/blackjack"
)

// parseBet reads a typed stake: a number, optionally prefixed with $, or one
// of min, max and all.
func parseBet(input string, limits blackjack.BetLimits) (int, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(input)), "$")
	switch s {
	case "":
		return 0, fmt.Errorf("enter a bet between $%d and $%d", limits.Min, limits.Max)
	case "min":
		return limits.Min, nil
	case "max", "all", "allin":
		return limits.Max, nil
	}
	bet, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a bet amount", input)
	}
	return bet, nil
}

// parseYesNo reads a yes/no answer, returning def for empty input
func parseYesNo(input string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("answer y or n, not %q", input)
	}
}

// parseAction reads a player action. Legality is left to the table so that a
// refused action shows up as a rejection in the log.
func parseAction(input string, valid []blackjack.Action) (blackjack.Action, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	a, ok := blackjack.ParseAction(s)
	if !ok {
		return 0, fmt.Errorf("unknown action %q, try %s", s, actionList(valid))
	}
	return a, nil
}

func actionList(valid []blackjack.Action) string {
	names := make([]string, len(valid))
	for i, a := range valid {
		names[i] = a.String()
	}
	return strings.Join(names, ", ")
}

// parseNumber reads a whole number, optionally prefixed with $
func parseNumber(input, what string) (int, error) {
	s := strings.TrimPrefix(strings.TrimSpace(input), "$")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid %s", strings.TrimSpace(input), what)
	}
	return n, nil
}
