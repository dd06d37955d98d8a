package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/blackjack/internal/blackjack"
)

// EventFormatter turns table events into log lines
type EventFormatter struct {
	r *Renderer
}

// NewEventFormatter creates a formatter drawing cards with r
func NewEventFormatter(r *Renderer) *EventFormatter {
	if r == nil {
		r = Plain()
	}
	return &EventFormatter{r: r}
}

// Renderer returns the card renderer used by the formatter
func (ef *EventFormatter) Renderer() *Renderer { return ef.r }

// Format renders any table event. Unknown events render as their type.
func (ef *EventFormatter) Format(event blackjack.GameEvent) string {
	switch e := event.(type) {
	case blackjack.RoundStartEvent:
		return ef.FormatRoundStart(e)
	case blackjack.CardDealtEvent:
		return ef.FormatCardDealt(e)
	case blackjack.InsuranceResolvedEvent:
		return ef.FormatInsurance(e)
	case blackjack.ActionRejectedEvent:
		return ef.FormatRejection(e)
	case blackjack.PlayerActionEvent:
		return ef.FormatPlayerAction(e)
	case blackjack.HoleCardRevealedEvent:
		return fmt.Sprintf("Dealer reveals %s (%s)", ef.r.Card(e.Card), ef.r.Total(e.View.Dealer))
	case blackjack.ShoeReshuffledEvent:
		return fmt.Sprintf("Shoe reshuffled with %d cards left: %d cards, cut card at %d",
			e.Info.RemainingBefore, e.Info.Size, e.Info.NewCutPosition)
	case blackjack.RoundEndEvent:
		return ef.FormatRoundEnd(e.Result)
	default:
		return event.EventType().String()
	}
}

// FormatRoundStart formats the escrowed bet
func (ef *EventFormatter) FormatRoundStart(e blackjack.RoundStartEvent) string {
	return fmt.Sprintf("\n%s bet $%d, cash $%d", ef.r.title.Render("*** NEW ROUND ***"), e.View.Bet, e.View.Cash)
}

// FormatCardDealt formats a single deal
func (ef *EventFormatter) FormatCardDealt(e blackjack.CardDealtEvent) string {
	if e.FaceDown {
		return fmt.Sprintf("%s: dealt a card face down", e.To)
	}
	hand := e.View.Player
	if e.To == blackjack.Dealer {
		hand = e.View.Dealer
	}
	return fmt.Sprintf("%s: dealt %s (%s)", e.To, ef.r.Card(e.Card), ef.r.Total(hand))
}

// FormatInsurance formats the insurance decision and its settlement
func (ef *EventFormatter) FormatInsurance(e blackjack.InsuranceResolvedEvent) string {
	switch {
	case !e.Taken:
		return "Player: declines insurance"
	case e.DealerBlackjack:
		return fmt.Sprintf("Player: insures for $%d, dealer has blackjack, insurance pays $%d", e.Stake, e.Credit)
	default:
		return fmt.Sprintf("Player: insures for $%d, no dealer blackjack, insurance lost", e.Stake)
	}
}

// FormatRejection formats a decision the table refused
func (ef *EventFormatter) FormatRejection(e blackjack.ActionRejectedEvent) string {
	if e.Decision == "bet" {
		return fmt.Sprintf("Bet of $%d rejected: %v", e.Amount, e.Reason)
	}
	return fmt.Sprintf("Cannot %s: %v", e.Decision, e.Reason)
}

// FormatPlayerAction formats an applied player action
func (ef *EventFormatter) FormatPlayerAction(e blackjack.PlayerActionEvent) string {
	switch e.Action {
	case blackjack.Hit:
		return "Player: hits"
	case blackjack.Stand:
		return fmt.Sprintf("Player: stands on %s", ef.r.Total(e.View.Player))
	case blackjack.Double:
		return fmt.Sprintf("Player: doubles to $%d", e.View.Bet)
	case blackjack.Quit:
		return fmt.Sprintf("Player: quits, forfeiting $%d", e.View.Bet)
	default:
		return fmt.Sprintf("Player: %s", e.Action)
	}
}

// OutcomeText is the human wording for an outcome
func OutcomeText(o blackjack.Outcome) string {
	switch o {
	case blackjack.OutcomePlayerBust:
		return "Player busts"
	case blackjack.OutcomeDealerBust:
		return "Dealer busts, player wins"
	case blackjack.OutcomeCharlie:
		return "Six card Charlie"
	case blackjack.OutcomePlayerWin:
		return "Player wins"
	case blackjack.OutcomePush:
		return "Push"
	case blackjack.OutcomeDealerWin:
		return "Dealer wins"
	case blackjack.OutcomeBlackjack:
		return "Blackjack!"
	case blackjack.OutcomeDealerBlackjack:
		return "Dealer blackjack"
	case blackjack.OutcomeBlackjackPush:
		return "Both have blackjack, push"
	case blackjack.OutcomeQuit:
		return "Player quit"
	case blackjack.OutcomeAborted:
		return "Round aborted"
	default:
		return o.String()
	}
}

// FormatRoundEnd summarises a finished round
func (ef *EventFormatter) FormatRoundEnd(r blackjack.RoundResult) string {
	var sb strings.Builder

	title := OutcomeText(r.Outcome)
	switch {
	case r.Outcome.PlayerWon():
		title = ef.r.good.Render(title)
	case !r.Outcome.IsPush():
		title = ef.r.bad.Render(title)
	}
	fmt.Fprintf(&sb, "=== Round %d: %s ===\n", r.Number, title)
	if len(r.Dealer.Cards) > 0 {
		sb.WriteString(ef.r.Hand(r.Dealer) + "\n")
	}
	if len(r.Player.Cards) > 0 {
		sb.WriteString(ef.r.Hand(r.Player) + "\n")
	}
	if r.Aborted != "" {
		fmt.Fprintf(&sb, "Aborted: %s\n", r.Aborted)
	}
	fmt.Fprintf(&sb, "Net %s, cash $%d", Money(r.Net), r.CashAfter)
	return sb.String()
}

// FormatSession summarises a finished session
func (ef *EventFormatter) FormatSession(res *blackjack.SessionResult) string {
	return fmt.Sprintf("Session over (%s) after %d rounds: $%d -> $%d (%s), %d reshuffles, %s",
		strings.ReplaceAll(string(res.Reason), "_", " "), res.RoundsPlayed,
		res.StartingCash, res.FinalCash, Money(res.Net()), res.Reshuffles, res.Duration.Round(time.Second))
}

// Money formats a signed amount as "+$20" or "-$5"
func Money(amount int) string {
	switch {
	case amount > 0:
		return fmt.Sprintf("+$%d", amount)
	case amount < 0:
		return fmt.Sprintf("-$%d", -amount)
	default:
		return "$0"
	}
}
