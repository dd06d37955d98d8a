package blackjack

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// MaxCards is the fixed capacity of a hand. The player stops at six cards. The
// longest dealer hand is six twos and four aces (hard 16) plus one more draw.
const MaxCards = 11

// CharlieCards is the number of unbusted cards that ends the player turn with a win
const CharlieCards = 6

// DealerStandsOn is the total at which the dealer stops drawing
const DealerStandsOn = 17

// Hand is a fixed-capacity set of cards held by the player or the dealer.
// A hand is allocated once per table and Reset between rounds.
type Hand struct {
	owner  Participant
	cards  [MaxCards]deck.Card
	n      int
	hole   int // index of the card dealt face down, -1 if none
	hidden int // index of the card still face down, -1 when all are visible

	value   int
	soft    bool
	doubled bool
	stopped bool
	natural bool
}

// NewHand returns an empty hand
func NewHand(owner Participant) *Hand {
	return &Hand{owner: owner, hole: -1, hidden: -1}
}

// AddCard appends a face-up card and recomputes the value
func (h *Hand) AddCard(c deck.Card) error {
	return h.add(c, false)
}

// AddHiddenCard appends a face-down card. Its value is excluded until revealed.
func (h *Hand) AddHiddenCard(c deck.Card) error {
	if h.hole >= 0 {
		return fmt.Errorf("%w: hand already has a hole card", ErrIllegalAction)
	}
	return h.add(c, true)
}

func (h *Hand) add(c deck.Card, hidden bool) error {
	if h.n >= MaxCards {
		return fmt.Errorf("%w: %s holds %d cards", ErrHandFull, h.owner, h.n)
	}
	h.cards[h.n] = c
	if hidden {
		h.hole = h.n
		h.hidden = h.n
	}
	h.n++
	h.RecomputeValue()
	return nil
}

// RecomputeValue totals the visible cards. Aces count 11 and drop to 1 one at
// a time while the total is over 21.
func (h *Hand) RecomputeValue() {
	total, aces := 0, 0
	for i := 0; i < h.n; i++ {
		if i == h.hidden {
			continue
		}
		c := h.cards[i]
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	h.value = total
	h.soft = aces > 0
}

// RevealHiddenCard turns the face-down card up and returns it
func (h *Hand) RevealHiddenCard() (deck.Card, bool) {
	if h.hidden < 0 {
		return deck.Card{}, false
	}
	c := h.cards[h.hidden]
	h.hidden = -1
	h.RecomputeValue()
	return c, true
}

// HiddenCard returns the face-down card without revealing it
func (h *Hand) HiddenCard() (deck.Card, bool) {
	if h.hidden < 0 {
		return deck.Card{}, false
	}
	return h.cards[h.hidden], true
}

// HasHiddenCard reports whether a card is still face down
func (h *Hand) HasHiddenCard() bool { return h.hidden >= 0 }

// UpCard returns the first card dealt face up
func (h *Hand) UpCard() (deck.Card, bool) {
	for i := 0; i < h.n; i++ {
		if i != h.hole {
			return h.cards[i], true
		}
	}
	return deck.Card{}, false
}

// IsNaturalBlackjack reports two visible cards totalling 21
func (h *Hand) IsNaturalBlackjack() bool {
	return h.n == 2 && h.hidden < 0 && h.value == 21
}

// wouldBeNatural peeks through the hidden card
func (h *Hand) wouldBeNatural() bool {
	if h.n != 2 {
		return false
	}
	return h.cards[0].Value()+h.cards[1].Value() == 21
}

// Reset empties the hand for reuse
func (h *Hand) Reset() {
	h.cards = [MaxCards]deck.Card{}
	h.n = 0
	h.hole = -1
	h.hidden = -1
	h.value = 0
	h.soft = false
	h.doubled = false
	h.stopped = false
	h.natural = false
}

func (h *Hand) Owner() Participant { return h.owner }
func (h *Hand) Len() int           { return h.n }
func (h *Hand) Value() int         { return h.value }
func (h *Hand) IsSoft() bool       { return h.soft }
func (h *Hand) IsBusted() bool     { return h.value > 21 }
func (h *Hand) IsDoubled() bool    { return h.doubled }
func (h *Hand) IsStopped() bool    { return h.stopped }

// IsCharlie reports six unbusted cards
func (h *Hand) IsCharlie() bool {
	return h.n >= CharlieCards && !h.IsBusted()
}

// NaturalBlackjack reports the natural flag recorded at the natural check
func (h *Hand) NaturalBlackjack() bool { return h.natural }

// Cards returns a copy of the cards in deal order, including any hidden card
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, h.n)
	copy(out, h.cards[:h.n])
	return out
}

// View returns a snapshot with the hidden card masked
func (h *Hand) View() HandView {
	v := HandView{
		Owner:       h.owner,
		Cards:       h.Cards(),
		HoleIndex:   h.hole,
		HiddenIndex: h.hidden,
		Value:       h.value,
		Soft:        h.soft,
		Busted:      h.IsBusted(),
		Natural:     h.natural,
		Doubled:     h.doubled,
		Stopped:     h.stopped,
	}
	if h.hidden >= 0 {
		v.Cards[h.hidden] = deck.Card{}
	}
	return v
}

// fullView returns a snapshot that also shows a face-down card
func (h *Hand) fullView() HandView {
	v := h.View()
	v.Cards = h.Cards()
	return v
}

func (h *Hand) String() string {
	var sb strings.Builder
	for i := 0; i < h.n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == h.hidden {
			sb.WriteString("??")
			continue
		}
		sb.WriteString(h.cards[i].String())
	}
	return fmt.Sprintf("%s [%s] (%d)", h.owner, sb.String(), h.value)
}

// HandView is an immutable snapshot of a hand. A hidden card appears as the
// zero Card at HiddenIndex; HoleIndex keeps its position after the reveal.
type HandView struct {
	Owner       Participant
	Cards       []deck.Card
	HoleIndex   int
	HiddenIndex int
	Value       int
	Soft        bool
	Busted      bool
	Natural     bool
	Doubled     bool
	Stopped     bool
}

// IsHidden reports whether card i is face down
func (v HandView) IsHidden(i int) bool { return i == v.HiddenIndex }

// UpCard returns the first card dealt face up
func (v HandView) UpCard() (deck.Card, bool) {
	for i, c := range v.Cards {
		if i != v.HoleIndex {
			return c, true
		}
	}
	return deck.Card{}, false
}
