package deck

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/randutil"
)

const (
	// CardsPerDeck is the number of cards in one standard deck
	CardsPerDeck = 52
	// MinDecks and MaxDecks bound the number of decks a shoe may hold
	MinDecks = 1
	MaxDecks = 8
)

var (
	// ErrInvalidDeckCount is returned when a shoe is requested outside [MinDecks, MaxDecks]
	ErrInvalidDeckCount = errors.New("deck count out of range")
	// ErrShoeExhausted is returned when the shoe is empty and cannot be replenished
	ErrShoeExhausted = errors.New("shoe exhausted")
)

// CardSource builds the unshuffled cards of a fresh shoe holding the given number of decks.
type CardSource func(decks int) ([]Card, error)

// StandardCards builds decks*52 cards, rank-major and suit-minor within each deck.
func StandardCards(decks int) ([]Card, error) {
	if decks < MinDecks || decks > MaxDecks {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidDeckCount, decks, MinDecks, MaxDecks)
	}
	cards := make([]Card, 0, decks*CardsPerDeck)
	for range decks {
		for rank := Ace; rank <= King; rank++ {
			for _, suit := range Suits {
				cards = append(cards, NewCard(rank, suit))
			}
		}
	}
	return cards, nil
}

// ReshuffleInfo describes an automatic shoe replacement at the cut card
type ReshuffleInfo struct {
	RemainingBefore int
	CutPosition     int
	Size            int
	NewCutPosition  int
	Reshuffles      int
}

// Shoe holds one or more decks. Cards are dealt from the end of the slice. Once the
// remaining count reaches the cut position, the next deal first replaces the whole shoe
// with a fresh one of the originally requested deck count.
type Shoe struct {
	cards       []Card
	decks       int
	cutPosition int
	reshuffles  int

	clock       quartz.Clock
	source      CardSource
	logger      *log.Logger
	onReshuffle func(ReshuffleInfo)
}

// ShoeOption configures a Shoe during creation
type ShoeOption func(*Shoe)

// WithClock sets the clock used to seed shuffles and cut placement
func WithClock(clock quartz.Clock) ShoeOption {
	return func(s *Shoe) { s.clock = clock }
}

// WithLogger sets the shoe logger
func WithLogger(logger *log.Logger) ShoeOption {
	return func(s *Shoe) { s.logger = logger.WithPrefix("shoe") }
}

// WithCardSource overrides how fresh shoes are built
func WithCardSource(source CardSource) ShoeOption {
	return func(s *Shoe) { s.source = source }
}

// WithReshuffleHook registers a callback run after every automatic replacement
func WithReshuffleHook(fn func(ReshuffleInfo)) ShoeOption {
	return func(s *Shoe) { s.onReshuffle = fn }
}

func newShoe(decks int, opts []ShoeOption) *Shoe {
	s := &Shoe{
		decks:       decks,
		cutPosition: -1,
		clock:       quartz.NewReal(),
		source:      StandardCards,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewShoe builds a shoe of numDecks decks, shuffles it and places the cut card.
func NewShoe(numDecks int, opts ...ShoeOption) (*Shoe, error) {
	if numDecks < MinDecks || numDecks > MaxDecks {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidDeckCount, numDecks, MinDecks, MaxDecks)
	}
	s := newShoe(numDecks, opts)
	if err := s.fill(); err != nil {
		return nil, err
	}
	s.Shuffle()
	s.PlaceCutCard()
	s.logger.Debug("Shoe ready", "decks", numDecks, "cards", len(s.cards), "cut", s.cutPosition)
	return s, nil
}

// NewShoeFromCards builds a shoe that deals exactly the given cards in order, cards[0]
// first. No cut card is placed, so every scripted card is dealt before the shoe is
// replenished with a fresh numDecks shoe.
func NewShoeFromCards(cards []Card, numDecks int, opts ...ShoeOption) (*Shoe, error) {
	if numDecks < MinDecks || numDecks > MaxDecks {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidDeckCount, numDecks, MinDecks, MaxDecks)
	}
	s := newShoe(numDecks, opts)
	s.cards = make([]Card, len(cards))
	for i, c := range cards {
		s.cards[len(cards)-1-i] = c
	}
	return s, nil
}

func (s *Shoe) fill() error {
	s.cards = nil
	cards, err := s.source(s.decks)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShoeExhausted, err)
	}
	s.cards = cards
	return nil
}

// Shuffle applies a Fisher-Yates shuffle to the remaining cards.
//
// The source is reseeded from the clock on every call. This is fine for casual play but
// not cryptographically secure, and two shuffles within the same clock tick produce the
// same permutation.
func (s *Shoe) Shuffle() {
	rng := randutil.New(s.clock.Now().UnixNano())
	for i := len(s.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// PlaceCutCard chooses the cut position uniformly in [size/4, size/2] of the current size.
func (s *Shoe) PlaceCutCard() {
	if len(s.cards) == 0 {
		s.cutPosition = -1
		return
	}
	rng := randutil.New(s.clock.Now().UnixNano() ^ 0x5deece66d)
	s.cutPosition = randutil.Between(rng, len(s.cards)/4, len(s.cards)/2)
}

// Deal removes and returns the top card, replacing the shoe first when the cut card has
// been reached or the shoe is empty.
func (s *Shoe) Deal() (Card, error) {
	if s.needsReplacement() {
		if err := s.replace(); err != nil {
			return Card{}, err
		}
	}
	if len(s.cards) == 0 {
		return Card{}, ErrShoeExhausted
	}
	top := len(s.cards) - 1
	card := s.cards[top]
	s.cards = s.cards[:top]
	return card, nil
}

func (s *Shoe) needsReplacement() bool {
	if len(s.cards) == 0 {
		return true
	}
	return s.cutPosition >= 0 && len(s.cards) <= s.cutPosition
}

func (s *Shoe) replace() error {
	info := ReshuffleInfo{RemainingBefore: len(s.cards), CutPosition: s.cutPosition}
	s.cutPosition = -1
	if err := s.fill(); err != nil {
		s.logger.Error("Failed to replenish shoe", "decks", s.decks, "error", err)
		return err
	}
	s.Shuffle()
	s.PlaceCutCard()
	s.reshuffles++

	info.Size = len(s.cards)
	info.NewCutPosition = s.cutPosition
	info.Reshuffles = s.reshuffles
	s.logger.Info("Cut card reached, fresh shoe in play",
		"remaining", info.RemainingBefore, "cards", info.Size, "cut", info.NewCutPosition)
	if s.onReshuffle != nil {
		s.onReshuffle(info)
	}
	return nil
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// CutPosition returns the remaining-card threshold, or -1 if no cut card is placed
func (s *Shoe) CutPosition() int {
	return s.cutPosition
}

// Decks returns the deck count the shoe was created with
func (s *Shoe) Decks() int {
	return s.decks
}

// Capacity returns the size of a fresh shoe
func (s *Shoe) Capacity() int {
	return s.decks * CardsPerDeck
}

// Reshuffles returns how many times the shoe has been replaced
func (s *Shoe) Reshuffles() int {
	return s.reshuffles
}
