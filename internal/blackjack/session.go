package blackjack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
)

// EndReason explains why a session stopped
type EndReason string

const (
	EndCashExhausted EndReason = "cash_exhausted"
	EndPlayerQuit    EndReason = "player_quit"
	EndPlayerStopped EndReason = "player_stopped"
	EndRoundLimit    EndReason = "round_limit"
	EndError         EndReason = "error"
)

// SessionConfig holds the table setup chosen before play
type SessionConfig struct {
	Decks        int
	StartingCash int
	// MaxRounds stops the session after this many rounds, 0 for no limit
	MaxRounds int
}

// Validate checks deck count and starting cash
func (c SessionConfig) Validate() error {
	if c.Decks < deck.MinDecks || c.Decks > deck.MaxDecks {
		return fmt.Errorf("%w: %d not in [%d, %d]", deck.ErrInvalidDeckCount, c.Decks, deck.MinDecks, deck.MaxDecks)
	}
	if err := ValidateStartingCash(c.StartingCash); err != nil {
		return err
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("max rounds must not be negative, got %d", c.MaxRounds)
	}
	return nil
}

// SessionResult summarises a finished session
type SessionResult struct {
	ID           string
	Reason       EndReason
	StartingCash int
	FinalCash    int
	RoundsPlayed int
	Reshuffles   int
	// Rounds is empty when the session was created WithoutHistory
	Rounds    []RoundResult
	StartedAt time.Time
	Duration  time.Duration
}

// Net is the cash won or lost over the session
func (r *SessionResult) Net() int { return r.FinalCash - r.StartingCash }

// Session plays rounds until the cash runs out or the agent stops
type Session struct {
	id     string
	cfg    SessionConfig
	agent  Agent
	shoe   *deck.Shoe
	engine *Engine

	logger      *log.Logger
	clock       quartz.Clock
	keepHistory bool
}

// NewSession validates cfg and builds the shoe, bankroll and engine
func NewSession(cfg SessionConfig, agent Agent, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, errors.New("session needs an agent")
	}

	o := applyOptions(opts)
	id := newID()
	logger := o.logger.With("session", id)

	shoe := o.shoe
	if shoe == nil {
		var err error
		shoe, err = deck.NewShoe(cfg.Decks,
			deck.WithClock(o.clock),
			deck.WithLogger(logger),
			deck.WithReshuffleHook(func(info deck.ReshuffleInfo) {
				o.bus.Publish(ShoeReshuffledEvent{Info: info, timestamp: o.clock.Now()})
			}))
		if err != nil {
			return nil, err
		}
	}

	bankroll, err := NewBankroll(cfg.StartingCash)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:          id,
		cfg:         cfg,
		agent:       agent,
		shoe:        shoe,
		engine:      NewEngine(shoe, bankroll, WithLogger(logger), WithClock(o.clock), WithEventBus(o.bus)),
		logger:      logger.WithPrefix("session"),
		clock:       o.clock,
		keepHistory: o.keepHistory,
	}, nil
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Engine returns the round engine
func (s *Session) Engine() *Engine { return s.engine }

// Run plays rounds until an end condition. A round aborted by a full hand is
// forfeited and play continues; a shoe that cannot be refilled ends the
// session with EndError.
func (s *Session) Run(ctx context.Context) (*SessionResult, error) {
	bankroll := s.engine.Bankroll()
	res := &SessionResult{
		ID:           s.id,
		StartingCash: bankroll.Cash(),
		StartedAt:    s.clock.Now(),
	}
	s.logger.Info("Session started", "decks", s.cfg.Decks, "cash", bankroll.Cash())

	end := func(reason EndReason, err error) (*SessionResult, error) {
		res.Reason = reason
		res.FinalCash = bankroll.Cash()
		res.Reshuffles = s.shoe.Reshuffles()
		res.Duration = s.clock.Since(res.StartedAt)
		s.logger.Info("Session ended", "reason", reason, "rounds", res.RoundsPlayed,
			"cash", res.FinalCash, "net", res.Net(), "duration", res.Duration)
		return res, err
	}

	for {
		round, err := s.engine.PlayRound(ctx, s.agent)
		res.RoundsPlayed++
		if s.keepHistory {
			res.Rounds = append(res.Rounds, round)
		}

		if err != nil {
			switch {
			case errors.Is(err, ErrHandFull):
				s.logger.Warn("Round forfeited", "round", round.Number, "err", err)
			default:
				s.logger.Error("Session stopped", "err", err)
				return end(EndError, err)
			}
		}
		if round.Outcome == OutcomeQuit {
			return end(EndPlayerQuit, nil)
		}
		if bankroll.Cash() <= 0 {
			return end(EndCashExhausted, nil)
		}
		if s.cfg.MaxRounds > 0 && res.RoundsPlayed >= s.cfg.MaxRounds {
			return end(EndRoundLimit, nil)
		}

		more, err := s.agent.Continue(ctx, s.engine.View())
		if err != nil {
			return end(EndError, fmt.Errorf("continue decision: %w", err))
		}
		if !more {
			return end(EndPlayerStopped, nil)
		}
	}
}
