package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions     int
	Rounds       int // maximum rounds per session
	Workers      int
	Decks        int
	StartingCash int
	Logger       *log.Logger
	Clock        quartz.Clock
	// NewAgent builds the agent for each session, basic strategy when nil
	NewAgent func() blackjack.Agent
}

// Validate checks the simulation counts and the table setup
func (c Config) Validate() error {
	if c.Sessions <= 0 {
		return fmt.Errorf("sessions must be positive, got %d", c.Sessions)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return c.sessionConfig().Validate()
}

func (c Config) sessionConfig() blackjack.SessionConfig {
	return blackjack.SessionConfig{Decks: c.Decks, StartingCash: c.StartingCash, MaxRounds: c.Rounds}
}

// Result aggregates every simulated session
type Result struct {
	Stats      *statistics.Statistics
	Sessions   int
	EndReasons map[blackjack.EndReason]int
	Reshuffles int
	FinalCash  []int
	Duration   time.Duration
}

// Simulator runs automated blackjack sessions
type Simulator struct {
	config Config
	logger *log.Logger
	clock  quartz.Clock
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Workers == 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.NewAgent == nil {
		config.NewAgent = func() blackjack.Agent { return blackjack.NewBasicStrategyAgent() }
	}
	return &Simulator{
		config: config,
		logger: config.Logger.WithPrefix("simulator"),
		clock:  config.Clock,
	}
}

// Run plays every session across the worker pool. The first failing session
// cancels the rest.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	start := s.clock.Now()
	result := &Result{
		Stats:      &statistics.Statistics{},
		EndReasons: make(map[blackjack.EndReason]int),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	s.logger.Info("Starting simulation", "sessions", s.config.Sessions, "rounds", s.config.Rounds,
		"workers", s.config.Workers, "decks", s.config.Decks)

	for i := 0; i < s.config.Sessions; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			stats, res, err := s.playSession(gctx)
			if err != nil {
				return fmt.Errorf("session %d: %w", i+1, err)
			}

			mu.Lock()
			defer mu.Unlock()
			result.Stats.Merge(stats)
			result.Sessions++
			result.EndReasons[res.Reason]++
			result.Reshuffles += res.Reshuffles
			result.FinalCash = append(result.FinalCash, res.FinalCash)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Duration = s.clock.Since(start)
	sort.Ints(result.FinalCash)

	if err := result.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "sessions", result.Sessions, "rounds", result.Stats.Rounds,
		"edge", result.Stats.HouseEdge(), "duration", result.Duration)
	return result, nil
}

func (s *Simulator) playSession(ctx context.Context) (*statistics.Statistics, *blackjack.SessionResult, error) {
	stats := &statistics.Statistics{}
	bus := blackjack.NewEventBus()
	bus.Subscribe(blackjack.SubscriberFunc(func(ev blackjack.GameEvent) {
		if end, ok := ev.(blackjack.RoundEndEvent); ok {
			stats.Add(Sample(end.Result))
		}
	}))

	session, err := blackjack.NewSession(s.config.sessionConfig(), s.config.NewAgent(),
		blackjack.WithLogger(s.config.Logger),
		blackjack.WithClock(s.clock),
		blackjack.WithEventBus(bus),
		blackjack.WithoutHistory())
	if err != nil {
		return nil, nil, err
	}

	res, err := session.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return stats, res, nil
}

// Sample converts a round result into a statistics sample measured in initial bets
func Sample(r blackjack.RoundResult) statistics.RoundSample {
	sample := statistics.RoundSample{
		Net:       r.Net,
		Wagered:   r.Wagered(),
		Won:       r.Outcome.PlayerWon(),
		Push:      r.Outcome.IsPush(),
		Natural:   r.Outcome == blackjack.OutcomeBlackjack || r.Outcome == blackjack.OutcomeBlackjackPush,
		Charlie:   r.Outcome == blackjack.OutcomeCharlie,
		Busted:    r.Outcome == blackjack.OutcomePlayerBust,
		Doubled:   r.Doubled,
		Insured:   r.InsuranceTaken,
		Forfeited: r.Outcome == blackjack.OutcomeAborted || r.Outcome == blackjack.OutcomeQuit,
	}
	if r.InitialBet > 0 {
		sample.NetUnits = float64(r.Net) / float64(r.InitialBet)
	}
	if up, ok := r.Dealer.UpCard(); ok {
		sample.DealerUp = up.Value()
	}
	return sample
}

// Report is the JSON summary written by --report
type Report struct {
	Sessions     int             `json:"sessions"`
	Rounds       int             `json:"rounds"`
	Decks        int             `json:"decks"`
	StartingCash int             `json:"starting_cash"`
	MeanBets     float64         `json:"mean_bets_per_round"`
	StdDev       float64         `json:"std_dev"`
	CI95Low      float64         `json:"ci95_low"`
	CI95High     float64         `json:"ci95_high"`
	HouseEdge    float64         `json:"house_edge"`
	WinRate      float64         `json:"win_rate"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	Pushes       int             `json:"pushes"`
	Naturals     int             `json:"naturals"`
	Charlies     int             `json:"charlies"`
	Doubles      int             `json:"doubles"`
	Reshuffles   int             `json:"reshuffles"`
	MedianCash   int             `json:"median_final_cash"`
	EndReasons   map[string]int  `json:"end_reasons"`
	UpCardMeans  map[int]float64 `json:"up_card_means"`
	DurationMS   int64           `json:"duration_ms"`
}

// Report summarises the result for the given configuration
func (r *Result) Report(cfg Config) Report {
	low, high := r.Stats.ConfidenceInterval95()
	rep := Report{
		Sessions:     r.Sessions,
		Rounds:       r.Stats.Rounds,
		Decks:        cfg.Decks,
		StartingCash: cfg.StartingCash,
		MeanBets:     r.Stats.Mean(),
		StdDev:       r.Stats.StdDev(),
		CI95Low:      low,
		CI95High:     high,
		HouseEdge:    r.Stats.HouseEdge(),
		WinRate:      r.Stats.WinRate(),
		Wins:         r.Stats.Wins,
		Losses:       r.Stats.Losses,
		Pushes:       r.Stats.Pushes,
		Naturals:     r.Stats.Naturals,
		Charlies:     r.Stats.Charlies,
		Doubles:      r.Stats.Doubles,
		Reshuffles:   r.Reshuffles,
		EndReasons:   make(map[string]int, len(r.EndReasons)),
		UpCardMeans:  make(map[int]float64),
		DurationMS:   r.Duration.Milliseconds(),
	}
	if n := len(r.FinalCash); n > 0 {
		rep.MedianCash = r.FinalCash[n/2]
	}
	for reason, n := range r.EndReasons {
		rep.EndReasons[string(reason)] = n
	}
	for v := 2; v <= 11; v++ {
		if r.Stats.UpCardResults[v].Rounds > 0 {
			rep.UpCardMeans[v] = r.Stats.UpCardMean(v)
		}
	}
	return rep
}

// WriteReport writes the report as indented JSON, atomically
func WriteReport(path string, rep Report) error {
	if path == "" {
		return errors.New("report path is empty")
	}
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	})
}
