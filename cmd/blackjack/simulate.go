package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Sessions int    `short:"n" help:"Sessions to play, overrides the config file"`
	Rounds   int    `short:"r" help:"Maximum rounds per session, overrides the config file"`
	Workers  int    `short:"w" help:"Concurrent sessions (0 for one per CPU), overrides the config file"`
	Decks    int    `short:"d" help:"Decks in the shoe (1-8), overrides the config file"`
	Cash     int    `help:"Starting cash per session, overrides the config file"`
	Report   string `help:"Write a JSON report to this path" type:"path"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load(func(cfg *config.Config) {
		if c.Sessions > 0 {
			cfg.Simulation.Sessions = c.Sessions
		}
		if c.Rounds > 0 {
			cfg.Simulation.Rounds = c.Rounds
		}
		if c.Workers > 0 {
			cfg.Simulation.Workers = c.Workers
		}
		if c.Decks > 0 {
			cfg.Table.Decks = c.Decks
		}
		if c.Cash > 0 {
			cfg.Table.StartingCash = c.Cash
		}
	})
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg.LogLevel(), "simulate")
	ctx, cancel := signalContext(logger)
	defer cancel()

	simCfg := simulator.Config{
		Sessions:     cfg.Simulation.Sessions,
		Rounds:       cfg.Simulation.Rounds,
		Workers:      cfg.Simulation.Workers,
		Decks:        cfg.Table.Decks,
		StartingCash: cfg.Table.StartingCash,
		Logger:       logger,
	}

	fmt.Printf("Starting simulation: %d sessions of up to %d rounds, %d deck shoe, $%d each\n\n",
		simCfg.Sessions, simCfg.Rounds, simCfg.Decks, simCfg.StartingCash)

	result, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	rep := result.Report(simCfg)
	printReport(rep)

	if c.Report != "" {
		if err := simulator.WriteReport(c.Report, rep); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.Info("Report written", "path", c.Report)
	}
	return nil
}

func printReport(rep simulator.Report) {
	fmt.Printf("=== %d ROUNDS COMPLETED ===\n", rep.Rounds)
	fmt.Printf("Result: %.4f bets/round ± %.4f SD\n", rep.MeanBets, rep.StdDev)
	fmt.Printf("95%% CI: [%.4f, %.4f] bets/round\n", rep.CI95Low, rep.CI95High)
	fmt.Printf("House edge: %.2f%%\n", rep.HouseEdge*100)
	fmt.Printf("Win rate: %.2f%% (%d won, %d lost, %d pushed)\n", rep.WinRate*100, rep.Wins, rep.Losses, rep.Pushes)
	fmt.Printf("Naturals: %d  Charlies: %d  Doubles: %d  Reshuffles: %d\n",
		rep.Naturals, rep.Charlies, rep.Doubles, rep.Reshuffles)
	fmt.Printf("Median final cash: $%d\n", rep.MedianCash)

	reasons := make([]string, 0, len(rep.EndReasons))
	for reason := range rep.EndReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	fmt.Printf("\nSessions ended:\n")
	for _, reason := range reasons {
		fmt.Printf("  %-16s %d\n", reason, rep.EndReasons[reason])
	}

	fmt.Printf("\nBy dealer up card:\n")
	for v := 2; v <= 11; v++ {
		mean, ok := rep.UpCardMeans[v]
		if !ok {
			continue
		}
		label := fmt.Sprintf("%d", v)
		if v == 11 {
			label = "A"
		}
		fmt.Printf("  %-2s %+.4f bets/round\n", label, mean)
	}
	fmt.Printf("\nCompleted in %dms\n", rep.DurationMS)
}
