package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/roulette"
)

var (
	redPocket   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#C62828")).Bold(true).Padding(0, 1)
	blackPocket = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#212121")).Bold(true).Padding(0, 1)
	greenPocket = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#2E7D32")).Bold(true).Padding(0, 1)
)

type RouletteCmd struct {
	Bets  []string `name:"bet" short:"b" help:"Bet as kind:amount or straight:number:amount, e.g. red:10 (repeatable)" required:""`
	Chips int      `default:"100" help:"Chips to bring to the table"`
	Seed  int64    `help:"Seed the wheel for a repeatable spin (0 for random)"`
}

func (c *RouletteCmd) Run(g *Globals) error {
	cfg, err := g.load(nil)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel(), "roulette")

	opts := []roulette.TableOption{roulette.WithLogger(logger)}
	if c.Seed != 0 {
		opts = append(opts, roulette.WithSpinner(roulette.NewSeededWheel(c.Seed)))
	}
	table, err := roulette.NewTable(c.Chips, opts...)
	if err != nil {
		return err
	}

	for _, s := range c.Bets {
		bet, err := roulette.ParseBet(s)
		if err != nil {
			return err
		}
		if err := table.Place(bet); err != nil {
			if errors.Is(err, roulette.ErrInsufficientChips) || errors.Is(err, roulette.ErrTooManyBets) {
				refund := table.Clear()
				logger.Warn("Bets cleared", "refund", refund)
			}
			return fmt.Errorf("placing %s: %w", bet, err)
		}
	}

	res, err := table.Spin()
	if err != nil {
		return err
	}

	fmt.Printf("The ball lands on %s\n\n", pocket(res.Number))
	for _, b := range res.Bets {
		if b.Payout > 0 {
			fmt.Printf("  WIN   %-16s pays $%d\n", b.Bet, b.Payout)
		} else {
			fmt.Printf("  lose  %s\n", b.Bet)
		}
	}
	fmt.Printf("\nStaked $%d, returned $%d, net %s, chips $%d\n",
		res.Staked, res.Payout, display.Money(res.Net()), res.Chips)
	return nil
}

func pocket(n int) string {
	label := fmt.Sprintf("%d %s", n, strings.ToUpper(roulette.ColorOf(n).String()))
	switch roulette.ColorOf(n) {
	case roulette.Red:
		return redPocket.Render(label)
	case roulette.Black:
		return blackPocket.Render(label)
	default:
		return greenPocket.Render(label)
	}
}
