package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Decks   int    `short:"d" help:"Decks in the shoe (1-8), overrides the config file"`
	Cash    int    `help:"Starting cash ($100-$10000 in steps of $100), overrides the config file"`
	LogFile string `help:"File the table logs to while the interface is open"`
	Setup   bool   `default:"true" negatable:"" help:"Choose decks and starting cash before the first deal"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load(func(cfg *config.Config) {
		if c.Decks > 0 {
			cfg.Table.Decks = c.Decks
		}
		if c.Cash > 0 {
			cfg.Table.StartingCash = c.Cash
		}
		if c.LogFile != "" {
			cfg.UI.LogFile = c.LogFile
		}
	})
	if err != nil {
		return err
	}

	// The interface owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	logger := newLogger(logFile, cfg.LogLevel(), "blackjack")
	logger.Info("Opening table", "decks", cfg.Table.Decks, "cash", cfg.Table.StartingCash, "version", version)

	ctx, cancel := signalContext(logger)
	defer cancel()

	formatter := display.NewEventFormatter(display.NewRenderer(display.Options{Color: cfg.ColorEnabled()}))
	model := tui.NewTUIModel(logger, formatter)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	agent := tui.NewTUIAgent(model, program, logger)

	var (
		res    *blackjack.SessionResult
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, runErr = playSession(ctx, cfg.SessionConfig(), c.Setup, agent, logger)
		if res != nil && !errors.Is(runErr, tui.ErrUserQuit) {
			if err := agent.Finish(ctx, res); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Closing table", "err", err)
			}
		}
		model.SendQuitSignal()
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("Interface failed", "err", err)
		cancel()
		<-done
		return fmt.Errorf("running interface: %w", err)
	}
	cancel()
	<-done

	if res != nil {
		fmt.Println(formatter.FormatSession(res))
	}
	if runErr != nil && !errors.Is(runErr, tui.ErrUserQuit) && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func playSession(ctx context.Context, sc blackjack.SessionConfig, setup bool, agent *tui.TUIAgent, logger *log.Logger) (*blackjack.SessionResult, error) {
	if setup {
		var err error
		if sc, err = agent.Setup(ctx, sc); err != nil {
			return nil, err
		}
	}

	bus := blackjack.NewEventBus()
	bus.Subscribe(agent)

	session, err := blackjack.NewSession(sc, agent, blackjack.WithLogger(logger), blackjack.WithEventBus(bus))
	if err != nil {
		return nil, err
	}
	return session.Run(ctx)
}
