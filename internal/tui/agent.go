package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

// TUIAgent plays the player's side from the terminal. It is the table's
// decision source and, subscribed to the event bus, its display sink.
type TUIAgent struct {
	model  *TUIModel
	send   func(tea.Msg)
	logger *log.Logger
}

var (
	_ blackjack.Agent           = (*TUIAgent)(nil)
	_ blackjack.EventSubscriber = (*TUIAgent)(nil)
)

// NewTUIAgent wires an agent to model. Messages go through program when it is
// set; without one they are applied to the model directly, which is how test
// mode runs.
func NewTUIAgent(model *TUIModel, program *tea.Program, logger *log.Logger) *TUIAgent {
	a := &TUIAgent{model: model, logger: logger.WithPrefix("agent")}
	if program != nil {
		a.send = program.Send
	} else {
		a.send = func(msg tea.Msg) { model.Update(msg) }
	}
	return a
}

// OnEvent mirrors table events into the log and sidebar
func (a *TUIAgent) OnEvent(event blackjack.GameEvent) {
	a.send(eventMsg{event: event})
}

// Setup lets the player choose the deck count and starting cash with the
// table selectors, starting from cfg.
func (a *TUIAgent) Setup(ctx context.Context, cfg blackjack.SessionConfig) (blackjack.SessionConfig, error) {
	for {
		input, err := a.ask(ctx, Prompt{Kind: PromptDecks, Initial: cfg.Decks})
		if err != nil {
			return cfg, err
		}
		decks, err := parseNumber(input, "deck count")
		if err == nil && (decks < deck.MinDecks || decks > deck.MaxDecks) {
			err = fmt.Errorf("%w: %d not in [%d, %d]", deck.ErrInvalidDeckCount, decks, deck.MinDecks, deck.MaxDecks)
		}
		if err == nil {
			cfg.Decks = decks
			break
		}
		a.notice(err)
	}

	for {
		input, err := a.ask(ctx, Prompt{Kind: PromptStartingCash, Initial: cfg.StartingCash})
		if err != nil {
			return cfg, err
		}
		cash, err := parseNumber(input, "starting cash")
		if err == nil {
			err = blackjack.ValidateStartingCash(cash)
		}
		if err == nil {
			cfg.StartingCash = cash
			break
		}
		a.notice(err)
	}

	a.logger.Info("Table chosen", "decks", cfg.Decks, "cash", cfg.StartingCash)
	return cfg, nil
}

// PlaceBet asks for a stake until one parses
func (a *TUIAgent) PlaceBet(ctx context.Context, view blackjack.TableView, limits blackjack.BetLimits) (int, error) {
	for {
		input, err := a.ask(ctx, Prompt{Kind: PromptBet, View: view, Limits: limits})
		if err != nil {
			return 0, err
		}
		bet, err := parseBet(input, limits)
		if err != nil {
			a.notice(err)
			continue
		}
		return bet, nil
	}
}

// Insurance asks whether to insure; empty input declines
func (a *TUIAgent) Insurance(ctx context.Context, view blackjack.TableView, cost int) (bool, error) {
	for {
		input, err := a.ask(ctx, Prompt{Kind: PromptInsurance, View: view, Cost: cost})
		if err != nil {
			return false, err
		}
		take, err := parseYesNo(input, false)
		if err != nil {
			a.notice(err)
			continue
		}
		return take, nil
	}
}

// Action asks for the next player action
func (a *TUIAgent) Action(ctx context.Context, view blackjack.TableView, valid []blackjack.Action) (blackjack.Action, error) {
	for {
		input, err := a.ask(ctx, Prompt{Kind: PromptAction, View: view, Valid: valid})
		if err != nil {
			return 0, err
		}
		action, err := parseAction(input, valid)
		if err != nil {
			a.notice(err)
			continue
		}
		return action, nil
	}
}

// Continue asks whether to deal another round; empty input continues
func (a *TUIAgent) Continue(ctx context.Context, view blackjack.TableView) (bool, error) {
	for {
		input, err := a.ask(ctx, Prompt{Kind: PromptContinue, View: view})
		if err != nil {
			return false, err
		}
		more, err := parseYesNo(input, true)
		if err != nil {
			a.notice(err)
			continue
		}
		return more, nil
	}
}

// Finish shows the session summary, waits for a last keypress and closes the
// interface.
func (a *TUIAgent) Finish(ctx context.Context, res *blackjack.SessionResult) error {
	defer a.model.SendQuitSignal()

	a.send(sessionMsg{result: res})
	_, err := a.ask(ctx, Prompt{Kind: PromptExit})
	if errors.Is(err, ErrUserQuit) {
		return nil
	}
	return err
}

func (a *TUIAgent) ask(ctx context.Context, p Prompt) (string, error) {
	a.send(promptMsg(p))
	result, err := a.model.WaitForAction(ctx)
	if err != nil {
		return "", err
	}
	return result.Input(), nil
}

func (a *TUIAgent) notice(err error) {
	a.logger.Debug("Input rejected", "err", err)
	a.send(noticeMsg(err.Error()))
}
