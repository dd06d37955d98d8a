package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// feed injects inputs one at a time as the agent consumes them
func feed(m *TUIModel, inputs ...string) {
	go func() {
		for _, in := range inputs {
			for m.InjectAction(in, nil) != nil {
				time.Sleep(time.Millisecond)
			}
		}
	}()
}

func joined(m *TUIModel) string {
	return strings.Join(m.GetCapturedLog(), "\n")
}

func TestTUITestMode(t *testing.T) {
	logger := testLogger()

	t.Run("test mode captures log entries", func(t *testing.T) {
		tui := NewTUIModelWithOptions(logger, nil, true)

		assert.True(t, tui.IsTestMode())
		assert.Empty(t, tui.GetCapturedLog())

		tui.AddLogEntry("Player: dealt K♠ (10)")
		tui.AddLogEntry("Dealer: dealt a card face down")

		assert.Equal(t, []string{"Player: dealt K♠ (10)", "Dealer: dealt a card face down"}, tui.GetCapturedLog())
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		tui := NewTUIModel(logger, nil)
		assert.False(t, tui.IsTestMode())

		tui.AddLogEntry("Some log entry")
		assert.Nil(t, tui.GetCapturedLog())
	})

	t.Run("action injection works in test mode", func(t *testing.T) {
		tui := NewTUIModelWithOptions(logger, nil, true)
		require.NoError(t, tui.InjectAction("double", nil))

		result, err := tui.WaitForAction(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "double", result.Action)
		assert.Empty(t, result.Args)
		assert.True(t, result.Continue)
	})

	t.Run("action injection fails in production mode", func(t *testing.T) {
		tui := NewTUIModel(logger, nil)
		err := tui.InjectAction("hit", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "test mode")
	})

	t.Run("second injection fails while the first is pending", func(t *testing.T) {
		tui := NewTUIModelWithOptions(logger, nil, true)
		require.NoError(t, tui.InjectAction("hit", nil))
		assert.ErrorContains(t, tui.InjectAction("stand", nil), "full")
	})

	t.Run("wait respects context", func(t *testing.T) {
		tui := NewTUIModelWithOptions(logger, nil, true)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := tui.WaitForAction(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func betPrompt(cash int) promptMsg {
	return promptMsg(Prompt{
		Kind:   PromptBet,
		View:   blackjack.TableView{Cash: cash},
		Limits: blackjack.LimitsFor(cash),
	})
}

func TestBetSelectorKeys(t *testing.T) {
	m := NewTUIModelWithOptions(testLogger(), nil, true)
	m.Update(betPrompt(500))
	require.Equal(t, PromptBet, m.CurrentPrompt().Kind)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	result, err := m.WaitForAction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "50", result.Action)
	assert.Equal(t, PromptNone, m.CurrentPrompt().Kind)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, joined(m), "Not waiting for input")
}

func TestBetSelectorRemembersLastBet(t *testing.T) {
	m := NewTUIModelWithOptions(testLogger(), nil, true)
	m.Update(eventMsg{event: blackjack.RoundStartEvent{View: blackjack.TableView{Bet: 75, Cash: 425}}})
	m.Update(betPrompt(500))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	result, err := m.WaitForAction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "75", result.Action)
}

func TestCtrlCUnblocksWaitingDecision(t *testing.T) {
	m := NewTUIModelWithOptions(testLogger(), nil, true)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	_, err := m.WaitForAction(context.Background())
	assert.ErrorIs(t, err, ErrUserQuit)
	assert.Empty(t, m.View())
}

func TestEventsUpdateSidebar(t *testing.T) {
	m := NewTUIModelWithOptions(testLogger(), nil, true)
	view := blackjack.TableView{
		Phase:         blackjack.PhasePlayerTurn,
		Cash:          480,
		Bet:           20,
		ShoeRemaining: 48,
		Player: blackjack.HandView{Owner: blackjack.Player, Cards: deck.MustParseCards("Ks7h"),
			HoleIndex: -1, HiddenIndex: -1, Value: 17},
		Dealer: blackjack.HandView{Owner: blackjack.Dealer, Cards: []deck.Card{{}, deck.NewCard(deck.Nine, deck.Hearts)},
			HoleIndex: 0, HiddenIndex: 0, Value: 9},
	}
	m.Update(eventMsg{event: blackjack.CardDealtEvent{View: view, To: blackjack.Dealer, Card: deck.NewCard(deck.Nine, deck.Hearts)}})
	m.Update(promptMsg(Prompt{Kind: PromptAction, View: view,
		Valid: []blackjack.Action{blackjack.Hit, blackjack.Stand, blackjack.Double, blackjack.Quit}}))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 480, m.TableView().Cash)
	assert.Contains(t, joined(m), "Dealer: dealt 9♥ (9)")

	out := m.View()
	assert.Contains(t, out, "Cash: $480")
	assert.Contains(t, out, "Bet: $20")
	assert.Contains(t, out, "Shoe: 48 cards")
	assert.Contains(t, out, "[hit]")
	assert.Contains(t, out, "[double $20]")
}

func TestAgentRepromptsOnBadInput(t *testing.T) {
	m := NewTUIModelWithOptions(testLogger(), nil, true)
	agent := NewTUIAgent(m, nil, testLogger())
	ctx := context.Background()

	feed(m, "lots", "30")
	bet, err := agent.PlaceBet(ctx, blackjack.TableView{Cash: 500}, blackjack.LimitsFor(500))
	require.NoError(t, err)
	assert.Equal(t, 30, bet)
	assert.Contains(t, joined(m), `"lots" is not a bet amount`)

	feed(m, "maybe", "y")
	take, err := agent.Insurance(ctx, blackjack.TableView{}, 10)
	require.NoError(t, err)
	assert.True(t, take)

	feed(m, "fold", "h")
	action, err := agent.Action(ctx, blackjack.TableView{}, []blackjack.Action{blackjack.Hit, blackjack.Stand})
	require.NoError(t, err)
	assert.Equal(t, blackjack.Hit, action)
	assert.Contains(t, joined(m), `unknown action "fold", try hit, stand`)

	feed(m, "")
	more, err := agent.Continue(ctx, blackjack.TableView{})
	require.NoError(t, err)
	assert.True(t, more, "empty input deals again")
}

func TestAgentPlaysSession(t *testing.T) {
	m := NewTUIModelWithOptions(testLogger(), nil, true)
	agent := NewTUIAgent(m, nil, testLogger())

	bus := blackjack.NewEventBus()
	bus.Subscribe(agent)

	shoe, err := deck.NewShoeFromCards(deck.MustParseCards("Ts7h9dKc"), 1)
	require.NoError(t, err)
	s, err := blackjack.NewSession(blackjack.SessionConfig{Decks: 1, StartingCash: 500}, agent,
		blackjack.WithEventBus(bus), blackjack.WithShoe(shoe))
	require.NoError(t, err)

	feed(m, "50", "stand", "n", "")
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, agent.Finish(context.Background(), res))

	assert.Equal(t, blackjack.EndPlayerStopped, res.Reason)
	assert.Equal(t, 550, res.FinalCash)

	out := joined(m)
	assert.Contains(t, out, "*** NEW ROUND *** bet $50, cash $450")
	assert.Contains(t, out, "Player: stands on 19")
	assert.Contains(t, out, "=== Round 1: Player wins ===")
	assert.Contains(t, out, "Session over (player stopped) after 1 rounds")
	assert.Equal(t, 550, m.TableView().Cash)
}

func TestInputParsing(t *testing.T) {
	limits := blackjack.LimitsFor(500)

	for input, want := range map[string]int{"25": 25, "$40": 40, "min": 25, "MAX": 500, "all": 500} {
		got, err := parseBet(input, limits)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := parseBet("", limits)
	assert.Error(t, err)

	yes, err := parseYesNo("", true)
	require.NoError(t, err)
	assert.True(t, yes)
	no, err := parseYesNo(" No ", true)
	require.NoError(t, err)
	assert.False(t, no)

	a, err := parseAction(" DD ", nil)
	require.NoError(t, err)
	assert.Equal(t, blackjack.Double, a)
}

func TestAgentSetupUsesSelectors(t *testing.T) {
	m := NewTUIModelWithOptions(testLogger(), nil, true)
	agent := NewTUIAgent(m, nil, testLogger())

	done := make(chan blackjack.SessionConfig)
	go func() {
		cfg, err := agent.Setup(context.Background(), blackjack.SessionConfig{Decks: 1, StartingCash: 500})
		assert.NoError(t, err)
		done <- cfg
	}()

	feed(m, "9", "6", "550", "1200")
	cfg := <-done

	assert.Equal(t, 6, cfg.Decks)
	assert.Equal(t, 1200, cfg.StartingCash)
	out := joined(m)
	assert.Contains(t, out, "deck count out of range")
	assert.Contains(t, out, "not a multiple of 100")
}

func TestSetupPromptSelector(t *testing.T) {
	m := NewTUIModelWithOptions(testLogger(), nil, true)
	m.Update(promptMsg(Prompt{Kind: PromptStartingCash, Initial: 500}))
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	result, err := m.WaitForAction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "600", result.Action)

	m.Update(promptMsg(Prompt{Kind: PromptDecks, Initial: 8}))
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result, err = m.WaitForAction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8", result.Action, "deck selector caps at eight")
}
