package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/display"
)

// ErrUserQuit is returned to a waiting decision when the interface is closed
var ErrUserQuit = errors.New("user closed the table")

// PromptKind is the decision the table is waiting on
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptBet
	PromptInsurance
	PromptAction
	PromptContinue
	PromptExit
	PromptDecks
	PromptStartingCash
)

// selects reports whether the prompt is answered with an arrow-key selector
func (k PromptKind) selects() bool {
	return k == PromptBet || k == PromptDecks || k == PromptStartingCash
}

// Prompt describes a pending decision and the state it is made against
type Prompt struct {
	Kind   PromptKind
	View   blackjack.TableView
	Limits blackjack.BetLimits
	Cost   int
	Valid  []blackjack.Action
	// Initial preselects the deck count or starting cash during setup
	Initial int
}

// TUIModel represents the Bubble Tea model for the blackjack table
type TUIModel struct {
	logger    *log.Logger
	formatter *display.EventFormatter

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog      []string
	actionResult chan ActionResult
	quitSignal   chan bool
	quitting     bool
	focusedPane  int // 0 = log, 1 = input

	// Table state, rebuilt from events and prompts
	prompt     Prompt
	view       blackjack.TableView
	selector   *blackjack.Selector
	lastBet    int
	rounds     int
	lastNet    int
	reshuffles int

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// ActionResult represents the result of a user action
type ActionResult struct {
	Action   string
	Args     []string
	Continue bool
	Error    error
}

// Input returns the action and its arguments as typed
func (r ActionResult) Input() string {
	return strings.TrimSpace(strings.Join(append([]string{r.Action}, r.Args...), " "))
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

type promptMsg Prompt

type eventMsg struct{ event blackjack.GameEvent }

type noticeMsg string

type sessionMsg struct{ result *blackjack.SessionResult }

// NewTUIModel creates a new TUI model
func NewTUIModel(logger *log.Logger, formatter *display.EventFormatter) *TUIModel {
	return NewTUIModelWithOptions(logger, formatter, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(logger *log.Logger, formatter *display.EventFormatter, testMode bool) *TUIModel {
	if formatter == nil {
		formatter = display.NewEventFormatter(nil)
	}

	// Sized properly once a WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Enter to continue"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusedBorder).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(chalk)
	ti.Prompt = "> "

	return &TUIModel{
		logger:       logger.WithPrefix("tui"),
		formatter:    formatter,
		logViewport:  vp,
		actionInput:  ti,
		gameLog:      []string{},
		actionResult: make(chan ActionResult, 1),
		quitSignal:   make(chan bool, 1),
		focusedPane:  1,
		testMode:     testMode,
		capturedLog:  []string{},
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForQuit())
}

func (m *TUIModel) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case promptMsg:
		m.setPrompt(Prompt(msg))
		return m, nil

	case eventMsg:
		m.applyEvent(msg.event)
		return m, nil

	case noticeMsg:
		m.AddLogEntry(ErrorStyle.Render(string(msg)))
		return m, nil

	case sessionMsg:
		m.AddLogEntry("")
		m.AddLogEntry(SuccessStyle.Render(m.formatter.FormatSession(msg.result)))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.sendResult(ActionResult{Action: "quit", Continue: false})
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				m.processAction(strings.TrimSpace(m.actionInput.Value()))
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			} else if m.adjustingSelector(msg) {
				m.selector.Up()
				return m, nil
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			} else if m.adjustingSelector(msg) {
				m.selector.Down()
				return m, nil
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// adjustingSelector reports whether an arrow key should move the selector.
// Letter keys keep their meaning while typing.
func (m *TUIModel) adjustingSelector(msg tea.KeyMsg) bool {
	return m.prompt.Kind.selects() && m.selector != nil &&
		(msg.Type == tea.KeyUp || msg.Type == tea.KeyDown) &&
		m.actionInput.Value() == ""
}

func (m *TUIModel) setPrompt(p Prompt) {
	m.prompt = p
	switch p.Kind {
	case PromptBet:
		m.view = p.View
		m.selector = blackjack.NewSelector(p.Limits.Min, p.Limits.Min, p.Limits.Max, p.Limits.Step)
		if m.lastBet > 0 {
			m.selector.Set(m.lastBet)
		}
	case PromptDecks:
		m.selector = blackjack.NewDeckSelector(deck.MinDecks, deck.MaxDecks)
		m.selector.Set(p.Initial)
	case PromptStartingCash:
		m.selector = blackjack.NewStartingCashSelector()
		m.selector.Set(p.Initial)
	case PromptExit:
	default:
		m.view = p.View
	}
}

func (m *TUIModel) applyEvent(ev blackjack.GameEvent) {
	switch e := ev.(type) {
	case blackjack.RoundStartEvent:
		m.view = e.View
		m.lastBet = e.View.Bet
	case blackjack.CardDealtEvent:
		m.view = e.View
	case blackjack.InsuranceResolvedEvent:
		m.view = e.View
	case blackjack.ActionRejectedEvent:
		m.view = e.View
	case blackjack.PlayerActionEvent:
		m.view = e.View
	case blackjack.HoleCardRevealedEvent:
		m.view = e.View
	case blackjack.ShoeReshuffledEvent:
		m.reshuffles = e.Info.Reshuffles
	case blackjack.RoundEndEvent:
		m.rounds = e.Result.Number
		m.lastNet = e.Result.Net
		m.view.Player = e.Result.Player
		m.view.Dealer = e.Result.Dealer
		m.view.Cash = e.Cash
		m.view.Bet = 0
		m.view.InsuranceStake = 0
	}
	if line := m.formatter.Format(ev); line != "" {
		m.AddLogEntry(line)
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(unfocusedBorder).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane == 1 {
		actionStyle = actionStyle.BorderForeground(focusedBorder)
	}
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right of the log, same height)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(unfocusedBorder).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top left)
	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight

	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.SetContent(m.renderLogPane())
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(unfocusedBorder).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(focusedBorder)
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder
	r := m.formatter.Renderer()

	content.WriteString(HeaderStyle.Render("BLACKJACK"))
	content.WriteString("\n\n")
	content.WriteString(CashStyle.Render(fmt.Sprintf("Cash: $%d", m.view.Cash)))
	content.WriteString("\n")
	if m.view.Bet > 0 {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: $%d", m.view.Bet)))
		content.WriteString("\n")
	}
	if m.view.InsuranceStake > 0 {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Insurance: $%d", m.view.InsuranceStake)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	if len(m.view.Dealer.Cards) > 0 {
		content.WriteString(r.Hand(m.view.Dealer))
		content.WriteString("\n")
	}
	if len(m.view.Player.Cards) > 0 {
		content.WriteString(r.Hand(m.view.Player))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(InfoStyle.Render(fmt.Sprintf("Rounds: %d", m.rounds)))
	content.WriteString("\n")
	if m.rounds > 0 {
		content.WriteString(InfoStyle.Render("Last: " + display.Money(m.lastNet)))
		content.WriteString("\n")
	}
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Shoe: %d cards", m.view.ShoeRemaining)))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Reshuffles: %d", m.reshuffles)))

	return content.String()
}

func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	if table := m.formatter.Renderer().Table(m.view); table != "" && !m.prompt.Kind.selects() {
		content.WriteString(table)
		content.WriteString("\n")
	}

	content.WriteString(m.renderPrompt())
	content.WriteString("\n")

	m.actionInput.Placeholder = m.placeholder()
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else if m.prompt.Kind.selects() {
		content.WriteString(InfoStyle.Render("↑↓ adjust • Enter to accept • Tab to scroll log • Ctrl+C to quit"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return content.String()
}

func (m *TUIModel) renderPrompt() string {
	switch m.prompt.Kind {
	case PromptBet:
		l := m.prompt.Limits
		return ActionsStyle.Render(fmt.Sprintf("Bet: $%d", m.selector.Value())) +
			InfoStyle.Render(fmt.Sprintf("  ($%d-$%d in steps of $%d)", l.Min, l.Max, l.Step))
	case PromptInsurance:
		return WarningStyle.Render(fmt.Sprintf("Dealer shows an ace. Insurance costs $%d [y/N]", m.prompt.Cost))
	case PromptAction:
		return m.renderAvailableActions()
	case PromptContinue:
		return HandInfoStyle.Render("Play another round? [Y/n]")
	case PromptExit:
		return HandInfoStyle.Render("Session over")
	case PromptDecks:
		return ActionsStyle.Render(fmt.Sprintf("Decks: %d", m.selector.Value())) +
			InfoStyle.Render(fmt.Sprintf("  (%d-%d)", deck.MinDecks, deck.MaxDecks))
	case PromptStartingCash:
		return ActionsStyle.Render(fmt.Sprintf("Starting cash: $%d", m.selector.Value())) +
			InfoStyle.Render(fmt.Sprintf("  ($%d-$%d in steps of $%d)", blackjack.MinStartingCash,
				blackjack.MaxStartingCash, blackjack.StartingCashStep))
	default:
		return HandInfoStyle.Render("Waiting...")
	}
}

func (m *TUIModel) renderAvailableActions() string {
	var actions []string
	for _, a := range m.prompt.Valid {
		switch a {
		case blackjack.Hit:
			actions = append(actions, WarningStyle.Render("[hit]"))
		case blackjack.Stand:
			actions = append(actions, SuccessStyle.Render("[stand]"))
		case blackjack.Double:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[double $%d]", m.prompt.View.Bet)))
		case blackjack.Quit:
			actions = append(actions, ErrorStyle.Render("[quit]"))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}
	return ActionsStyle.Render("Actions: ") + strings.Join(actions, " ")
}

func (m *TUIModel) placeholder() string {
	switch m.prompt.Kind {
	case PromptBet:
		return "Enter to bet the amount shown, or type one (min, max, 25)"
	case PromptInsurance:
		return "y or n"
	case PromptAction:
		return "hit, stand, double or quit (h, s, d, q)"
	case PromptContinue:
		return "Enter to deal again, n to stop"
	case PromptExit:
		return "Enter to exit"
	case PromptDecks:
		return "Enter to use the decks shown, or type a number"
	case PromptStartingCash:
		return "Enter to start with the cash shown, or type an amount"
	default:
		return "Waiting for the dealer"
	}
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// processAction hands typed input to whoever waits in WaitForAction. An empty
// line at a selector prompt submits the selected value.
func (m *TUIModel) processAction(input string) {
	if m.prompt.Kind == PromptNone {
		m.AddLogEntry(InfoStyle.Render("Not waiting for input"))
		return
	}
	if input == "" && m.prompt.Kind.selects() && m.selector != nil {
		input = strconv.Itoa(m.selector.Value())
	}

	parts := strings.Fields(strings.ToLower(input))
	result := ActionResult{Continue: true}
	if len(parts) > 0 {
		result.Action = parts[0]
		result.Args = parts[1:]
	}

	m.prompt.Kind = PromptNone
	m.sendResult(result)
}

func (m *TUIModel) sendResult(r ActionResult) {
	select {
	case m.actionResult <- r:
	default:
		m.logger.Warn("Dropping input, previous input not consumed", "action", r.Action)
	}
}

// WaitForAction waits for user input or ctx cancellation
func (m *TUIModel) WaitForAction(ctx context.Context) (ActionResult, error) {
	select {
	case <-ctx.Done():
		return ActionResult{}, ctx.Err()
	case result := <-m.actionResult:
		if !result.Continue {
			return result, ErrUserQuit
		}
		return result, result.Error
	}
}

// SendQuitSignal signals the TUI to quit gracefully
func (m *TUIModel) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectAction programmatically injects an action (test mode only)
func (m *TUIModel) InjectAction(action string, args []string) error {
	if !m.testMode {
		return fmt.Errorf("action injection only available in test mode")
	}

	select {
	case m.actionResult <- ActionResult{Action: action, Args: args, Continue: true}:
		return nil
	default:
		return fmt.Errorf("action channel full")
	}
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// CurrentPrompt returns the decision the table is waiting on
func (m *TUIModel) CurrentPrompt() Prompt { return m.prompt }

// TableView returns the last table state the model has seen
func (m *TUIModel) TableView() blackjack.TableView { return m.view }
