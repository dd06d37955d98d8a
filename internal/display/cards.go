// Package display renders cards, hands and table events as text for the
// terminal interface and the session log.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

// Options controls how cards are drawn
type Options struct {
	// Color enables red/black card colouring
	Color bool
	// Output is where the rendered text ends up; it decides the detected
	// color profile. Defaults to stdout.
	Output io.Writer
}

// Renderer draws cards and hands. All styles come from one lipgloss renderer
// so a plain profile strips every escape sequence.
type Renderer struct {
	lg *lipgloss.Renderer

	red    lipgloss.Style
	black  lipgloss.Style
	hidden lipgloss.Style
	label  lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
	title  lipgloss.Style
}

// NewRenderer builds a renderer for the given options
func NewRenderer(opts Options) *Renderer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	lg := lipgloss.NewRenderer(out)
	if !opts.Color {
		lg.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		lg:     lg,
		red:    lg.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		black:  lg.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
		hidden: lg.NewStyle().Foreground(lipgloss.Color("#626262")),
		label:  lg.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		good:   lg.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		bad:    lg.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		title:  lg.NewStyle().Bold(true),
	}
}

// Plain returns a renderer without colours, used for logs and tests
func Plain() *Renderer {
	return NewRenderer(Options{Color: false, Output: io.Discard})
}

func (r *Renderer) suitStyle(c deck.Card) lipgloss.Style {
	if c.IsRed() {
		return r.red
	}
	return r.black
}

// Card renders a single card, "??" when face down
func (r *Renderer) Card(c deck.Card) string {
	if !c.IsValid() {
		return r.hidden.Render("??")
	}
	return r.suitStyle(c).Render(c.String())
}

// Cards renders a hand's cards inline, e.g. "[A♠ ??]"
func (r *Renderer) Cards(v blackjack.HandView) string {
	parts := make([]string, len(v.Cards))
	for i, c := range v.Cards {
		if v.IsHidden(i) {
			parts[i] = r.hidden.Render("??")
			continue
		}
		parts[i] = r.Card(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Total describes a hand value with its qualifiers
func (r *Renderer) Total(v blackjack.HandView) string {
	switch {
	case v.Busted:
		return r.bad.Render(fmt.Sprintf("%d BUST", v.Value))
	case v.Natural:
		return r.good.Render("BLACKJACK")
	case len(v.Cards) >= blackjack.CharlieCards:
		return r.good.Render(fmt.Sprintf("%d CHARLIE", v.Value))
	case v.Soft && v.Value < 21:
		return fmt.Sprintf("soft %d", v.Value)
	default:
		return fmt.Sprintf("%d", v.Value)
	}
}

// Hand renders "Player [K♠ 7♥] (17)" with a doubled marker when set
func (r *Renderer) Hand(v blackjack.HandView) string {
	line := fmt.Sprintf("%s %s (%s)", r.label.Render(v.Owner.String()), r.Cards(v), r.Total(v))
	if v.Doubled {
		line += " doubled"
	}
	return line
}

const boxWidth = 7

// Boxes draws the hand as a row of ASCII card boxes:
//
//	+-----+ +-----+
//	|A    | |/////|
//	|  ♠  | |/////|
//	|    A| |/////|
//	+-----+ +-----+
func (r *Renderer) Boxes(v blackjack.HandView) string {
	if len(v.Cards) == 0 {
		return ""
	}
	rows := make([][]string, 5)
	for i, c := range v.Cards {
		for j, line := range r.box(c, v.IsHidden(i) || !c.IsValid()) {
			rows[j] = append(rows[j], line)
		}
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, " ")
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) box(c deck.Card, hidden bool) [5]string {
	edge := "+" + strings.Repeat("-", boxWidth-2) + "+"
	if hidden {
		back := "|" + r.hidden.Render(strings.Repeat("/", boxWidth-2)) + "|"
		return [5]string{edge, back, back, back, edge}
	}
	style := r.suitStyle(c)
	rank := c.Rank.String()
	return [5]string{
		edge,
		"|" + style.Render(rank) + strings.Repeat(" ", boxWidth-3) + "|",
		"|  " + style.Render(c.Suit.String()) + "  |",
		"|" + strings.Repeat(" ", boxWidth-3) + style.Render(rank) + "|",
		edge,
	}
}

// Table renders both hands as boxes with their totals, dealer first
func (r *Renderer) Table(view blackjack.TableView) string {
	var sb strings.Builder
	for _, h := range []blackjack.HandView{view.Dealer, view.Player} {
		if len(h.Cards) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s (%s)\n", r.label.Render(h.Owner.String()), r.Total(h))
		sb.WriteString(r.Boxes(h))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
