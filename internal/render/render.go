// Package render formats table views for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/game"
)

// Renderer turns views into styled text.
type Renderer struct {
	header    lipgloss.Style
	info      lipgloss.Style
	turn      lipgloss.Style
	folded    lipgloss.Style
	redCard   lipgloss.Style
	blackCard lipgloss.Style
	win       lipgloss.Style
	errStyle  lipgloss.Style
}

// New returns a renderer for w. With color disabled every style renders as
// plain text.
func New(w io.Writer, color bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if !color {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		header: lr.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		info: lr.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		turn: lr.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		folded: lr.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Strikethrough(true),
		redCard: lr.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		blackCard: lr.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		win: lr.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		errStyle: lr.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
	}
}

// Card renders one card, red for hearts and diamonds.
func (r *Renderer) Card(c deck.Card) string {
	if c.Suit == deck.Hearts || c.Suit == deck.Diamonds {
		return r.redCard.Render(c.String())
	}
	return r.blackCard.Render(c.String())
}

// Cards renders cards separated by spaces, or "--" when there are none.
func (r *Renderer) Cards(cards []deck.Card) string {
	if len(cards) == 0 {
		return r.info.Render("--")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = r.Card(c)
	}
	return strings.Join(parts, " ")
}

// Error renders a server error line.
func (r *Renderer) Error(code, message string) string {
	return r.errStyle.Render(fmt.Sprintf("error [%s]: %s", code, message))
}

// View renders a whole table view.
func (r *Renderer) View(v game.View) string {
	var b strings.Builder

	title := fmt.Sprintf(" Table %s  v%d ", v.TableID, v.Version)
	if v.Viewer != "" {
		title += fmt.Sprintf("(%s) ", v.Viewer)
	}
	b.WriteString(r.header.Render(title))
	b.WriteString("\n")

	if v.Hand == nil {
		for _, p := range v.Players {
			fmt.Fprintf(&b, "  %-16s stack %8.2f\n", p.DisplayName, p.Stack)
		}
		b.WriteString(r.info.Render("No hand dealt yet"))
		b.WriteString("\n")
		return b.String()
	}

	h := v.Hand
	fmt.Fprintf(&b, "Hand #%d  %s  pot %.2f  bet %.2f  blinds %.2f/%.2f\n",
		h.Number, h.Phase, h.Pot, h.CurrentBet, h.SmallBlind, h.BigBlind)
	fmt.Fprintf(&b, "Board: %s\n", r.Cards(h.CommunityCards))

	for _, s := range h.Seats {
		b.WriteString(r.seat(s))
		b.WriteString("\n")
	}

	if len(h.LegalActions) > 0 {
		actions := make([]string, len(h.LegalActions))
		for i, a := range h.LegalActions {
			actions[i] = string(a)
		}
		b.WriteString(r.turn.Render(fmt.Sprintf("Your turn: %s (to call %.2f, min raise %.2f)",
			strings.Join(actions, ", "), h.ToCall, h.MinimumRaise)))
		b.WriteString("\n")
	}

	for _, w := range h.Winners {
		line := fmt.Sprintf("%s wins %.2f", w.DisplayName, w.AmountWon)
		if w.Hand != nil {
			line += fmt.Sprintf(" with %s", w.Hand.Category)
		}
		b.WriteString(r.win.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) seat(s game.SeatView) string {
	marker := "  "
	if s.IsTurn {
		marker = "> "
	}
	name := s.DisplayName
	if s.Role != game.RoleNone {
		name += " (" + string(s.Role) + ")"
	}
	line := fmt.Sprintf("%s%-24s stack %8.2f  in %7.2f  %s", marker, name, s.TableStack, s.TotalHandContribution, r.Cards(s.HoleCards))
	if s.LastAction != "" {
		line += "  " + r.info.Render(s.LastAction)
	}

	switch {
	case s.Lifecycle == game.Folded:
		return r.folded.Render(line)
	case s.IsTurn:
		return r.turn.Render(line)
	}
	return line
}
