package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"holdem-arena/server/engine"
)

// Terminal draws the table after every change, from the point of view of
// the human seat. It implements engine.Sink.
type Terminal struct {
	human engine.Seat
	names [2]string
	out   io.Writer
}

func NewTerminal(human engine.Seat, names [2]string) *Terminal {
	return &Terminal{human: human, names: names, out: os.Stdout}
}

// WithOutput redirects rendering, mostly for tests.
func (t *Terminal) WithOutput(w io.Writer) *Terminal {
	t.out = w
	return t
}

func (t *Terminal) Render(v engine.View) {
	s, err := t.Sprint(v)
	if err != nil {
		pterm.Error.Printfln("render: %v", err)
		return
	}
	fmt.Fprintln(t.out, s)
}

func (t *Terminal) Sprint(v engine.View) (string, error) {
	opp := t.human.Other()
	mine := []pterm.Panel{{Data: t.seatBox(v, t.human, true)}}
	if v.Last != nil {
		mine = append(mine, pterm.Panel{Data: t.lastActionBox(*v.Last)})
	}
	rows := [][]pterm.Panel{
		{{Data: t.seatBox(v, opp, v.Reveal)}},
		{{Data: boardHeader(v)}},
		mine,
	}
	if v.Result != nil {
		box := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
		title := pterm.LightGreen("|SHOWDOWN|")
		if !v.Result.Showdown {
			title = pterm.LightGreen("|RESULT|")
		}
		rows = append(rows, []pterm.Panel{{Data: box.WithTitle(title).WithTitleTopCenter().Sprint(ResultLine(*v.Result, t.names))}})
	}
	return pterm.DefaultPanel.WithPanels(rows).Srender()
}

func (t *Terminal) seatBox(v engine.View, s engine.Seat, show bool) string {
	p := v.Players[s]
	pad := 4
	if s == t.human {
		pad = 10
	}
	box := pterm.DefaultBox.WithLeftPadding(pad).WithRightPadding(pad).WithTopPadding(1).WithBottomPadding(1)

	title := p.Name
	if v.Dealer == s {
		title += " (D)"
	}
	var status string
	switch {
	case p.Folded:
		status = pterm.LightRed("Folded")
	case p.AllIn:
		status = pterm.LightYellow("All-in")
	case v.Stage.Betting() && v.ToAct == s && !closedBy(v, s):
		status = pterm.LightCyan("To act")
	default:
		status = pterm.LightGreen("Active")
	}
	return box.WithTitle(title).WithTitleTopLeft().Sprintf("Stack: %d\nBet: %d\n%s\n%s",
		p.Stack, p.Committed, Hole(p.Hole, !show), status)
}

// closedBy reports whether v shows s's own action closing the street, when
// nobody is on turn until the next card.
func closedBy(v engine.View, s engine.Seat) bool {
	return v.Event == engine.EventAction && v.Last != nil && v.Last.Seat == s
}

func (t *Terminal) lastActionBox(r engine.Record) string {
	box := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	return box.WithTitle(pterm.LightYellow("|LAST ACTION|")).WithTitleTopCenter().Sprint(ActionLine(r, t.names))
}

func boardHeader(v engine.View) string {
	return pterm.DefaultHeader.WithBackgroundStyle(pterm.BgGreen.ToStyle()).
		Sprintf("%s  Pot: %d | %s", Board(v.Board), v.Pot, v.Stage)
}

// Card renders a card with its suit glyph, hearts and diamonds in red.
func Card(c engine.Card) string {
	if c.Red() {
		return pterm.LightRed(c.String())
	}
	return c.String()
}

// Hole renders hole cards, or face-down backs when hidden.
func Hole(cards []engine.Card, hidden bool) string {
	if hidden {
		return strings.TrimSpace(strings.Repeat("▒▒ ", len(cards)))
	}
	return Board(cards)
}

func Board(cards []engine.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = Card(c)
	}
	return strings.Join(out, " ")
}

func ActionLine(r engine.Record, names [2]string) string {
	who := pterm.LightCyan(names[r.Seat])
	switch r.Kind {
	case engine.Raise:
		return fmt.Sprintf("%s raises to %d", who, r.Amount)
	case engine.Call:
		return fmt.Sprintf("%s calls %d", who, r.Amount)
	case engine.Check:
		return fmt.Sprintf("%s checks", who)
	default:
		return fmt.Sprintf("%s folds", who)
	}
}

// ResultLine summarises how a hand was settled.
func ResultLine(r engine.Result, names [2]string) string {
	if r.Split() {
		return fmt.Sprintf("Split pot, %d each with %s", r.Payout[engine.SeatA], r.Evals[engine.SeatA].Name)
	}
	w := r.Winners[0]
	if !r.Showdown {
		return fmt.Sprintf("%s wins %d", pterm.LightCyan(names[w]), r.Pot)
	}
	return fmt.Sprintf("%s wins %d with %s", pterm.LightCyan(names[w]), r.Pot, r.Evals[w].Name)
}
