package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"holdem-arena/server/agent"
	"holdem-arena/server/engine"
)

// ErrQuit is returned by Human.Decide when the player leaves the table.
var ErrQuit = errors.New("player quit")

const quitOption = "Quit"

// Prompter asks the terminal user for input.
type Prompter interface {
	Select(prompt string, options []string) (string, error)
	Text(prompt, def string) (string, error)
}

type ptermPrompter struct{}

func (ptermPrompter) Select(prompt string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.WithDefaultText(prompt).WithOptions(options).Show()
}

func (ptermPrompter) Text(prompt, def string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).WithDefaultValue(def).Show()
}

// Human is the agent.Agent for the seat driven from the terminal.
type Human struct {
	name   string
	prompt Prompter
}

// NewHuman returns a Human reading from p, or from interactive pterm
// prompts when p is nil.
func NewHuman(name string, p Prompter) *Human {
	if p == nil {
		p = ptermPrompter{}
	}
	return &Human{name: name, prompt: p}
}

func (h *Human) Name() string { return h.name }

// Options lists the menu entries for the legal actions.
func Options(obs agent.Observation) []string {
	out := make([]string, 0, len(obs.Legal)+1)
	for _, k := range obs.Legal {
		switch k {
		case engine.Fold:
			out = append(out, "Fold")
		case engine.Check:
			out = append(out, "Check")
		case engine.Call:
			out = append(out, fmt.Sprintf("Call %d", min(obs.ToCall, obs.Stacks["hero"])))
		case engine.Raise:
			out = append(out, fmt.Sprintf("Raise (%d-%d)", obs.MinRaiseTo, obs.MaxRaiseTo))
		}
	}
	return append(out, quitOption)
}

// Decide re-prompts until the choice validates.
func (h *Human) Decide(ctx context.Context, obs agent.Observation) (engine.Action, error) {
	opts := Options(obs)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		choice, err := h.prompt.Select("Select your next action", opts)
		if err != nil {
			return nil, err
		}
		if choice == quitOption {
			return nil, ErrQuit
		}

		out := agent.ActionOut{Action: strings.ToLower(strings.Fields(choice)[0])}
		if out.Action == string(engine.Raise) {
			s, err := h.prompt.Text(fmt.Sprintf("Raise to (%d-%d)", obs.MinRaiseTo, obs.MaxRaiseTo), strconv.Itoa(obs.MinRaiseTo))
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				pterm.Error.Printfln("Not a number: %q", s)
				continue
			}
			out.Amount = &n
		}

		act, err := agent.Validate(obs, out)
		if err != nil {
			pterm.Error.Printfln("Invalid action: %s", err)
			continue
		}
		return act, nil
	}
}
