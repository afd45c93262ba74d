package agent

import (
	"context"
	"fmt"
	"strings"

	"holdem-arena/server/engine"
)

// Agent decides for a seat that is not driven by a human.
type Agent interface {
	Name() string
	Decide(ctx context.Context, obs Observation) (engine.Action, error)
}

// Observation is everything a seat may see when it is asked to act.
type Observation struct {
	HandID     string              `json:"hand_id"`
	Seat       engine.Seat         `json:"seat"`
	Dealer     bool                `json:"dealer"`
	Street     engine.Stage        `json:"street"`
	HoleCards  []engine.Card       `json:"hole_cards"` // e.g. ["As","Kd"]
	Board      []engine.Card       `json:"board"`      // 0..5 cards
	Stacks     map[string]int      `json:"stacks"`     // {hero, villain} chips behind
	Blinds     map[string]int      `json:"blinds"`     // {sb, bb}
	Pot        int                 `json:"pot"`
	ToCall     int                 `json:"to_call"`
	MinRaiseTo int                 `json:"min_raise_to"`  // absolute raise-to
	MaxRaiseTo int                 `json:"max_raise_to"`  // absolute raise-to (all-in)
	Legal      []engine.ActionKind `json:"legal_actions"` // empty when not on turn
	HistoryLen int                 `json:"history_len"`
}

// CanRaise reports whether raise is among the legal actions.
func (o Observation) CanRaise() bool { return o.allows(engine.Raise) }

func (o Observation) allows(k engine.ActionKind) bool {
	for _, l := range o.Legal {
		if l == k {
			return true
		}
	}
	return false
}

// BuildObservation converts engine state into the view of one seat. The
// opponent's hole cards are never included.
func BuildObservation(h engine.Hand, seat engine.Seat) Observation {
	p := h.Player(seat)
	o := h.Player(seat.Other())

	obs := Observation{
		HandID:     h.ID,
		Seat:       seat,
		Dealer:     h.Dealer == seat,
		Street:     h.Stage(),
		HoleCards:  append([]engine.Card(nil), p.Hole...),
		Board:      append([]engine.Card(nil), h.Round.Board...),
		Stacks:     map[string]int{"hero": p.Stack, "villain": o.Stack},
		Blinds:     map[string]int{"sb": h.Cfg.SB, "bb": h.Cfg.BB},
		Pot:        h.Round.Pot,
		ToCall:     h.ToCall(seat),
		HistoryLen: len(h.History),
	}
	if h.Stage().Betting() && h.Round.ToAct == seat {
		l := h.Legal()
		obs.Legal = l.Actions
		obs.MinRaiseTo = l.MinRaiseTo
		obs.MaxRaiseTo = l.MaxRaiseTo
	}
	return obs
}

// ActionOut is the loosely typed action that arrives over the wire.
type ActionOut struct {
	Action string `json:"action"`           // fold|check|call|raise
	Amount *int   `json:"amount,omitempty"` // required if raise
}

// Validate checks a wire action against the observation and converts it to
// an engine action. A raise above the all-in amount is capped to all-in.
func Validate(o Observation, a ActionOut) (engine.Action, error) {
	kind := engine.ActionKind(strings.ToLower(strings.TrimSpace(a.Action)))
	// call with nothing owed is treated as check
	if o.ToCall == 0 && kind == engine.Call {
		kind = engine.Check
	}
	if !o.allows(kind) {
		return nil, fmt.Errorf("%w: %q (legal: %v)", engine.ErrInvalidAction, a.Action, o.Legal)
	}

	switch kind {
	case engine.Fold:
		return engine.FoldAction{}, nil
	case engine.Check:
		return engine.CheckAction{}, nil
	case engine.Call:
		return engine.CallAction{}, nil
	}

	if a.Amount == nil {
		return nil, fmt.Errorf("%w: raise requires amount", engine.ErrInvalidAction)
	}
	to := *a.Amount
	if to < o.MinRaiseTo {
		return nil, fmt.Errorf("%w: raise to %d below minimum %d", engine.ErrInvalidAction, to, o.MinRaiseTo)
	}
	return engine.RaiseAction{To: min(to, o.MaxRaiseTo)}, nil
}

// Describe is the inverse of Validate, used for logs and the store.
func Describe(a engine.Action) (string, *int) {
	if r, ok := a.(engine.RaiseAction); ok {
		to := r.To
		return string(engine.Raise), &to
	}
	return string(a.Kind()), nil
}
