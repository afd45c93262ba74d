package agent

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"holdem-arena/server/engine"
)

// Defaults for the heuristic policy.
const (
	DefaultBluffProb   = 0.1
	DefaultOpenRaiseTo = 50
)

// Heuristic is a fixed-threshold policy over hand category. Its only random
// input is the bluff draw, taken when it would otherwise fold.
type Heuristic struct {
	name        string
	rng         engine.RNG
	bluffProb   float64
	openRaiseTo int
	logger      *log.Logger
}

type Option func(*Heuristic)

func WithBluffProb(p float64) Option { return func(h *Heuristic) { h.bluffProb = p } }

// WithOpenRaiseTo sets the raise target used when nothing is owed.
func WithOpenRaiseTo(to int) Option { return func(h *Heuristic) { h.openRaiseTo = to } }

func WithLogger(l *log.Logger) Option { return func(h *Heuristic) { h.logger = l.WithPrefix("agent") } }

func NewHeuristic(name string, rng engine.RNG, opts ...Option) *Heuristic {
	h := &Heuristic{
		name:        name,
		rng:         rng,
		bluffProb:   DefaultBluffProb,
		openRaiseTo: DefaultOpenRaiseTo,
		logger:      log.New(io.Discard),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *Heuristic) Name() string { return h.name }

// Strength scores a holding in [0,1]. With no board it scores the hole cards
// alone: a pocket pair is 0.8, a queen or better 0.6, anything else 0.2.
func Strength(hole, board []engine.Card) float64 {
	if len(board) == 0 {
		if len(hole) == 2 && hole[0].Rank == hole[1].Rank {
			return 0.8
		}
		for _, c := range hole {
			if c.Rank >= engine.Queen {
				return 0.6
			}
		}
		return 0.2
	}

	e := engine.Evaluate(append(slices.Clone(hole), board...))
	switch {
	case e.Category >= engine.FullHouse:
		return 0.95
	case e.Category == engine.Flush:
		return 0.9
	case e.Category == engine.Straight:
		return 0.8
	case e.Category == engine.ThreeOfAKind:
		return 0.7
	case e.Category == engine.TwoPair:
		return 0.6
	case e.Category == engine.Pair:
		return 0.4
	default:
		return 0.1
	}
}

// Decide never returns an error; the signature satisfies Agent.
func (h *Heuristic) Decide(_ context.Context, obs Observation) (engine.Action, error) {
	strength := Strength(obs.HoleCards, obs.Board)
	act, bluff := h.choose(obs, strength)
	kind, amt := Describe(act)
	h.logger.Debug("decision", "hand", obs.HandID, "street", obs.Street, "strength", strength,
		"to_call", obs.ToCall, "action", kind, "amount", amt, "bluff", bluff)
	return act, nil
}

func (h *Heuristic) choose(obs Observation, strength float64) (act engine.Action, bluff bool) {
	if obs.ToCall == 0 {
		if strength > 0.7 {
			return h.raise(obs, h.openRaiseTo), false
		}
		return engine.CheckAction{}, false
	}

	switch {
	case strength > 0.8:
		return h.raise(obs, 2*obs.ToCall), false
	case strength > 0.4:
		return engine.CallAction{}, false
	}
	if h.rng.Float64() < h.bluffProb {
		return h.raise(obs, 2*obs.ToCall), true
	}
	return engine.FoldAction{}, false
}

// raise clamps to into the legal raise window. When a raise is not legal it
// falls back to calling what is owed, or checking.
func (h *Heuristic) raise(obs Observation, to int) engine.Action {
	if !obs.CanRaise() {
		if obs.ToCall > 0 {
			return engine.CallAction{}
		}
		return engine.CheckAction{}
	}
	return engine.RaiseAction{To: max(obs.MinRaiseTo, min(to, obs.MaxRaiseTo))}
}
