package engine

import (
	"fmt"
	"slices"
)

type Player struct {
	Seat      Seat   `json:"seat"`
	Name      string `json:"name"`
	Stack     int    `json:"stack"`
	Committed int    `json:"committed"` // this street
	Hole      []Card `json:"hole"`
	Folded    bool   `json:"folded"`
	AllIn     bool   `json:"all_in"`
	// Acted is set once the player has acted since the last raise. Posting a
	// blind does not count.
	Acted bool `json:"-"`
}

// Round is the per-street betting state.
type Round struct {
	Stage  Stage  `json:"stage"`
	Board  []Card `json:"board"`
	Pot    int    `json:"pot"`
	CurBet int    `json:"cur_bet"`
	// Actions counts actions on the street; a raise resets it to 1.
	Actions int  `json:"actions"`
	ToAct   Seat `json:"to_act"`
}

// Result describes how a hand was settled.
type Result struct {
	Winners   []Seat  `json:"winners"`
	Pot       int     `json:"pot"`
	Payout    [2]int  `json:"payout"`
	Remainder int     `json:"remainder,omitempty"`
	Showdown  bool    `json:"showdown"`
	Evals     [2]Eval `json:"evals"`
}

func (r Result) Split() bool { return len(r.Winners) == 2 }

// Hand is the complete state of one hand. It is a value: Step returns a new
// Hand and never mutates its receiver.
type Hand struct {
	ID      string    `json:"id"`
	Cfg     Config    `json:"-"`
	Dealer  Seat      `json:"dealer"`
	Start   [2]int    `json:"start"` // stacks before blinds
	Round   Round     `json:"round"`
	Players [2]Player `json:"players"`
	Deck    Deck      `json:"-"`
	History []Record  `json:"history"`
	Result  *Result   `json:"result,omitempty"`
}

// NewHand posts the blinds, deals hole cards and, when a short blind leaves
// nobody able to bet, runs the hand out. The dealer posts the small blind and
// acts first pre-flop. A player short of a blind posts what they have and is
// all-in.
func NewHand(id string, cfg Config, dealer Seat, names [2]string, stacks [2]int, deck Deck) (Hand, error) {
	h, err := deal(id, cfg, dealer, names, stacks, deck)
	if err != nil {
		return Hand{}, err
	}
	if h, err = advanceAll(h); err != nil {
		return Hand{}, err
	}
	return h, nil
}

// deal is NewHand without advancing.
func deal(id string, cfg Config, dealer Seat, names [2]string, stacks [2]int, deck Deck) (Hand, error) {
	if stacks[0] <= 0 || stacks[1] <= 0 {
		return Hand{}, ErrGameOver
	}
	h := Hand{
		ID:     id,
		Cfg:    cfg,
		Dealer: dealer,
		Start:  stacks,
		Deck:   deck,
		Round:  Round{Stage: PreFlop, ToAct: dealer},
	}
	for i := range h.Players {
		h.Players[i] = Player{Seat: Seat(i), Name: names[i], Stack: stacks[i]}
	}

	h.bet(h.player(dealer), cfg.SB)
	h.bet(h.player(dealer.Other()), cfg.BB)
	h.returnUncalled()

	for _r := 0; _r < 2; _r++ {
		for _, s := range []Seat{dealer.Other(), dealer} {
			c, err := h.Deck.Deal()
			if err != nil {
				return Hand{}, err
			}
			p := h.player(s)
			p.Hole = append(p.Hole, c)
		}
	}
	return h, nil
}

func (h *Hand) player(s Seat) *Player { return &h.Players[s] }

func (h Hand) Player(s Seat) Player { return h.Players[s] }

func (h Hand) Actor() Player { return h.Players[h.Round.ToAct] }

func (h Hand) Stage() Stage { return h.Round.Stage }

// Over reports whether the hand has been settled.
func (h Hand) Over() bool { return h.Round.Stage == HandOver }

// ToCall is the amount s owes to match the current bet.
func (h Hand) ToCall(s Seat) int {
	return max(0, h.Round.CurBet-h.Players[s].Committed)
}

// Chips is the sum of both stacks plus the pot; it only changes between hands.
func (h Hand) Chips() int { return h.Players[0].Stack + h.Players[1].Stack + h.Round.Pot }

func (h *Hand) bet(p *Player, amt int) int {
	if amt >= p.Stack {
		amt = p.Stack
		p.AllIn = true
	}
	p.Stack -= amt
	p.Committed += amt
	h.Round.Pot += amt
	h.Round.CurBet = max(h.Players[0].Committed, h.Players[1].Committed)
	return amt
}

// returnUncalled gives back the part of a contribution the all-in opponent
// cannot match, keeping street contributions equal without side pots.
func (h *Hand) returnUncalled() {
	a, b := h.player(SeatA), h.player(SeatB)
	hi, lo := a, b
	if b.Committed > a.Committed {
		hi, lo = b, a
	}
	if !lo.AllIn || hi.Committed == lo.Committed {
		return
	}
	excess := hi.Committed - lo.Committed
	hi.Committed -= excess
	hi.Stack += excess
	if hi.Stack > 0 {
		hi.AllIn = false
	}
	h.Round.Pot -= excess
	h.Round.CurBet = lo.Committed
}

// Legal is the action set for the seat on turn.
type Legal struct {
	Actions    []ActionKind `json:"actions"`
	ToCall     int          `json:"to_call"`
	MinRaiseTo int          `json:"min_raise_to"`
	MaxRaiseTo int          `json:"max_raise_to"`
}

func (l Legal) Allows(k ActionKind) bool { return slices.Contains(l.Actions, k) }

func (h Hand) Legal() Legal {
	if !h.Round.Stage.Betting() || h.RoundComplete() {
		return Legal{}
	}
	a := h.Actor()
	opp := h.Players[a.Seat.Other()]
	l := Legal{ToCall: h.ToCall(a.Seat)}
	if l.ToCall == 0 {
		l.Actions = append(l.Actions, Check)
	} else {
		l.Actions = append(l.Actions, Fold, Call)
	}
	if !a.AllIn && !opp.AllIn && a.Stack > l.ToCall {
		l.MaxRaiseTo = a.Stack + a.Committed
		l.MinRaiseTo = min(max(h.Cfg.BB, 2*h.Round.CurBet), l.MaxRaiseTo)
		l.Actions = append(l.Actions, Raise)
	}
	return l
}

// Validate checks act against the legal set without applying it.
func (h Hand) Validate(act Action) error {
	if !h.Round.Stage.Betting() {
		return ErrHandOver
	}
	l := h.Legal()
	if act == nil || !l.Allows(act.Kind()) {
		kind := "nil"
		if act != nil {
			kind = string(act.Kind())
		}
		return fmt.Errorf("%w: %s not in %v", ErrInvalidAction, kind, l.Actions)
	}
	if r, ok := act.(RaiseAction); ok && r.To < l.MinRaiseTo {
		return fmt.Errorf("%w: min raise to %d", ErrInvalidAction, l.MinRaiseTo)
	}
	return nil
}

// Apply applies act for the seat on turn and returns the resulting state
// without dealing or settling: a street closed by act stays on its stage
// with Pending set. On error the returned Hand is h, unchanged.
//
// A raise above the actor's stack is capped to all-in.
func Apply(h Hand, act Action) (Hand, error) {
	if err := h.Validate(act); err != nil {
		return h, err
	}
	n := h.clone()
	p := n.player(n.Round.ToAct)
	rec := Record{Seat: p.Seat, Stage: n.Round.Stage, Kind: act.Kind()}

	n.Round.Actions++
	switch a := act.(type) {
	case FoldAction:
		p.Folded = true
	case CheckAction:
		p.Acted = true
	case CallAction:
		rec.Amount = n.bet(p, n.ToCall(p.Seat))
		p.Acted = true
		n.returnUncalled()
	case RaiseAction:
		to := min(a.To, p.Stack+p.Committed)
		n.bet(p, to-p.Committed)
		rec.Amount = to
		n.Round.Actions = 1
		p.Acted = true
		n.player(p.Seat.Other()).Acted = false
	}
	n.History = append(n.History, rec)

	if !n.RoundComplete() {
		n.Round.ToAct = p.Seat.Other()
	}
	return n, nil
}

// Step applies act and then makes every pending transition, so the result
// is either waiting on the next decision or settled. On error the returned
// Hand is h, unchanged.
func Step(h Hand, act Action) (Hand, error) {
	n, err := Apply(h, act)
	if err != nil {
		return h, err
	}
	if n, err = advanceAll(n); err != nil {
		return h, err
	}
	return n, nil
}

// Pending reports whether a transition is due before the next decision: a
// closed street to deal past, or a showdown to settle.
func (h Hand) Pending() bool {
	switch {
	case h.Round.Stage == Showdown:
		return true
	case h.Round.Stage.Betting():
		return h.RoundComplete()
	}
	return false
}

// Advance makes one pending transition. A fold settles at once; a closed
// river moves to Showdown with both hands shown; Showdown settles the pot;
// any other closed street deals the next one. It returns h unchanged when
// nothing is pending, and on error.
func Advance(h Hand) (Hand, error) {
	if !h.Pending() {
		return h, nil
	}
	n := h.clone()
	switch {
	case n.Players[0].Folded || n.Players[1].Folded:
		n.settleFold()
	case n.Round.Stage == Showdown:
		n.settleShowdown()
	case n.Round.Stage == River:
		n.Round.Stage = Showdown
	default:
		if err := n.nextStreet(); err != nil {
			return h, err
		}
	}
	return n, nil
}

// advanceAll advances until a decision is needed or the hand is settled.
// With a player all-in this runs the board out.
func advanceAll(h Hand) (Hand, error) {
	for h.Pending() {
		n, err := Advance(h)
		if err != nil {
			return h, err
		}
		h = n
	}
	return h, nil
}

// RoundComplete reports whether the current street's betting is closed: a
// fold ends it at once; otherwise contributions must be equal and every
// player still able to bet must have acted since the last raise.
func (h Hand) RoundComplete() bool {
	a, b := h.Players[0], h.Players[1]
	if a.Folded || b.Folded {
		return true
	}
	if a.Committed != b.Committed {
		return false
	}
	if a.AllIn || b.AllIn {
		return true
	}
	return a.Acted && b.Acted
}

func (h *Hand) nextStreet() error {
	deal := 1
	if h.Round.Stage == PreFlop {
		deal = 3
	}
	for _r := 0; _r < deal; _r++ {
		c, err := h.Deck.Deal()
		if err != nil {
			return err
		}
		h.Round.Board = append(h.Round.Board, c)
	}
	h.Round.Stage++
	h.Round.CurBet = 0
	h.Round.Actions = 0
	h.Round.ToAct = h.Dealer.Other()
	for i := range h.Players {
		h.Players[i].Committed = 0
		h.Players[i].Acted = false
	}
	return nil
}

func (h *Hand) settleFold() {
	w := SeatA
	if h.Players[SeatA].Folded {
		w = SeatB
	}
	res := Result{Winners: []Seat{w}, Pot: h.Round.Pot}
	res.Payout[w] = h.Round.Pot
	h.pay(res)
}

func (h *Hand) settleShowdown() {
	var res Result
	res.Pot = h.Round.Pot
	res.Showdown = true
	for i, p := range h.Players {
		res.Evals[i] = Evaluate(append(slices.Clone(p.Hole), h.Round.Board...))
	}
	switch Compare(res.Evals[SeatA], res.Evals[SeatB]) {
	case 1:
		res.Winners = []Seat{SeatA}
		res.Payout[SeatA] = res.Pot
	case -1:
		res.Winners = []Seat{SeatB}
		res.Payout[SeatB] = res.Pot
	default:
		// an odd chip is dropped
		res.Winners = []Seat{SeatA, SeatB}
		half := res.Pot / 2
		res.Payout = [2]int{half, half}
		res.Remainder = res.Pot - 2*half
	}
	h.pay(res)
}

func (h *Hand) pay(res Result) {
	for i := range h.Players {
		h.Players[i].Stack += res.Payout[i]
		h.Players[i].Committed = 0
	}
	h.Round.Pot = 0
	h.Round.CurBet = 0
	h.Round.Stage = HandOver
	h.Result = &res
}

func (h Hand) clone() Hand {
	n := h
	n.Round.Board = slices.Clone(h.Round.Board)
	n.History = slices.Clone(h.History)
	for i := range n.Players {
		n.Players[i].Hole = slices.Clone(h.Players[i].Hole)
	}
	if h.Result != nil {
		r := *h.Result
		r.Winners = slices.Clone(h.Result.Winners)
		n.Result = &r
	}
	return n
}

// Stacks returns both players' stacks.
func (h Hand) Stacks() [2]int { return [2]int{h.Players[0].Stack, h.Players[1].Stack} }
