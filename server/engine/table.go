package engine

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Event names the state change a View reports.
type Event string

const (
	EventDeal     Event = "deal"     // blinds posted, hole cards dealt
	EventAction   Event = "action"   // Last was applied; nothing dealt yet
	EventStreet   Event = "street"   // next street dealt
	EventShowdown Event = "showdown" // hands turned over, pot not yet paid
	EventSettle   Event = "settle"   // pot paid, Result set
)

// View is what a rendering sink gets after every state change. Table.View
// snapshots leave Event empty.
type View struct {
	Event   Event     `json:"event,omitempty"`
	HandID  string    `json:"hand_id"`
	Stage   Stage     `json:"stage"`
	Board   []Card    `json:"board"`
	Pot     int       `json:"pot"`
	CurBet  int       `json:"cur_bet"`
	ToAct   Seat      `json:"to_act"`
	Dealer  Seat      `json:"dealer"`
	Start   [2]int    `json:"start"`
	Players [2]Player `json:"players"`
	Reveal  bool      `json:"reveal"`
	Last    *Record   `json:"last,omitempty"`
	Result  *Result   `json:"result,omitempty"`
}

// Sink receives a View after every state-changing operation.
type Sink interface {
	Render(v View)
}

type SinkFunc func(View)

func (f SinkFunc) Render(v View) { f(v) }

// Tee fans every view out to the given sinks in order. Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(v View) {
		for _, s := range sinks {
			if s != nil {
				s.Render(v)
			}
		}
	})
}

// Table carries chip stacks and the dealer button across hands. It is not
// safe for concurrent use; callers serialize access.
type Table struct {
	cfg    Config
	rng    RNG
	names  [2]string
	stacks [2]int
	dealer Seat
	hands  int
	hand   Hand
	over   bool

	sink   Sink
	logger *log.Logger
	newID  func() string
}

type TableOption func(*Table)

func WithSink(s Sink) TableOption { return func(t *Table) { t.sink = s } }

func WithLogger(l *log.Logger) TableOption { return func(t *Table) { t.logger = l } }

func WithNames(a, b string) TableOption { return func(t *Table) { t.names = [2]string{a, b} } }

// WithStacks overrides the starting stacks from Config.
func WithStacks(a, b int) TableOption { return func(t *Table) { t.stacks = [2]int{a, b} } }

func WithHandIDs(f func() string) TableOption { return func(t *Table) { t.newID = f } }

func NewTable(cfg Config, rng RNG, opts ...TableOption) *Table {
	t := &Table{
		cfg:    cfg,
		rng:    rng,
		names:  [2]string{"A", "B"},
		stacks: [2]int{cfg.StartStack, cfg.StartStack},
		// flipped before the first hand, so SeatB deals first
		dealer: SeatA,
		logger: log.New(io.Discard),
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(t)
	}
	t.hand.Round.Stage = HandOver
	return t
}

// StartHand moves the button, resets and shuffles the deck, posts blinds and
// deals. It returns ErrGameOver once either stack is empty.
func (t *Table) StartHand() (Hand, error) {
	if t.hand.Round.Stage.Betting() {
		return t.hand, fmt.Errorf("%w: %s", ErrHandInPlay, t.hand.ID)
	}
	if t.stacks[0] <= 0 || t.stacks[1] <= 0 {
		t.over = true
		return t.hand, ErrGameOver
	}
	dealer := t.dealer.Other()
	h, err := deal(t.newID(), t.cfg, dealer, t.names, t.stacks, NewDeck(t.rng))
	if err != nil {
		return t.hand, err
	}
	t.dealer = dealer
	t.hands++
	t.hand = h
	t.logger.Debug("hand started", "id", h.ID, "dealer", dealer, "stack_a", t.stacks[0], "stack_b", t.stacks[1])
	t.afterChange(EventDeal)
	if err := t.advance(); err != nil {
		return t.hand, err
	}
	return t.hand, nil
}

// Act applies an action for seat, which must be on turn.
func (t *Table) Act(seat Seat, a Action) (Hand, error) {
	if !t.hand.Round.Stage.Betting() {
		return t.hand, ErrHandOver
	}
	if t.hand.Round.ToAct != seat {
		return t.hand, fmt.Errorf("%w: seat %s, %s to act", ErrNotYourTurn, seat, t.hand.Round.ToAct)
	}
	h, err := Apply(t.hand, a)
	if err != nil {
		return t.hand, err
	}
	t.hand = h
	t.afterChange(EventAction)
	if err := t.advance(); err != nil {
		return t.hand, err
	}
	return t.hand, nil
}

// advance makes the hand's pending transitions one at a time, rendering
// each.
func (t *Table) advance() error {
	for t.hand.Pending() {
		h, err := Advance(t.hand)
		if err != nil {
			return err
		}
		t.hand = h
		switch {
		case h.Over():
			t.afterChange(EventSettle)
		case h.Round.Stage == Showdown:
			t.afterChange(EventShowdown)
		default:
			t.afterChange(EventStreet)
		}
	}
	return nil
}

func (t *Table) afterChange(ev Event) {
	h := t.hand
	if h.Over() {
		t.stacks = h.Stacks()
		if t.stacks[0] <= 0 || t.stacks[1] <= 0 {
			t.over = true
		}
		r := h.Result
		t.logger.Info("hand settled", "id", h.ID, "winners", r.Winners, "pot", r.Pot, "showdown", r.Showdown,
			"stack_a", t.stacks[0], "stack_b", t.stacks[1])
	}
	if t.sink != nil {
		v := t.View()
		v.Event = ev
		t.sink.Render(v)
	}
}

func (t *Table) Hand() Hand { return t.hand }

// Over reports whether the session has ended with a busted stack.
func (t *Table) Over() bool { return t.over }

func (t *Table) Stage() Stage {
	if t.over {
		return GameOver
	}
	return t.hand.Round.Stage
}

func (t *Table) Stacks() [2]int { return t.stacks }

func (t *Table) Names() [2]string { return t.names }

func (t *Table) Hands() int { return t.hands }

func (t *Table) Config() Config { return t.cfg }

// View snapshots the current hand. Hole cards stay in the view; Reveal tells
// the sink whether the opponent's cards may be shown.
func (t *Table) View() View {
	h := t.hand
	v := View{
		HandID:  h.ID,
		Stage:   t.Stage(),
		Board:   slices.Clone(h.Round.Board),
		Pot:     h.Round.Pot,
		CurBet:  h.Round.CurBet,
		ToAct:   h.Round.ToAct,
		Dealer:  h.Dealer,
		Start:   h.Start,
		Players: h.Players,
		Result:  h.Result,
		Reveal:  h.Round.Stage == Showdown || (h.Result != nil && h.Result.Showdown),
	}
	if n := len(h.History); n > 0 {
		last := h.History[n-1]
		v.Last = &last
	}
	return v
}
