package engine

// Seat identifies one of the two chairs at the table. Seats are fixed for the
// whole session; the dealer button moves between them.
type Seat int

const (
	SeatA Seat = iota
	SeatB
)

func (s Seat) Other() Seat { return 1 - s }

func (s Seat) String() string {
	if s == SeatA {
		return "A"
	}
	return "B"
}

func (s Seat) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type Stage int

const (
	PreFlop Stage = iota
	Flop
	Turn
	River
	Showdown
	HandOver
	GameOver
)

var stageNames = [...]string{"preflop", "flop", "turn", "river", "showdown", "hand_over", "game_over"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Betting reports whether the stage accepts player actions.
func (s Stage) Betting() bool { return s >= PreFlop && s <= River }

type ActionKind string

const (
	Fold  ActionKind = "fold"
	Check ActionKind = "check"
	Call  ActionKind = "call"
	Raise ActionKind = "raise"
)

// Action is one of FoldAction, CheckAction, CallAction or RaiseAction. Only a
// raise carries an amount.
type Action interface {
	Kind() ActionKind
	isAction()
}

type FoldAction struct{}
type CheckAction struct{}
type CallAction struct{}

// RaiseAction raises to To, the player's new total contribution for the
// street (not the increment).
type RaiseAction struct{ To int }

func (FoldAction) Kind() ActionKind  { return Fold }
func (CheckAction) Kind() ActionKind { return Check }
func (CallAction) Kind() ActionKind  { return Call }
func (RaiseAction) Kind() ActionKind { return Raise }

func (FoldAction) isAction()  {}
func (CheckAction) isAction() {}
func (CallAction) isAction()  {}
func (RaiseAction) isAction() {}

// Record is one applied action in a hand's history. Amount is the chips the
// action moved into the pot (call) or the raise target (raise).
type Record struct {
	Seat   Seat       `json:"seat"`
	Stage  Stage      `json:"street"`
	Kind   ActionKind `json:"action"`
	Amount int        `json:"amount,omitempty"`
}

type Config struct{ SB, BB, StartStack int }

var DefaultConfig = Config{SB: 10, BB: 20, StartStack: 1000}
