package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Deal order is non-dealer, dealer, non-dealer, dealer, then flop, turn, river.
// With SeatA dealing, SeatB holds Kh Qd and SeatA holds 2c 3s.
const kingHigh = "Kh 2c Qd 3s As 7d 9c Jh 4d"

func dealt(t *testing.T, dealer Seat, stacks [2]int, cards string) Hand {
	t.Helper()
	h, err := NewHand("test", DefaultConfig, dealer, [2]string{"A", "B"}, stacks, Stacked(MustParseCards(cards)...))
	require.NoError(t, err)
	return h
}

func step(t *testing.T, h Hand, a Action) Hand {
	t.Helper()
	n, err := Step(h, a)
	require.NoError(t, err)
	return n
}

func TestNewHandPostsBlinds(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)

	assert.Equal(t, PreFlop, h.Stage())
	assert.Equal(t, 30, h.Round.Pot)
	assert.Equal(t, 20, h.Round.CurBet)
	assert.Equal(t, 990, h.Players[SeatA].Stack)
	assert.Equal(t, 980, h.Players[SeatB].Stack)
	assert.Equal(t, SeatA, h.Round.ToAct)
	assert.Equal(t, MustParseCards("2c 3s"), h.Players[SeatA].Hole)
	assert.Equal(t, MustParseCards("Kh Qd"), h.Players[SeatB].Hole)
	assert.Empty(t, h.History)

	l := h.Legal()
	assert.Equal(t, []ActionKind{Fold, Call, Raise}, l.Actions)
	assert.Equal(t, 10, l.ToCall)
	assert.Equal(t, 40, l.MinRaiseTo)
	assert.Equal(t, 1000, l.MaxRaiseTo)
}

func TestNewHandRejectsEmptyStack(t *testing.T) {
	_, err := NewHand("x", DefaultConfig, SeatA, [2]string{}, [2]int{0, 1000}, NewDeck(NewRand(1)))
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestPreflopLimpAndCheckDealsFlop(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)

	h = step(t, h, CallAction{})
	assert.False(t, h.RoundComplete())
	assert.Equal(t, PreFlop, h.Stage())
	assert.Equal(t, 40, h.Round.Pot)
	assert.Equal(t, SeatB, h.Round.ToAct)
	assert.Equal(t, []ActionKind{Check, Raise}, h.Legal().Actions)

	h = step(t, h, CheckAction{})
	assert.Equal(t, Flop, h.Stage())
	assert.Len(t, h.Round.Board, 3)
	assert.Equal(t, 40, h.Round.Pot)
	assert.Equal(t, 0, h.Round.CurBet)
	assert.Equal(t, 0, h.Round.Actions)
	assert.Equal(t, SeatB, h.Round.ToAct, "non-dealer acts first after the flop")
	assert.Equal(t, []Record{
		{Seat: SeatA, Stage: PreFlop, Kind: Call, Amount: 10},
		{Seat: SeatB, Stage: PreFlop, Kind: Check},
	}, h.History)
}

func TestCheckedDownToShowdown(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	h = step(t, h, CallAction{})
	h = step(t, h, CheckAction{})

	for _, st := range []Stage{Flop, Turn, River} {
		require.Equal(t, st, h.Stage())
		h = step(t, h, CheckAction{})
		if st != River {
			assert.Equal(t, st, h.Stage(), "one check does not close %s", st)
			assert.Equal(t, 1, h.Round.Actions)
		}
		h = step(t, h, CheckAction{})
	}

	require.True(t, h.Over())
	assert.Len(t, h.Round.Board, 5)
	require.NotNil(t, h.Result)
	assert.True(t, h.Result.Showdown)
	assert.Equal(t, []Seat{SeatB}, h.Result.Winners)
	assert.Equal(t, 40, h.Result.Pot)
	assert.Equal(t, HighCard, h.Result.Evals[SeatB].Category)
	assert.Equal(t, [2]int{980, 1020}, h.Stacks())
	assert.Equal(t, 0, h.Round.Pot)
}

func TestRaiseReopensAction(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	h = step(t, h, CallAction{})
	h = step(t, h, CheckAction{})

	h = step(t, h, CheckAction{})
	assert.Equal(t, 1, h.Round.Actions)

	h = step(t, h, RaiseAction{To: 40})
	assert.Equal(t, 1, h.Round.Actions, "a raise resets the counter")
	assert.False(t, h.RoundComplete())
	assert.Equal(t, SeatB, h.Round.ToAct)
	assert.Equal(t, 40, h.ToCall(SeatB))

	h = step(t, h, CallAction{})
	assert.Equal(t, Turn, h.Stage())
	assert.Equal(t, 120, h.Round.Pot)
}

func TestReraisePreflop(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	h = step(t, h, RaiseAction{To: 40})
	h = step(t, h, RaiseAction{To: 80})
	assert.Equal(t, 1, h.Round.Actions)
	assert.Equal(t, PreFlop, h.Stage())

	l := h.Legal()
	assert.Equal(t, 40, l.ToCall)
	assert.Equal(t, 160, l.MinRaiseTo)

	h = step(t, h, CallAction{})
	assert.Equal(t, Flop, h.Stage())
	assert.Equal(t, 160, h.Round.Pot)
}

func TestFoldAwardsPot(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	h = step(t, h, FoldAction{})

	require.True(t, h.Over())
	assert.Empty(t, h.Round.Board)
	assert.False(t, h.Result.Showdown)
	assert.Equal(t, []Seat{SeatB}, h.Result.Winners)
	assert.Equal(t, 30, h.Result.Pot)
	assert.Equal(t, [2]int{990, 1010}, h.Stacks())

	_, err := Step(h, CheckAction{})
	assert.ErrorIs(t, err, ErrHandOver)
}

func TestInvalidActionsLeaveStateUnchanged(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	snap := h.clone()

	for _, a := range []Action{CheckAction{}, RaiseAction{To: 30}, nil} {
		got, err := Step(h, a)
		assert.ErrorIs(t, err, ErrInvalidAction)
		assert.Equal(t, snap, got)
	}

	h = step(t, h, CallAction{})
	_, err := Step(h, FoldAction{})
	assert.ErrorIs(t, err, ErrInvalidAction, "fold is not offered when nothing is owed")
	_, err = Step(h, CallAction{})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestStepDoesNotMutateInput(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	h = step(t, h, CallAction{})
	snap := h.clone()

	_ = step(t, h, CheckAction{})
	assert.Equal(t, snap, h)
}

func TestEmptyDeckFailsStep(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, "Kh 2c Qd 3s")
	h = step(t, h, CallAction{})

	got, err := Step(h, CheckAction{})
	require.ErrorIs(t, err, ErrEmptyDeck)
	assert.Equal(t, h, got)
	assert.Equal(t, PreFlop, got.Stage())
}

func TestRaiseAboveStackIsAllIn(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	h = step(t, h, RaiseAction{To: 5000})

	a := h.Players[SeatA]
	assert.True(t, a.AllIn)
	assert.Equal(t, 0, a.Stack)
	assert.Equal(t, 1000, a.Committed)
	assert.Equal(t, Record{Seat: SeatA, Stage: PreFlop, Kind: Raise, Amount: 1000}, h.History[0])
	assert.Equal(t, []ActionKind{Fold, Call}, h.Legal().Actions)

	h = step(t, h, CallAction{})
	require.True(t, h.Over())
	assert.Len(t, h.Round.Board, 5, "board runs out when both are all-in")
	assert.Equal(t, [2]int{0, 2000}, h.Stacks())
}

func TestUncalledBetReturned(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 100}, kingHigh)
	h = step(t, h, RaiseAction{To: 500})

	l := h.Legal()
	assert.Equal(t, []ActionKind{Fold, Call}, l.Actions, "cannot raise with less than the call")

	h = step(t, h, CallAction{})
	require.True(t, h.Over())
	assert.Equal(t, Record{Seat: SeatB, Stage: PreFlop, Kind: Call, Amount: 80}, h.History[1])
	assert.Equal(t, 200, h.Result.Pot)
	assert.Equal(t, [2]int{900, 200}, h.Stacks())
}

func TestShortBlindRunsOut(t *testing.T) {
	h := dealt(t, SeatA, [2]int{5, 1000}, kingHigh)

	require.True(t, h.Over(), "no decision is possible")
	assert.Empty(t, h.History)
	assert.Len(t, h.Round.Board, 5)
	assert.Equal(t, 10, h.Result.Pot)
	assert.Equal(t, [2]int{0, 1005}, h.Stacks())
}

func TestShortBigBlindMustBeCalled(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 15}, kingHigh)
	require.False(t, h.Over())

	l := h.Legal()
	assert.Equal(t, 5, l.ToCall)
	assert.Equal(t, []ActionKind{Fold, Call}, l.Actions)

	h = step(t, h, CallAction{})
	require.True(t, h.Over())
	assert.Equal(t, [2]int{985, 30}, h.Stacks())
}

func TestSplitPot(t *testing.T) {
	// both play the broadway board
	h := dealt(t, SeatA, [2]int{1000, 1000}, "2c 4d 3h 5s Tc Jd Qh Ks Ac")
	h = step(t, h, CallAction{})
	h = step(t, h, CheckAction{})
	for h.Stage().Betting() {
		h = step(t, h, CheckAction{})
	}
	require.True(t, h.Result.Split())
	assert.Equal(t, [2]int{20, 20}, h.Result.Payout)
	assert.Equal(t, 0, h.Result.Remainder)
	assert.Equal(t, [2]int{1000, 1000}, h.Stacks())
}

func randomAction(rng RNG, h Hand) Action {
	l := h.Legal()
	switch l.Actions[rng.Intn(len(l.Actions))] {
	case Fold:
		return FoldAction{}
	case Check:
		return CheckAction{}
	case Call:
		return CallAction{}
	default:
		return RaiseAction{To: l.MinRaiseTo + rng.Intn(l.MaxRaiseTo-l.MinRaiseTo+1)}
	}
}

func TestChipsAreConserved(t *testing.T) {
	rng := NewRand(5)
	for i := 0; i < 500; i++ {
		stacks := [2]int{1 + rng.Intn(400), 1 + rng.Intn(400)}
		total := stacks[0] + stacks[1]
		h, err := NewHand("p", DefaultConfig, Seat(rng.Intn(2)), [2]string{"A", "B"}, stacks, NewDeck(rng))
		require.NoError(t, err)
		require.Equal(t, total, h.Chips())

		for steps := 0; !h.Over(); steps++ {
			require.Less(t, steps, 200)
			h = step(t, h, randomAction(rng, h))
			require.Equal(t, total, h.Chips())
			for _, p := range h.Players {
				require.GreaterOrEqual(t, p.Stack, 0)
			}
		}
		require.NotNil(t, h.Result)
		assert.Equal(t, 0, h.Result.Remainder)
		assert.Equal(t, total, h.Stacks()[0]+h.Stacks()[1])
		if h.Result.Showdown {
			assert.Len(t, h.Round.Board, 5)
		}
	}
}

func TestApplyLeavesClosedStreetPending(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	h = step(t, h, CallAction{})
	assert.False(t, h.Pending())

	closed, err := Apply(h, CheckAction{})
	require.NoError(t, err)
	assert.True(t, closed.Pending())
	assert.Equal(t, PreFlop, closed.Stage())
	assert.Empty(t, closed.Round.Board)
	assert.Equal(t, 40, closed.Round.Pot)
	assert.Empty(t, closed.Legal().Actions, "no decision while a street is pending")
	_, err = Apply(closed, CheckAction{})
	assert.ErrorIs(t, err, ErrInvalidAction)

	flop, err := Advance(closed)
	require.NoError(t, err)
	assert.False(t, flop.Pending())
	assert.Equal(t, Flop, flop.Stage())
	assert.Len(t, flop.Round.Board, 3)
	assert.Empty(t, closed.Round.Board, "Advance does not mutate its input")

	stepped := step(t, h, CheckAction{})
	assert.Equal(t, flop, stepped)
}

func TestAdvanceStopsAtShowdown(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	h = step(t, h, CallAction{})
	h = step(t, h, CheckAction{})
	for h.Stage() != River || h.Round.Actions == 0 {
		h = step(t, h, CheckAction{})
	}

	h, err := Apply(h, CheckAction{})
	require.NoError(t, err)
	require.True(t, h.Pending())

	h, err = Advance(h)
	require.NoError(t, err)
	assert.Equal(t, Showdown, h.Stage())
	assert.Nil(t, h.Result)
	assert.Equal(t, 40, h.Round.Pot)
	assert.True(t, h.Pending())

	h, err = Advance(h)
	require.NoError(t, err)
	require.True(t, h.Over())
	assert.Equal(t, []Seat{SeatB}, h.Result.Winners)

	again, err := Advance(h)
	require.NoError(t, err)
	assert.Equal(t, h, again)
}

func TestAdvanceSettlesFold(t *testing.T) {
	h := dealt(t, SeatA, [2]int{1000, 1000}, kingHigh)
	folded, err := Apply(h, FoldAction{})
	require.NoError(t, err)
	assert.Equal(t, 30, folded.Round.Pot)
	assert.Nil(t, folded.Result)

	h, err = Advance(folded)
	require.NoError(t, err)
	require.True(t, h.Over())
	assert.Equal(t, [2]int{990, 1010}, h.Stacks())
}
