package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-arena/server/engine"
)

func newHand(t *testing.T) engine.Hand {
	t.Helper()
	deck := engine.Stacked(engine.MustParseCards("Kh 2c Qd 3s As 7d 9c Jh 4d")...)
	h, err := engine.NewHand("h1", engine.DefaultConfig, engine.SeatA, [2]string{"You", "AI"}, [2]int{1000, 1000}, deck)
	require.NoError(t, err)
	return h
}

func TestBuildObservation(t *testing.T) {
	h := newHand(t)

	o := BuildObservation(h, engine.SeatA)
	assert.Equal(t, "h1", o.HandID)
	assert.True(t, o.Dealer)
	assert.Equal(t, engine.PreFlop, o.Street)
	assert.Equal(t, cards("2c 3s"), o.HoleCards)
	assert.Empty(t, o.Board)
	assert.Equal(t, map[string]int{"hero": 990, "villain": 980}, o.Stacks)
	assert.Equal(t, map[string]int{"sb": 10, "bb": 20}, o.Blinds)
	assert.Equal(t, 30, o.Pot)
	assert.Equal(t, 10, o.ToCall)
	assert.Equal(t, []engine.ActionKind{engine.Fold, engine.Call, engine.Raise}, o.Legal)
	assert.Equal(t, 40, o.MinRaiseTo)
	assert.Equal(t, 1000, o.MaxRaiseTo)

	off := BuildObservation(h, engine.SeatB)
	assert.False(t, off.Dealer)
	assert.Equal(t, cards("Kh Qd"), off.HoleCards)
	assert.Empty(t, off.Legal, "not on turn")
	assert.Equal(t, 0, off.ToCall)
}

func TestObservationJSON(t *testing.T) {
	raw, err := json.Marshal(BuildObservation(newHand(t), engine.SeatA))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "A", m["seat"])
	assert.Equal(t, "preflop", m["street"])
	assert.Equal(t, []any{"2c", "3s"}, m["hole_cards"])
	assert.Equal(t, []any{"fold", "call", "raise"}, m["legal_actions"])
}

func intp(v int) *int { return &v }

func TestValidate(t *testing.T) {
	h := newHand(t)
	facing := BuildObservation(h, engine.SeatA)

	h, err := engine.Step(h, engine.CallAction{})
	require.NoError(t, err)
	free := BuildObservation(h, engine.SeatB)

	cases := []struct {
		name string
		obs  Observation
		in   ActionOut
		want engine.Action
	}{
		{"fold", facing, ActionOut{Action: "fold"}, engine.FoldAction{}},
		{"call", facing, ActionOut{Action: " Call "}, engine.CallAction{}},
		{"raise", facing, ActionOut{Action: "raise", Amount: intp(60)}, engine.RaiseAction{To: 60}},
		{"raise capped", facing, ActionOut{Action: "raise", Amount: intp(5000)}, engine.RaiseAction{To: 1000}},
		{"check", free, ActionOut{Action: "check"}, engine.CheckAction{}},
		{"call as check", free, ActionOut{Action: "call"}, engine.CheckAction{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Validate(tc.obs, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	bad := []struct {
		name string
		obs  Observation
		in   ActionOut
	}{
		{"check facing bet", facing, ActionOut{Action: "check"}},
		{"fold for free", free, ActionOut{Action: "fold"}},
		{"raise without amount", facing, ActionOut{Action: "raise"}},
		{"raise under minimum", facing, ActionOut{Action: "raise", Amount: intp(30)}},
		{"unknown", facing, ActionOut{Action: "shove"}},
		{"off turn", BuildObservation(h, engine.SeatA), ActionOut{Action: "check"}},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.obs, tc.in)
			assert.ErrorIs(t, err, engine.ErrInvalidAction)
		})
	}
}

func TestDescribe(t *testing.T) {
	k, amt := Describe(engine.RaiseAction{To: 120})
	assert.Equal(t, "raise", k)
	require.NotNil(t, amt)
	assert.Equal(t, 120, *amt)

	k, amt = Describe(engine.CheckAction{})
	assert.Equal(t, "check", k)
	assert.Nil(t, amt)
}
