package main

import (
	"context"
	"fmt"

	"holdem-arena/server/agent"
	"holdem-arena/server/engine"
)

// pauseFunc runs before a seat is asked to act; the terminal uses it for the
// agent's think delay.
type pauseFunc func(ctx context.Context, seat engine.Seat) error

// drive asks seated agents to act until the hand ends or the seat on turn has
// no agent (a human playing over HTTP).
func drive(ctx context.Context, tbl *engine.Table, seats [2]agent.Agent, pause pauseFunc) error {
	h := tbl.Hand()
	for h.Stage().Betting() {
		seat := h.Round.ToAct
		a := seats[seat]
		if a == nil {
			return nil
		}
		if pause != nil {
			if err := pause(ctx, seat); err != nil {
				return err
			}
		}
		act, err := a.Decide(ctx, agent.BuildObservation(h, seat))
		if err != nil {
			return fmt.Errorf("%s: %w", a.Name(), err)
		}
		if h, err = tbl.Act(seat, act); err != nil {
			return fmt.Errorf("%s: %w", a.Name(), err)
		}
	}
	return nil
}
