package main

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"holdem-arena/server/agent"
	"holdem-arena/server/engine"
)

// seatService serves one table where the human seat is driven over HTTP and
// the other seat is an agent that acts synchronously.
type seatService struct {
	mu     sync.Mutex
	tbl    *engine.Table
	human  engine.Seat
	seats  [2]agent.Agent
	stats  *Stats
	logger *log.Logger
}

func newSeatService(tbl *engine.Table, human engine.Seat, bot agent.Agent, stats *Stats, logger *log.Logger) *seatService {
	s := &seatService{tbl: tbl, human: human, stats: stats, logger: logger.WithPrefix("seat")}
	s.seats[human.Other()] = bot
	return s
}

// State is what the human seat may see.
type State struct {
	Table       engine.View        `json:"table"`
	You         engine.Seat        `json:"you"`
	GameOver    bool               `json:"game_over"`
	Observation *agent.Observation `json:"observation,omitempty"`
	Stats       *Stats             `json:"stats,omitempty"`
}

func (s *seatService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *seatService) state() State {
	v := s.tbl.View()
	if !v.Reveal {
		v.Players[s.human.Other()].Hole = nil
	}
	stats := *s.stats
	st := State{Table: v, You: s.human, GameOver: s.tbl.Over(), Stats: &stats}
	h := s.tbl.Hand()
	if h.Stage().Betting() && h.Round.ToAct == s.human {
		obs := agent.BuildObservation(h, s.human)
		st.Observation = &obs
	}
	return st
}

// NewHand deals the next hand and lets the agent act if it is first.
func (s *seatService) NewHand(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.tbl.StartHand(); err != nil {
		return s.state(), err
	}
	if err := drive(ctx, s.tbl, s.seats, nil); err != nil {
		return s.state(), err
	}
	return s.state(), nil
}

// Act applies the human's action, then lets the agent respond until the
// human is on turn again or the hand ends.
func (s *seatService) Act(ctx context.Context, out agent.ActionOut) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.tbl.Hand()
	if !h.Stage().Betting() {
		return s.state(), engine.ErrHandOver
	}
	if h.Round.ToAct != s.human {
		return s.state(), engine.ErrNotYourTurn
	}
	act, err := agent.Validate(agent.BuildObservation(h, s.human), out)
	if err != nil {
		return s.state(), err
	}
	if _, err := s.tbl.Act(s.human, act); err != nil {
		return s.state(), err
	}
	if err := drive(ctx, s.tbl, s.seats, nil); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("agent failed", "err", err)
		}
		return s.state(), err
	}
	return s.state(), nil
}
