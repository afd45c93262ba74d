package main

import (
	"math"
	"slices"

	"holdem-arena/server/engine"
)

type ActionTally struct {
	Check int `json:"check"`
	Call  int `json:"call"`
	Raise int `json:"raise"`
	Fold  int `json:"fold"`
}

func (t *ActionTally) add(k engine.ActionKind) {
	switch k {
	case engine.Check:
		t.Check++
	case engine.Call:
		t.Call++
	case engine.Raise:
		t.Raise++
	case engine.Fold:
		t.Fold++
	}
}

type SeatStats struct {
	Hands     int         `json:"hands"`
	Wins      int         `json:"wins"`
	Splits    int         `json:"splits"`
	Showdowns int         `json:"showdowns"`
	NetChips  int         `json:"net_chips"`
	Actions   ActionTally `json:"actions"`
}

// AF is the aggression factor, raises per call.
func (s *SeatStats) AF() float64 {
	if s.Actions.Call == 0 {
		return float64(s.Actions.Raise)
	}
	return float64(s.Actions.Raise) / float64(s.Actions.Call)
}

func (s *SeatStats) BBPer100(bb int) float64 {
	h := s.Hands
	if h == 0 || bb <= 0 {
		return 0
	}
	return (float64(s.NetChips) / float64(bb)) / (float64(h) / 100.0)
}

// Stats tallies a session per seat. It is an engine.Sink.
type Stats struct {
	Names [2]string    `json:"names"`
	Seats [2]SeatStats `json:"seats"`

	// Per-hand net chips for seat A, for MarginCI.
	Margins []float64 `json:"-"`
}

func NewStats(names [2]string) *Stats {
	return &Stats{Names: names}
}

func (s *Stats) Render(v engine.View) {
	switch v.Event {
	case engine.EventDeal:
		for i := range s.Seats {
			s.Seats[i].Hands++
		}
	case engine.EventAction:
		if v.Last != nil {
			s.Seats[v.Last.Seat].Actions.add(v.Last.Kind)
		}
	case engine.EventSettle:
		s.settle(v)
	}
}

func (s *Stats) settle(v engine.View) {
	r := v.Result
	for i := range s.Seats {
		st := &s.Seats[i]
		st.NetChips += v.Players[i].Stack - v.Start[i]
		if r.Showdown {
			st.Showdowns++
		}
	}
	s.Margins = append(s.Margins, float64(v.Players[0].Stack-v.Start[0]))
	if r.Split() {
		s.Seats[0].Splits++
		s.Seats[1].Splits++
	} else {
		s.Seats[r.Winners[0]].Wins++
	}
}

// z for a two-sided 95% interval.
const z95 = 1.959964

// WinRate is the share of hands won, a split counting half, with its Wilson
// score interval. With no hands it reports 0 in [0, 1].
func (s *SeatStats) WinRate() (rate, lo, hi float64) {
	if s.Hands == 0 {
		return 0, 0, 1
	}
	n := float64(s.Hands)
	rate = (float64(s.Wins) + float64(s.Splits)/2) / n
	z2 := z95 * z95
	mid := (rate + z2/(2*n)) / (1 + z2/n)
	half := z95 / (1 + z2/n) * math.Sqrt(rate*(1-rate)/n+z2/(4*n*n))
	return rate, mid - half, mid + half
}

// MarginCI is a percentile bootstrap interval for seat A's mean net chips
// per hand.
func (s *Stats) MarginCI(rng engine.RNG, resamples int) (lo, hi float64) {
	n := len(s.Margins)
	if n == 0 || resamples < 2 {
		return 0, 0
	}
	means := make([]float64, resamples)
	for r := range means {
		var sum float64
		for _r := 0; _r < n; _r++ {
			sum += s.Margins[rng.Intn(n)]
		}
		means[r] = sum / float64(n)
	}
	slices.Sort(means)
	at := func(q float64) float64 { return means[int(q*float64(resamples-1))] }
	return at(0.025), at(0.975)
}
