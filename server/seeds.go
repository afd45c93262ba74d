package main

import (
	"crypto/rand"
	"encoding/binary"
	"os"
	"time"

	"holdem-arena/server/config"
	"holdem-arena/server/engine"
)

// seeder hands out independent RNGs for the deck and each agent from one
// base seed, so a DECK_SEED replays a whole session. The stream is
// SplitMix64.
type seeder struct {
	base  uint64
	state uint64
}

const (
	golden = 0x9E3779B97F4A7C15
	mix1   = 0xBF58476D1CE4E5B9
	mix2   = 0x94D049BB133111EB
)

func newSeeder(base uint64) *seeder { return &seeder{base: base, state: base} }

// seederFor uses DECK_SEED when set and a crypto seed otherwise.
func seederFor(cfg *config.Config) *seeder {
	if cfg.DeckSeed != 0 {
		return newSeeder(uint64(cfg.DeckSeed))
	}
	return newSeeder(cryptoSeed())
}

func (s *seeder) next() uint64 {
	s.state += golden
	z := s.state
	for _, m := range [...]struct {
		shift uint
		mul   uint64
	}{{30, mix1}, {27, mix2}} {
		z = (z ^ z>>m.shift) * m.mul
	}
	return z ^ z>>31
}

// seed is the next value as a positive seed for engine.NewRand, which treats
// zero as "seed from the clock".
func (s *seeder) seed() int64 {
	return max(int64(s.next()>>1), 1)
}

func (s *seeder) rng() engine.RNG { return engine.NewRand(s.seed()) }

func cryptoSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano()) ^ uint64(os.Getpid())<<32
	}
	return binary.LittleEndian.Uint64(b[:])
}
