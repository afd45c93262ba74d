package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

// Suits in deck order.
const Suits = "cdhs"

type Card struct {
	Rank int  // 2..14, Ace=14
	Suit byte // one of Suits
} // e.g. "As" => rank 14, suit 's'

const rankChars = "  23456789TJQKA"

var suitGlyphs = map[byte]string{'c': "♣", 'd': "♦", 'h': "♥", 's': "♠"}

// Code is the two-character ASCII form, e.g. "Ts".
func (c Card) Code() string {
	if c.Rank < 2 || c.Rank > Ace {
		return "??"
	}
	return fmt.Sprintf("%c%c", rankChars[c.Rank], c.Suit)
}

func (c Card) String() string {
	if c.Rank < 2 || c.Rank > Ace {
		return "??"
	}
	r := string(rankChars[c.Rank])
	if c.Rank == 10 {
		r = "10"
	}
	return r + suitGlyphs[c.Suit]
}

// Red reports whether the card is a heart or a diamond.
func (c Card) Red() bool { return c.Suit == 'h' || c.Suit == 'd' }

func (c Card) MarshalText() ([]byte, error) { return []byte(c.Code()), nil }

func (c *Card) UnmarshalText(b []byte) error {
	p, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = p
	return nil
}

// ParseCard parses the ASCII form ("Ks", "Td", "10d").
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) == 3 && strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("bad card %q", s)
	}
	rank := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	if rank < 2 {
		return Card{}, fmt.Errorf("bad rank in %q", s)
	}
	suit := strings.ToLower(s[1:])[0]
	if strings.IndexByte(Suits, suit) < 0 {
		return Card{}, fmt.Errorf("bad suit in %q", s)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// MustParseCards parses space separated cards and panics on bad input.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

// RNG abstracts the randomness used for shuffling and the agent's bluff draw.
// *math/rand.Rand satisfies it.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// NewRand returns a seeded source; seed 0 seeds from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Deck deals from the end of its slice. Dealing only shrinks the slice, so a
// copied Deck value never observes a deal made through another copy.
type Deck struct {
	cards []Card
}

func NewDeck(rng RNG) Deck {
	var d Deck
	d.Reset(rng)
	return d
}

// Reset repopulates all 52 cards and applies a Fisher-Yates shuffle.
func (d *Deck) Reset(rng RNG) {
	cards := make([]Card, 0, 52)
	for s := 0; s < 4; s++ {
		for rnk := 2; rnk <= Ace; rnk++ {
			cards = append(cards, Card{Rank: rnk, Suit: Suits[s]})
		}
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	d.cards = cards
}

func (d *Deck) Deal() (Card, error) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, nil
}

func (d Deck) Len() int { return len(d.cards) }

// Stacked builds a deck that deals the given cards first, in order.
func Stacked(cards ...Card) Deck {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[len(cards)-1-i] = c
	}
	return Deck{cards: out}
}
