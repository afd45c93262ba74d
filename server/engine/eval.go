package engine

type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"High Card", "Pair", "Two Pair", "Three of a Kind",
	"Straight", "Flush", "Full House", "Four of a Kind", "Straight Flush",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Incomplete"
	}
	return categoryNames[c]
}

// Eval is the strength of a 5-7 card holding. Value gives a total order:
// the category sits in the most significant position, followed by up to five
// ranks (primary ranks first, then kickers) in base 15.
type Eval struct {
	Category Category `json:"category"`
	Value    int      `json:"value"`
	Name     string   `json:"name"`
	Ranks    []int    `json:"ranks"`
}

// Incomplete is returned for fewer than five cards.
var Incomplete = Eval{Category: HighCard, Value: 0, Name: "Incomplete"}

func (e Eval) Complete() bool { return e.Value > 0 }

func (e Eval) Beats(o Eval) bool { return e.Value > o.Value }

func newEval(cat Category, ranks ...int) Eval {
	v := int(cat)
	for i := 0; i < 5; i++ {
		v *= 15
		if i < len(ranks) {
			v += ranks[i]
		}
	}
	// the +1 keeps every complete hand above Incomplete
	return Eval{Category: cat, Value: v + 1, Name: cat.String(), Ranks: ranks}
}

// Evaluate ranks the best five-card hand available in cards by scanning rank
// and suit frequencies. It does not modify cards.
func Evaluate(cards []Card) Eval {
	if len(cards) < 5 {
		return Incomplete
	}

	var counts [15]int
	var suited [4][15]bool
	var suitCounts [4]int
	for _, c := range cards {
		counts[c.Rank]++
		s := suitIndex(c.Suit)
		suited[s][c.Rank] = true
		suitCounts[s]++
	}

	flush := -1
	for s, n := range suitCounts {
		if n >= 5 {
			flush = s
			break
		}
	}

	if flush >= 0 {
		if high := straightHigh(suited[flush]); high > 0 {
			return newEval(StraightFlush, high)
		}
	}

	// groups of each size, highest rank first
	var quads, trips, pairs, singles []int
	for r := Ace; r >= 2; r-- {
		switch counts[r] {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		case 1:
			singles = append(singles, r)
		}
	}

	if len(quads) > 0 {
		q := quads[0]
		return newEval(FourOfAKind, q, highestExcept(counts, q))
	}

	if len(trips) > 0 {
		t := trips[0]
		// a second set of trips plays as the pair
		pair := 0
		if len(trips) > 1 {
			pair = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pair {
			pair = pairs[0]
		}
		if pair > 0 {
			return newEval(FullHouse, t, pair)
		}
	}

	if flush >= 0 {
		ranks := make([]int, 0, 5)
		for r := Ace; r >= 2 && len(ranks) < 5; r-- {
			if suited[flush][r] {
				ranks = append(ranks, r)
			}
		}
		return newEval(Flush, ranks...)
	}

	var present [15]bool
	for r := 2; r <= Ace; r++ {
		present[r] = counts[r] > 0
	}
	if high := straightHigh(present); high > 0 {
		return newEval(Straight, high)
	}

	if len(trips) > 0 {
		t := trips[0]
		return newEval(ThreeOfAKind, append([]int{t}, kickers(counts, 2, t)...)...)
	}

	if len(pairs) >= 2 {
		hi, lo := pairs[0], pairs[1]
		return newEval(TwoPair, append([]int{hi, lo}, kickers(counts, 1, hi, lo)...)...)
	}

	if len(pairs) == 1 {
		p := pairs[0]
		return newEval(Pair, append([]int{p}, kickers(counts, 3, p)...)...)
	}

	return newEval(HighCard, singles[:5]...)
}

func suitIndex(s byte) int {
	switch s {
	case 'c':
		return 0
	case 'd':
		return 1
	case 'h':
		return 2
	default:
		return 3
	}
}

// straightHigh returns the top rank of the highest straight among the present
// ranks, or 0. The ace also plays low, so A-2-3-4-5 returns 5.
func straightHigh(present [15]bool) int {
	present[1] = present[Ace]
	run := 0
	for r := Ace; r >= 1; r-- {
		if !present[r] {
			run = 0
			continue
		}
		run++
		if run == 5 {
			return r + 4
		}
	}
	return 0
}

func highestExcept(counts [15]int, skip int) int {
	for r := Ace; r >= 2; r-- {
		if r != skip && counts[r] > 0 {
			return r
		}
	}
	return 0
}

// kickers returns the n highest ranks not in used, sorted descending. A rank
// held twice outside the matched set counts once per card.
func kickers(counts [15]int, n int, used ...int) []int {
	out := make([]int, 0, n)
	for r := Ace; r >= 2 && len(out) < n; r-- {
		skip := false
		for _, u := range used {
			if r == u {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		for i := 0; i < counts[r] && len(out) < n; i++ {
			out = append(out, r)
		}
	}
	return out
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 on a tie.
func Compare(a, b Eval) int {
	switch {
	case a.Value > b.Value:
		return 1
	case a.Value < b.Value:
		return -1
	default:
		return 0
	}
}
