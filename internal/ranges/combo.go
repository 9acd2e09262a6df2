// Package ranges models the rival's hidden holding as a weighted
// distribution over two-card combos, kept consistent with dead cards.
package ranges

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
)

// Seat identifies a heads-up position.
type Seat int

const (
	SB Seat = iota // small blind, button, in position postflop
	BB             // big blind
)

func (s Seat) String() string {
	if s == SB {
		return "SB"
	}
	return "BB"
}

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	if s == SB {
		return BB
	}
	return SB
}

// Combo is an unordered pair of distinct cards, stored with the lower
// card index first so equal holdings compare equal.
type Combo struct {
	A, B deck.Card
}

// NewCombo normalizes card order.
func NewCombo(a, b deck.Card) Combo {
	if b.Less(a) {
		a, b = b, a
	}
	return Combo{A: a, B: b}
}

// Key packs the combo into a single comparable integer.
func (c Combo) Key() int {
	return c.A.Index()*52 + c.B.Index()
}

// Contains reports whether the combo holds the given card.
func (c Combo) Contains(card deck.Card) bool {
	return c.A == card || c.B == card
}

// Overlaps reports whether either card is in the set.
func (c Combo) Overlaps(dead deck.CardSet) bool {
	return dead.Contains(c.A) || dead.Contains(c.B)
}

// Suited reports whether both cards share a suit.
func (c Combo) Suited() bool {
	return c.A.Suit == c.B.Suit
}

// Paired reports whether both cards share a rank.
func (c Combo) Paired() bool {
	return c.A.Rank == c.B.Rank
}

// HandClass returns the chart notation for the combo: "AA", "AKs", "T9o".
func (c Combo) HandClass() string {
	hi, lo := c.A.Rank, c.B.Rank
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == lo {
		return fmt.Sprintf("%s%s", hi, lo)
	}
	if c.Suited() {
		return fmt.Sprintf("%s%ss", hi, lo)
	}
	return fmt.Sprintf("%s%so", hi, lo)
}

func (c Combo) String() string {
	return c.A.String() + c.B.String()
}

var (
	allCombosOnce sync.Once
	allCombos     []Combo // ascending by Key
	strengthOrder []Combo // descending by playability
	classCombos   map[string][]Combo
)

func initCombos() {
	allCombos = make([]Combo, 0, 1326)
	for i := 0; i < 52; i++ {
		for j := i + 1; j < 52; j++ {
			allCombos = append(allCombos, Combo{A: deck.FromIndex(i), B: deck.FromIndex(j)})
		}
	}
	classCombos = make(map[string][]Combo, 169)
	for _, c := range allCombos {
		class := c.HandClass()
		classCombos[class] = append(classCombos[class], c)
	}
	strengthOrder = append([]Combo(nil), allCombos...)
	sort.SliceStable(strengthOrder, func(i, j int) bool {
		si, sj := PlayabilityScore(strengthOrder[i]), PlayabilityScore(strengthOrder[j])
		if si != sj {
			return si > sj
		}
		return strengthOrder[i].Key() < strengthOrder[j].Key()
	})
}

// AllCombos returns all 1326 combos in ascending key order.
// The returned slice is shared; callers must not mutate it.
func AllCombos() []Combo {
	allCombosOnce.Do(initCombos)
	return allCombos
}

// CombosForClass expands chart notation ("AA", "AKs", "T9o") into its
// concrete combos. Unknown classes return nil.
func CombosForClass(class string) []Combo {
	allCombosOnce.Do(initCombos)
	return classCombos[class]
}

// CombosByStrength returns combos in descending playability order,
// excluding any combo that overlaps the blocked set.
func CombosByStrength(blocked deck.CardSet) []Combo {
	allCombosOnce.Do(initCombos)
	out := make([]Combo, 0, len(strengthOrder))
	for _, c := range strengthOrder {
		if !c.Overlaps(blocked) {
			out = append(out, c)
		}
	}
	return out
}
