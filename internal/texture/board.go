// Package texture classifies how coordinated a board is. Wet boards keep
// more of the rival's range connected, which feeds both the rival's
// continue frequencies and the pricer's bet sizing.
package texture

import (
	"sort"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
)

// Texture buckets board wetness from dry to very wet.
type Texture int

const (
	Dry Texture = iota
	SemiWet
	Wet
	VeryWet
)

func (t Texture) String() string {
	switch t {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// Classify maps a board to its texture bucket. Boards with fewer than three
// cards are Dry by definition.
func Classify(board []deck.Card) Texture {
	score := Wetness(board)
	switch {
	case score >= 0.75:
		return VeryWet
	case score >= 0.55:
		return Wet
	case score >= 0.35:
		return SemiWet
	default:
		return Dry
	}
}

// Wetness scores board coordination in [0,1]. The components mirror the
// usual texture reads: flush potential dominates, straight potential next,
// pairs and high-card concentration nudge.
func Wetness(board []deck.Card) float64 {
	if len(board) < 3 {
		return 0.25
	}

	var wetness float64

	suitCounts := map[deck.Suit]int{}
	for _, c := range board {
		suitCounts[c.Suit]++
	}
	maxSuit := 0
	for _, n := range suitCounts {
		if n > maxSuit {
			maxSuit = n
		}
	}
	switch {
	case maxSuit >= 4, maxSuit == len(board):
		wetness += 0.40
	case maxSuit == 3:
		wetness += 0.30
	case maxSuit == 2:
		wetness += 0.10
	}

	connected := longestRun(board)
	switch {
	case connected >= 4:
		wetness += 0.35
	case connected == 3:
		wetness += 0.25
	case connected == 2:
		wetness += 0.10
	}

	if paired(board) {
		wetness += 0.10
	}
	if highCards(board) >= 3 {
		wetness += 0.10
	}

	if wetness > 1 {
		wetness = 1
	}
	return wetness
}

// longestRun returns the longest chain of ranks no more than one gap apart.
func longestRun(board []deck.Card) int {
	ranks := make([]int, 0, len(board))
	seen := map[int]bool{}
	for _, c := range board {
		r := int(c.Rank)
		if !seen[r] {
			seen[r] = true
			ranks = append(ranks, r)
		}
	}
	// Ace also plays low for wheel runs.
	if seen[int(deck.Ace)] {
		ranks = append(ranks, 1)
	}
	sort.Ints(ranks)

	best, run := 1, 1
	for i := 1; i < len(ranks); i++ {
		if ranks[i]-ranks[i-1] <= 2 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	return best
}

func paired(board []deck.Card) bool {
	counts := map[deck.Rank]int{}
	for _, c := range board {
		counts[c.Rank]++
		if counts[c.Rank] >= 2 {
			return true
		}
	}
	return false
}

func highCards(board []deck.Card) int {
	n := 0
	for _, c := range board {
		if c.Rank >= deck.Ten {
			n++
		}
	}
	return n
}
