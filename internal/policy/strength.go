package policy

import (
	"sort"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/evaluator"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
)

// strengthTable ranks every combo in a range on the current board, so a
// combo's percentile (1 strongest, 0 weakest) can be read without touching
// hero information. Built once per decision point.
type strengthTable struct {
	scores map[int]float64
	sorted []weightedScore
	total  float64
}

type weightedScore struct {
	score  float64
	weight float64
}

func newStrengthTable(r *ranges.Range, board []deck.Card) *strengthTable {
	combos := r.Combos()
	t := &strengthTable{scores: make(map[int]float64, len(combos))}
	t.sorted = make([]weightedScore, 0, len(combos))
	for _, c := range combos {
		s := boardScore(c, board)
		t.scores[c.Key()] = s
		t.sorted = append(t.sorted, weightedScore{score: s, weight: r.Weight(c)})
		t.total += r.Weight(c)
	}
	sort.Slice(t.sorted, func(i, j int) bool { return t.sorted[i].score < t.sorted[j].score })
	return t
}

// percentile is the weight fraction of the range the combo beats, counting
// half of ties. Combos outside the range are scored and ranked the same
// way, which keeps dead-hand lookups well defined.
func (t *strengthTable) percentile(c ranges.Combo, board []deck.Card) float64 {
	if t.total <= 0 {
		return 0.5
	}
	score, ok := t.scores[c.Key()]
	if !ok {
		score = boardScore(c, board)
	}
	var below, tied float64
	for _, ws := range t.sorted {
		switch {
		case ws.score < score:
			below += ws.weight
		case ws.score == score:
			tied += ws.weight
		default:
			return (below + tied/2) / t.total
		}
	}
	return (below + tied/2) / t.total
}

// boardScore orders combos by strength on the visible board. River boards
// use the full seven-card evaluation; earlier streets use made-hand and
// draw features; preflop falls back to the playability ranking.
func boardScore(c ranges.Combo, board []deck.Card) float64 {
	switch len(board) {
	case 0:
		return ranges.PlayabilityScore(c)
	case 5:
		var cards [7]deck.Card
		cards[0], cards[1] = c.A, c.B
		copy(cards[2:], board)
		return float64(evaluator.Rank7(cards))
	default:
		return featureScore(c, board)
	}
}

func featureScore(c ranges.Combo, board []deck.Card) float64 {
	hi, lo := c.A.Rank, c.B.Rank
	if lo > hi {
		hi, lo = lo, hi
	}

	boardRanks := make(map[deck.Rank]int, len(board))
	topBoard := deck.Two
	for _, b := range board {
		boardRanks[b.Rank]++
		if b.Rank > topBoard {
			topBoard = b.Rank
		}
	}

	score := 2*float64(hi) + float64(lo)

	switch {
	case c.Paired() && boardRanks[hi] > 0:
		score += 900 // set or better
	case c.Paired() && hi > topBoard:
		score += 620 + 4*float64(hi) // overpair
	case c.Paired():
		score += 420 + 4*float64(hi)
	case boardRanks[hi] > 0 && boardRanks[lo] > 0:
		score += 700 // two pair
	case boardRanks[hi] > 0 || boardRanks[lo] > 0:
		paired := lo
		if boardRanks[hi] > 0 {
			paired = hi
		}
		score += 380 + 8*float64(paired)
		if paired == topBoard {
			score += 90
		}
	}

	suitCounts := make(map[deck.Suit]int, 4)
	for _, b := range board {
		suitCounts[b.Suit]++
	}
	suitCounts[c.A.Suit]++
	suitCounts[c.B.Suit]++
	for _, n := range suitCounts {
		if n >= 5 {
			score += 750
		} else if n == 4 {
			score += 140
		}
	}

	score += straightDrawBonus(c, board)
	return score
}

// straightDrawBonus checks five-card windows over the combined ranks for
// open-ended and gutshot draws, with the ace playing low.
func straightDrawBonus(c ranges.Combo, board []deck.Card) float64 {
	present := make(map[int]bool, len(board)+2)
	mark := func(r deck.Rank) {
		present[int(r)] = true
		if r == deck.Ace {
			present[1] = true
		}
	}
	mark(c.A.Rank)
	mark(c.B.Rank)
	for _, b := range board {
		mark(b.Rank)
	}
	best := 0
	for low := 1; low <= int(deck.Ten); low++ {
		n := 0
		for r := low; r < low+5; r++ {
			if present[r] {
				n++
			}
		}
		if n > best {
			best = n
		}
	}
	switch best {
	case 5:
		return 760
	case 4:
		return 110
	default:
		return 0
	}
}
