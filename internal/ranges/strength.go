package ranges

import "github.com/alexandersumer/gto-poker-trainer/internal/deck"

// PlayabilityScore ranks preflop holdings with a cheap deterministic
// heuristic. It is not an equity table: its only job is to induce a stable,
// sensible total order (pairs strong, big suited broadways next, junk last)
// so ranges and percentiles are reproducible without simulation.
func PlayabilityScore(c Combo) float64 {
	hi, lo := float64(c.A.Rank), float64(c.B.Rank)
	if lo > hi {
		hi, lo = lo, hi
	}

	if c.Paired() {
		score := 9.0*hi + 6.0
		// Small pairs still flop sets; keep them ahead of rag high-cards.
		if floor := 40.0 + 2.0*hi; score < floor {
			score = floor
		}
		return score
	}

	score := 3.2*hi + 1.8*lo
	if c.Suited() {
		score += 3.5
	}
	gap := int(hi - lo - 1)
	switch {
	case gap == 0:
		score += 3
	case gap == 1:
		score += 1
	case gap == 2:
		score -= 1
	case gap == 3:
		score -= 3
	default:
		score -= 5
	}
	if deck.Rank(hi) >= deck.Ten && deck.Rank(lo) >= deck.Ten {
		score += 4
	}
	return score
}
