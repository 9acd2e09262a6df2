// Package preflop builds the starting ranges both seats bring into a hand.
// The small blind opens a wide playability-ranked range; the big blind
// defends a fraction that shrinks as the open gets larger. An external
// chart, when loaded, overrides the heuristic weights for any hand class
// it covers.
package preflop

import (
	"sort"

	"github.com/alexandersumer/gto-poker-trainer/internal/chart"
	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
)

// openFraction is the share of all combos the small blind opens.
const openFraction = 0.80

// defendAnchors map open size (in big blinds) to the big blind's defend
// fraction. Sizes between anchors interpolate linearly; sizes outside the
// table clamp to the nearest anchor.
var defendAnchors = []struct {
	size, fraction float64
}{
	{2.0, 0.72},
	{2.5, 0.56},
	{3.0, 0.40},
	{3.2, 0.34},
}

// DefendFraction returns how much of the big blind's range continues
// against an open of the given size.
func DefendFraction(openSize float64) float64 {
	anchors := defendAnchors
	if openSize <= anchors[0].size {
		return anchors[0].fraction
	}
	last := anchors[len(anchors)-1]
	if openSize >= last.size {
		return last.fraction
	}
	for i := 1; i < len(anchors); i++ {
		if openSize <= anchors[i].size {
			lo, hi := anchors[i-1], anchors[i]
			t := (openSize - lo.size) / (hi.size - lo.size)
			return lo.fraction + t*(hi.fraction-lo.fraction)
		}
	}
	return last.fraction
}

// OpenRange is the small blind's opening range with dead cards removed.
func OpenRange(blocked deck.CardSet) *ranges.Range {
	return topFraction(openFraction, blocked)
}

// DefendRange is the big blind's continuing range versus an open of the
// given size, with dead cards removed.
func DefendRange(openSize float64, blocked deck.CardSet) *ranges.Range {
	return topFraction(DefendFraction(openSize), blocked)
}

func topFraction(fraction float64, blocked deck.CardSet) *ranges.Range {
	combos := ranges.CombosByStrength(blocked)
	keep := int(float64(len(combos))*fraction + 0.5)
	if keep < 1 {
		keep = 1
	}
	if keep > len(combos) {
		keep = len(combos)
	}
	weights := make(map[ranges.Combo]float64, keep)
	for _, c := range combos[:keep] {
		weights[c] = 1
	}
	return ranges.FromWeights(weights)
}

// Initial builds the rival's starting range for a hand. A big blind that
// has not acted yet holds everything the blockers allow; a small blind that
// opened holds its charted range, or the heuristic opening range when no
// chart covers it. The opening range does not key on openSize: sizes are
// sampled from one distribution over the whole range.
func Initial(seat ranges.Seat, openSize float64, mix *Mix, blocked deck.CardSet) *ranges.Range {
	if seat == ranges.BB {
		return ranges.Uniform(ranges.AllCombos()).RemoveDead(blocked)
	}
	if mix != nil {
		return mix.ChartedRange(openFraction, blocked)
	}
	return OpenRange(blocked)
}

// source is one provider of preflop frequencies. A source may decline a
// hand class; the next one in order is asked.
type source interface {
	frequencies(handClass string, percentile float64) (chart.ActionFreqs, bool)
}

// chartSource answers only for hand classes its chart covers.
type chartSource struct {
	repo *chart.Repository
	name string
}

func (s chartSource) frequencies(handClass string, _ float64) (chart.ActionFreqs, bool) {
	return s.repo.Lookup(s.name, handClass)
}

// heuristicSource answers every class from the percentile ranking.
type heuristicSource struct{}

func (heuristicSource) frequencies(_ string, percentile float64) (chart.ActionFreqs, bool) {
	return heuristicFreqs(percentile), true
}

// Mix holds the frequency sources for one seat's preflop decisions, asked
// in order: charted classes win, everything else falls to the heuristic
// ranking.
type Mix struct {
	charted   []source
	repo      *chart.Repository
	chartName string
}

// NewMix wires a chart repository into preflop frequency lookups. A nil
// repository yields a heuristic-only mix.
func NewMix(repo *chart.Repository, chartName string) *Mix {
	m := &Mix{repo: repo, chartName: chartName}
	if repo != nil {
		m.charted = append(m.charted, chartSource{repo: repo, name: chartName})
	}
	return m
}

// Frequencies returns the raise/call/fold split for a hand class along with
// whether the split came from a chart.
func (m *Mix) Frequencies(handClass string, percentile float64) (chart.ActionFreqs, bool) {
	if m != nil {
		for _, s := range m.charted {
			if freqs, ok := s.frequencies(handClass, percentile); ok {
				return freqs, true
			}
		}
	}
	freqs, _ := heuristicSource{}.frequencies(handClass, percentile)
	return freqs, false
}

// heuristicFreqs maps range percentile (1 = strongest) to a raise-lean
// split. Strong hands raise, middling hands mix, weak hands fold.
func heuristicFreqs(percentile float64) chart.ActionFreqs {
	switch {
	case percentile >= 0.85:
		return chart.ActionFreqs{Raise: 0.9, Call: 0.1}
	case percentile >= 0.6:
		return chart.ActionFreqs{Raise: 0.55, Call: 0.35, Fold: 0.10}
	case percentile >= 0.35:
		return chart.ActionFreqs{Raise: 0.2, Call: 0.45, Fold: 0.35}
	default:
		return chart.ActionFreqs{Fold: 1}
	}
}

// ChartedRange builds a weighted range from a chart's continue frequencies
// (raise + call), falling back to the heuristic range when the chart has no
// entries for the name.
func (m *Mix) ChartedRange(fallbackFraction float64, blocked deck.CardSet) *ranges.Range {
	if m == nil || m.repo == nil {
		return topFraction(fallbackFraction, blocked)
	}
	entries := m.repo.Entries(m.chartName)
	if len(entries) == 0 {
		return topFraction(fallbackFraction, blocked)
	}
	weights := make(map[ranges.Combo]float64)
	classes := make([]string, 0, len(entries))
	for class := range entries {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		freqs := entries[class]
		cont := freqs.Raise + freqs.Call
		if cont <= 0 {
			continue
		}
		for _, combo := range ranges.CombosForClass(class) {
			if combo.Overlaps(blocked) {
				continue
			}
			weights[combo] = cont
		}
	}
	if len(weights) == 0 {
		return topFraction(fallbackFraction, blocked)
	}
	return ranges.FromWeights(weights)
}
