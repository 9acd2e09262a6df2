package ranges

import (
	"math"
	"sort"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
)

// weightEpsilon is the tolerance below which a total weight counts as zero.
const weightEpsilon = 1e-12

// Range is a normalized weight distribution over combos. The zero value is
// unusable; construct through New, Uniform or the mutating helpers, all of
// which leave the receiver normalized. Methods that transform a range
// return a fresh one - nodes share ranges and expect them frozen.
type Range struct {
	weights map[Combo]float64
}

// New returns an empty range.
func New() *Range {
	return &Range{weights: make(map[Combo]float64)}
}

// Uniform builds a normalized range with equal weight on every combo.
func Uniform(combos []Combo) *Range {
	r := New()
	if len(combos) == 0 {
		return r
	}
	w := 1.0 / float64(len(combos))
	for _, c := range combos {
		r.weights[c] = w
	}
	return r
}

// FromWeights builds a normalized range from raw non-negative weights.
func FromWeights(weights map[Combo]float64) *Range {
	r := New()
	for c, w := range weights {
		if w > 0 {
			r.weights[c] = w
		}
	}
	r.normalize()
	return r
}

// Len returns the number of combos carrying weight.
func (r *Range) Len() int {
	return len(r.weights)
}

// Weight returns the normalized weight of a combo (zero when absent).
func (r *Range) Weight(c Combo) float64 {
	return r.weights[c]
}

// Total returns the weight sum. 1 within tolerance for any non-empty range.
func (r *Range) Total() float64 {
	total := 0.0
	for _, w := range r.weights {
		total += w
	}
	return total
}

// Combos returns the carried combos sorted by key. Sorting makes every
// traversal deterministic regardless of map iteration order.
func (r *Range) Combos() []Combo {
	out := make([]Combo, 0, len(r.weights))
	for c := range r.weights {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Clone returns an independent copy.
func (r *Range) Clone() *Range {
	out := New()
	for c, w := range r.weights {
		out.weights[c] = w
	}
	return out
}

func (r *Range) normalize() {
	total := r.Total()
	if total <= weightEpsilon {
		return
	}
	for c, w := range r.weights {
		r.weights[c] = w / total
	}
}

// RemoveDead zeroes every combo sharing a card with the dead set and
// renormalizes. If removal would empty the range the receiver is returned
// unchanged - the same contradiction fallback Narrow uses.
func (r *Range) RemoveDead(dead deck.CardSet) *Range {
	return r.narrowed(func(c Combo) float64 {
		if c.Overlaps(dead) {
			return 0
		}
		return 1
	})
}

// Narrow reweights each combo by keep(combo) (a multiplicative factor in
// [0,1], typically an action-consistency frequency) and renormalizes.
// When narrowing would zero every weight - a logical contradiction between
// the model and an observed action - the prior range is returned and ok is
// false so callers can log the recovery.
func (r *Range) Narrow(keep func(Combo) float64) (rng *Range, ok bool) {
	out := New()
	for c, w := range r.weights {
		f := keep(c)
		if f <= 0 {
			continue
		}
		out.weights[c] = w * f
	}
	if out.Total() <= weightEpsilon {
		return r, false
	}
	out.normalize()
	return out, true
}

func (r *Range) narrowed(keep func(Combo) float64) *Range {
	out, _ := r.Narrow(keep)
	return out
}

// Percentile returns the strength percentile of a combo within this range:
// 1 for the strongest carried combo, 0 for the weakest. Combos outside the
// range score against the same ordering.
func (r *Range) Percentile(target Combo) float64 {
	combos := r.Combos()
	if len(combos) <= 1 {
		return 1
	}
	type scored struct {
		c Combo
		s float64
	}
	ordered := make([]scored, len(combos))
	for i, c := range combos {
		ordered[i] = scored{c: c, s: PlayabilityScore(c)}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].s != ordered[j].s {
			return ordered[i].s > ordered[j].s
		}
		return ordered[i].c.Key() < ordered[j].c.Key()
	})
	targetScore := PlayabilityScore(target)
	idx := len(ordered) - 1
	for i, e := range ordered {
		if e.c == target || targetScore >= e.s {
			idx = i
			break
		}
	}
	return 1 - float64(idx)/float64(len(ordered)-1)
}

// TopFraction keeps the strongest f (0..1] of carried combos by
// playability, renormalized. Keeps at least one combo.
func (r *Range) TopFraction(f float64) *Range {
	f = math.Min(1, math.Max(0, f))
	combos := r.Combos()
	if len(combos) == 0 {
		return r.Clone()
	}
	sort.SliceStable(combos, func(i, j int) bool {
		si, sj := PlayabilityScore(combos[i]), PlayabilityScore(combos[j])
		if si != sj {
			return si > sj
		}
		return combos[i].Key() < combos[j].Key()
	})
	keep := int(math.Round(float64(len(combos)) * f))
	if keep < 1 {
		keep = 1
	}
	out := New()
	for _, c := range combos[:keep] {
		out.weights[c] = r.weights[c]
	}
	out.normalize()
	return out
}

// Sample draws a combo proportionally to weight using the caller's RNG.
// Iteration is over the sorted combo slice, so a fixed RNG stream yields a
// fixed draw. Returns false on an empty range.
func (r *Range) Sample(u float64) (Combo, bool) {
	combos := r.Combos()
	if len(combos) == 0 {
		return Combo{}, false
	}
	target := u * r.Total()
	acc := 0.0
	for _, c := range combos {
		acc += r.weights[c]
		if target <= acc {
			return c, true
		}
	}
	return combos[len(combos)-1], true
}
