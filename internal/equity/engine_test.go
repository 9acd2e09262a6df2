package equity

import (
	"math"
	"testing"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
)

func hole(a, b string) [2]deck.Card {
	return [2]deck.Card{deck.MustParseCard(a), deck.MustParseCard(b)}
}

func combo(a, b string) ranges.Combo {
	return ranges.NewCombo(deck.MustParseCard(a), deck.MustParseCard(b))
}

func board(strs ...string) []deck.Card {
	out := make([]deck.Card, len(strs))
	for i, s := range strs {
		out[i] = deck.MustParseCard(s)
	}
	return out
}

func TestAAvsKKPreflop(t *testing.T) {
	e := NewEngine(Config{BaseTrials: 800})
	eq := e.HeroVsCombo(hole("As", "Ah"), nil, combo("Ks", "Kh"), 800)
	if eq < 0.75 || eq > 0.90 {
		t.Errorf("AA vs KK equity = %.3f, want around 0.82", eq)
	}
}

func TestRiverEquityIsExact(t *testing.T) {
	e := NewEngine(Config{})
	b := board("2c", "7d", "9h", "Jc", "3s")
	eq := e.HeroVsCombo(hole("As", "Ah"), b, combo("Ks", "Kh"), 50)
	if eq != 1 {
		t.Errorf("locked river equity = %v, want exactly 1", eq)
	}
}

func TestEquityDeterministic(t *testing.T) {
	b := board("2c", "7d", "9h")
	// Separate engines so the memo cache cannot mask a drifting stream.
	a := NewEngine(Config{BaseTrials: 400}).HeroVsCombo(hole("As", "Kd"), b, combo("Qs", "Qh"), 400)
	c := NewEngine(Config{BaseTrials: 400}).HeroVsCombo(hole("As", "Kd"), b, combo("Qs", "Qh"), 400)
	if a != c {
		t.Errorf("same inputs produced different equities: %v vs %v", a, c)
	}
}

func TestHeroVsRangeSkipsBlockedCombos(t *testing.T) {
	e := NewEngine(Config{BaseTrials: 200})
	r := ranges.Uniform([]ranges.Combo{
		combo("As", "Ks"), // blocked by hero's As
		combo("Qd", "Qc"),
	})
	eq := e.HeroVsRange(hole("As", "Ah"), nil, r, 200)
	// Only QQ is live, so this is AA vs QQ.
	if eq < 0.70 {
		t.Errorf("AA vs {AKs blocked, QQ} = %.3f, want AA-vs-QQ territory", eq)
	}
}

func TestStrongerRangeLowersEquity(t *testing.T) {
	e := NewEngine(Config{BaseTrials: 400})
	weak := ranges.Uniform(ranges.CombosForClass("72o"))
	strong := ranges.Uniform(ranges.CombosForClass("KK"))

	hero := hole("Qs", "Qh")
	vsWeak := e.HeroVsRange(hero, nil, weak, 400)
	vsStrong := e.HeroVsRange(hero, nil, strong, 400)
	if vsWeak <= vsStrong {
		t.Errorf("QQ equity vs 72o (%.3f) should exceed vs KK (%.3f)", vsWeak, vsStrong)
	}
	if math.Abs(vsWeak-vsStrong) < 0.2 {
		t.Errorf("equity gap %.3f suspiciously small", vsWeak-vsStrong)
	}
}

func TestTrialBoundsTreatRequestAsFloor(t *testing.T) {
	cases := []struct {
		trials, wantMin, wantMax int
	}{
		{400, 400, 1000},
		{800, 800, 1000},
		{1000, 1000, 1000},
		{5000, 5000, 5000},
	}
	for _, tc := range cases {
		gotMin, gotMax := trialBounds(tc.trials)
		if gotMin != tc.wantMin || gotMax != tc.wantMax {
			t.Errorf("trialBounds(%d) = (%d, %d), want (%d, %d)",
				tc.trials, gotMin, gotMax, tc.wantMin, tc.wantMax)
		}
	}
}

func TestHighPrecisionDoublesSamplingFloor(t *testing.T) {
	base := NewEngine(Config{BaseTrials: 400})
	precise := NewEngine(Config{BaseTrials: 400, HighPrecision: true})

	baseMin, _ := trialBounds(base.budget(0))
	preciseMin, _ := trialBounds(precise.budget(0))
	if preciseMin != 2*baseMin {
		t.Errorf("high-precision floor = %d, want double the base %d", preciseMin, baseMin)
	}
}

func TestBiggerBudgetSamplesMore(t *testing.T) {
	b := board("2c", "7d", "9h")
	hero := hole("As", "Kd")
	rival := combo("Qs", "Qh")

	_, small := monteCarlo(hero, b, rival, 150, "shared-key")
	_, large := monteCarlo(hero, b, rival, 5000, "shared-key")
	if large < 5000 {
		t.Errorf("5000-trial request ran only %d rollouts; the budget never reached the sampler", large)
	}
	if small >= large {
		t.Errorf("150-trial request ran %d rollouts, not fewer than the 5000-trial request's %d", small, large)
	}
}

func TestCacheHitsReturnSameValue(t *testing.T) {
	e := NewEngine(Config{BaseTrials: 300})
	b := board("2c", "7d", "9h")
	first := e.HeroVsCombo(hole("As", "Kd"), b, combo("Ts", "Th"), 300)
	second := e.HeroVsCombo(hole("As", "Kd"), b, combo("Ts", "Th"), 300)
	if first != second {
		t.Errorf("memoized lookup changed: %v vs %v", first, second)
	}
}
