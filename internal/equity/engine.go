// Package equity estimates hero's win probability against a weighted range
// with Monte Carlo rollouts. Adaptive trial counts keep cheap spots cheap:
// lopsided equities converge in one chunk while marginal ones run to the
// cap. Every result is memoised and every rollout respects card removal.
package equity

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/evaluator"
	"github.com/alexandersumer/gto-poker-trainer/internal/randutil"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
)

const (
	// monteChunk is evaluated between convergence checks.
	monteChunk = 150
	// targetStdError stops sampling once the estimate is this tight.
	targetStdError = 0.025
	// monteCeiling bounds marginal spots regardless of requested trials.
	monteCeiling = 1000
)

// Config controls trial budgets.
type Config struct {
	// BaseTrials is the default budget per combo when callers pass 0.
	BaseTrials int
	// HighPrecision doubles every requested budget.
	HighPrecision bool
	// Workers bounds parallel combo evaluation; 0 means NumCPU.
	Workers int
}

// Engine prices hero hands against ranges. Safe for concurrent use: the
// memo cache is guarded and entries are immutable once written.
type Engine struct {
	cfg   Config
	cache *cache
}

// NewEngine returns an engine with an empty cache.
func NewEngine(cfg Config) *Engine {
	if cfg.BaseTrials <= 0 {
		cfg.BaseTrials = 400
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Engine{cfg: cfg, cache: newCache()}
}

func (e *Engine) budget(trials int) int {
	if trials <= 0 {
		trials = e.cfg.BaseTrials
	}
	if e.cfg.HighPrecision {
		trials *= 2
	}
	return trials
}

// HeroVsCombo returns hero's equity against one specific rival holding,
// ties counted half. Results are deterministic: the rollout RNG is seeded
// from the memo key, so evaluation order and concurrency cannot change the
// number.
func (e *Engine) HeroVsCombo(hero [2]deck.Card, board []deck.Card, rival ranges.Combo, trials int) float64 {
	trials = e.budget(trials)
	key := comboKey(hero, board, rival, trials)
	if eq, ok := e.cache.get(key); ok {
		return eq
	}
	eq := equityVsCombo(hero, board, rival, trials, key)
	e.cache.put(key, eq)
	return eq
}

// HeroVsRange returns hero's equity against a weighted range. Combos
// sharing a card with hero or the board are skipped; remaining weights are
// re-normalised implicitly by the weighted average. Combo evaluations run
// in parallel; each is individually memoised so concurrent sessions share
// work.
func (e *Engine) HeroVsRange(hero [2]deck.Card, board []deck.Card, rng *ranges.Range, trials int) float64 {
	trials = e.budget(trials)
	key := rangeKey(hero, board, rng, trials)
	if eq, ok := e.cache.get(key); ok {
		return eq
	}

	dead := deck.NewCardSet(board)
	dead.Add(hero[0])
	dead.Add(hero[1])

	combos := rng.Combos()
	live := combos[:0:0]
	for _, c := range combos {
		if !c.Overlaps(dead) && rng.Weight(c) > 0 {
			live = append(live, c)
		}
	}
	if len(live) == 0 {
		return 0
	}

	results := make([]float64, len(live))
	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for i, combo := range live {
		g.Go(func() error {
			results[i] = e.HeroVsCombo(hero, board, combo, trials)
			return nil
		})
	}
	_ = g.Wait() // workers never error

	totalWeight, weighted := 0.0, 0.0
	for i, combo := range live {
		w := rng.Weight(combo)
		totalWeight += w
		weighted += w * results[i]
	}
	if totalWeight <= 0 {
		return 0
	}
	eq := weighted / totalWeight
	e.cache.put(key, eq)
	return eq
}

// equityVsCombo picks exact enumeration when at most one street remains,
// Monte Carlo otherwise.
func equityVsCombo(hero [2]deck.Card, board []deck.Card, rival ranges.Combo, trials int, key string) float64 {
	switch {
	case len(board) >= 5:
		return showdownEquity(hero, rival, [5]deck.Card(board[:5]))
	case len(board) == 4:
		return enumerateRivers(hero, board, rival)
	default:
		eq, _ := monteCarlo(hero, board, rival, trials, key)
		return eq
	}
}

func showdownEquity(hero [2]deck.Card, rival ranges.Combo, board [5]deck.Card) float64 {
	switch evaluator.Showdown(hero, [2]deck.Card{rival.A, rival.B}, board) {
	case 1:
		return 1
	case -1:
		return 0
	default:
		return 0.5
	}
}

// enumerateRivers averages the showdown over every legal river card.
func enumerateRivers(hero [2]deck.Card, board []deck.Card, rival ranges.Combo) float64 {
	dead := deck.NewCardSet(board)
	dead.Add(hero[0])
	dead.Add(hero[1])
	dead.Add(rival.A)
	dead.Add(rival.B)

	var full [5]deck.Card
	copy(full[:4], board)

	total, sum := 0, 0.0
	for idx := 0; idx < 52; idx++ {
		river := deck.FromIndex(idx)
		if dead.Contains(river) {
			continue
		}
		full[4] = river
		sum += showdownEquity(hero, rival, full)
		total++
	}
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}

// trialBounds treats the requested budget as a floor: the early stop may
// only fire past it, and the ceiling stretches to cover requests beyond
// monteCeiling.
func trialBounds(trials int) (minTrials, maxTrials int) {
	minTrials = trials
	maxTrials = monteCeiling
	if maxTrials < minTrials {
		maxTrials = minTrials
	}
	return minTrials, maxTrials
}

// monteCarlo runs chunked sampling with an early stop once the standard
// error is inside target, never before the requested trial count. Returns
// the estimate and the number of rollouts it took.
func monteCarlo(hero [2]deck.Card, board []deck.Card, rival ranges.Combo, trials int, key string) (float64, int) {
	rng := randutil.New(int64(randutil.HashString(key)))

	d := deck.NewDeck(rng)
	d.Exclude(hero[0], hero[1], rival.A, rival.B)
	d.Exclude(board...)
	available := d.DealN(d.CardsRemaining())

	need := 5 - len(board)
	minTrials, maxTrials := trialBounds(trials)

	var full [5]deck.Card
	copy(full[:], board)

	wins, ties, done := 0.0, 0.0, 0
	for done < maxTrials {
		chunk := monteChunk
		if remaining := maxTrials - done; chunk > remaining {
			chunk = remaining
		}
		for i := 0; i < chunk; i++ {
			// Partial Fisher-Yates over the tail keeps draws unique
			// without reallocating the candidate slice.
			n := len(available)
			for j := 0; j < need; j++ {
				k := j + rng.IntN(n-j)
				available[j], available[k] = available[k], available[j]
				full[len(board)+j] = available[j]
			}
			switch evaluator.Showdown(hero, [2]deck.Card{rival.A, rival.B}, full) {
			case 1:
				wins++
			case 0:
				ties++
			}
		}
		done += chunk

		p := (wins + 0.5*ties) / float64(done)
		variance := p * (1 - p)
		if variance < 0 {
			variance = 0
		}
		if done >= minTrials && variance/float64(done) <= targetStdError*targetStdError {
			break
		}
	}
	return (wins + 0.5*ties) / float64(done), done
}

func comboKey(hero [2]deck.Card, board []deck.Card, rival ranges.Combo, trials int) string {
	return fmt.Sprintf("c|%s|%s|%d-%d|%d",
		heroTag(hero), boardTag(board), rival.A.Index(), rival.B.Index(), trials)
}

func rangeKey(hero [2]deck.Card, board []deck.Card, rng *ranges.Range, trials int) string {
	return fmt.Sprintf("r|%s|%s|%d|%d",
		heroTag(hero), boardTag(board), rangeSignature(rng), trials)
}

func heroTag(hero [2]deck.Card) string {
	a, b := hero[0].Index(), hero[1].Index()
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

func boardTag(board []deck.Card) string {
	idx := make([]int, len(board))
	for i, c := range board {
		idx[i] = c.Index()
	}
	sort.Ints(idx)
	var sb strings.Builder
	for i, v := range idx {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	return sb.String()
}

// rangeSignature hashes combos and quantised weights so two equal ranges
// share cache entries.
func rangeSignature(rng *ranges.Range) uint64 {
	var sb strings.Builder
	for _, c := range rng.Combos() {
		fmt.Fprintf(&sb, "%d:%.6f;", c.Key(), rng.Weight(c))
	}
	return randutil.HashString(sb.String())
}
