// Package solver computes near-equilibrium strategies for the small
// zero-sum matrix games that arise at a single decision point. It runs
// linear CFR with regret matching+, which converges fast enough on these
// action counts (2 to 5 per side) that a few hundred iterations price
// every action to well under the display precision.
package solver

import "math"

// Config tunes the iteration budget. Zero values derive the budget from
// the matrix shape.
type Config struct {
	Iterations    int
	HighPrecision bool
}

// Result carries the averaged strategies and hero action values after
// solving. Strategies sum to 1; Payoffs[i] is the hero's EV for action i
// against the rival's averaged strategy.
type Result struct {
	Strategy      []float64
	RivalStrategy []float64
	Payoffs       []float64
	HeroValue     float64
	Iterations    int
}

// iterationBudget scales with action counts past a two-action base game.
func iterationBudget(heroActions, rivalActions int, cfg Config) int {
	if cfg.Iterations > 0 {
		if cfg.HighPrecision {
			return cfg.Iterations * 2
		}
		return cfg.Iterations
	}
	n := 600
	if heroActions > 2 {
		n += 220 * (heroActions - 2)
	}
	if rivalActions > 2 {
		n += 110 * (rivalActions - 2)
	}
	if cfg.HighPrecision {
		n *= 2
	}
	return n
}

// Solve runs linear CFR on a hero-payoff matrix. heroPayoff[i][j] is the
// hero's value when the hero takes action i and the rival action j; the
// game is zero sum, so the rival's payoff is the negation.
func Solve(heroPayoff [][]float64, cfg Config) Result {
	heroN := len(heroPayoff)
	if heroN == 0 {
		return Result{}
	}
	rivalN := len(heroPayoff[0])
	if rivalN == 0 {
		return Result{}
	}

	iterations := iterationBudget(heroN, rivalN, cfg)

	heroRegret := make([]float64, heroN)
	rivalRegret := make([]float64, rivalN)
	heroSum := make([]float64, heroN)
	rivalSum := make([]float64, rivalN)
	heroUtil := make([]float64, heroN)
	rivalUtil := make([]float64, rivalN)

	for t := 1; t <= iterations; t++ {
		heroStrat := matchedStrategy(heroRegret)
		rivalStrat := matchedStrategy(rivalRegret)

		for i := 0; i < heroN; i++ {
			var u float64
			for j := 0; j < rivalN; j++ {
				u += heroPayoff[i][j] * rivalStrat[j]
			}
			heroUtil[i] = u
		}
		for j := 0; j < rivalN; j++ {
			var u float64
			for i := 0; i < heroN; i++ {
				u -= heroPayoff[i][j] * heroStrat[i]
			}
			rivalUtil[j] = u
		}

		var heroValue, rivalValue float64
		for i := 0; i < heroN; i++ {
			heroValue += heroStrat[i] * heroUtil[i]
		}
		for j := 0; j < rivalN; j++ {
			rivalValue += rivalStrat[j] * rivalUtil[j]
		}

		// Linear weighting: later iterations dominate the averages, so
		// the early uniform play washes out quickly.
		weight := math.Pow(float64(t), 1.5)
		for i := 0; i < heroN; i++ {
			heroSum[i] += weight * heroStrat[i]
			heroRegret[i] = math.Max(0, heroRegret[i]+heroUtil[i]-heroValue)
		}
		for j := 0; j < rivalN; j++ {
			rivalSum[j] += weight * rivalStrat[j]
			rivalRegret[j] = math.Max(0, rivalRegret[j]+rivalUtil[j]-rivalValue)
		}
	}

	strategy := normalized(heroSum)
	rivalStrategy := normalized(rivalSum)

	payoffs := make([]float64, heroN)
	var value float64
	for i := 0; i < heroN; i++ {
		var u float64
		for j := 0; j < rivalN; j++ {
			u += heroPayoff[i][j] * rivalStrategy[j]
		}
		payoffs[i] = u
		value += strategy[i] * u
	}

	return Result{
		Strategy:      strategy,
		RivalStrategy: rivalStrategy,
		Payoffs:       payoffs,
		HeroValue:     value,
		Iterations:    iterations,
	}
}

// matchedStrategy converts regrets to a strategy via regret matching,
// falling back to uniform when no action has positive regret.
func matchedStrategy(regrets []float64) []float64 {
	strat := make([]float64, len(regrets))
	var total float64
	for _, r := range regrets {
		if r > 0 {
			total += r
		}
	}
	if total <= 0 {
		u := 1 / float64(len(regrets))
		for i := range strat {
			strat[i] = u
		}
		return strat
	}
	for i, r := range regrets {
		if r > 0 {
			strat[i] = r / total
		}
	}
	return strat
}

func normalized(sums []float64) []float64 {
	out := make([]float64, len(sums))
	var total float64
	for _, s := range sums {
		total += s
	}
	if total <= 0 {
		u := 1 / float64(len(sums))
		for i := range out {
			out[i] = u
		}
		return out
	}
	for i, s := range sums {
		out[i] = s / total
	}
	return out
}
