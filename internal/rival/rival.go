// Package rival simulates the opposing player. Decisions are driven only
// by information the rival can legitimately see: its own hand's percentile
// within its current range, the bet size it faces, board texture, and the
// hero's observed aggression. Hero hole cards never enter the model.
package rival

import (
	"math"
	"math/rand/v2"
)

// Action is a rival response at one decision point.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	default:
		return "raise"
	}
}

// Persona is a fixed behavioural profile. Biases shift the fold threshold
// and mix; NoiseScale bounds the per-decision jitter.
type Persona struct {
	Name            string
	FoldBias        float64
	ThresholdDelta  float64
	StrengthScale   float64
	AggressionScale float64
	CallBias        float64
	NoiseScale      float64
}

// Personas returns the built-in profiles in a stable order. "balanced" is
// the default opponent.
func Personas() []Persona {
	return []Persona{
		{Name: "balanced", StrengthScale: 1.0, AggressionScale: 1.0, NoiseScale: 0.03},
		{Name: "aggressive", FoldBias: -0.08, ThresholdDelta: -0.06, StrengthScale: 1.05, AggressionScale: 1.5, NoiseScale: 0.05},
		{Name: "passive", FoldBias: 0.05, ThresholdDelta: 0.04, StrengthScale: 0.95, AggressionScale: 0.55, CallBias: 0.08, NoiseScale: 0.04},
		{Name: "texture", StrengthScale: 1.0, AggressionScale: 1.1, NoiseScale: 0.04},
	}
}

// ByName finds a persona, defaulting to balanced for unknown names.
func ByName(name string) Persona {
	for _, p := range Personas() {
		if p.Name == name {
			return p
		}
	}
	return Personas()[0]
}

// Input describes one rival decision point. Percentile is the rival
// hand's standing within its own current range, 1 strongest. SizeRatio is
// bet over pot, zero when checked to.
type Input struct {
	Percentile float64
	SizeRatio  float64
	Texture    float64
	FacingBet  bool
	Aggression float64
}

const foldTemperature = 0.08

// FoldProbability is the chance the persona folds to a bet. Larger bets
// and dry boards push the fold threshold up; hero aggression and wet
// boards pull it down.
func (p Persona) FoldProbability(in Input) float64 {
	if !in.FacingBet {
		return 0
	}
	threshold := 0.45 +
		0.25*math.Tanh(in.SizeRatio-0.6) -
		0.2*(in.Texture-0.5) -
		aggressionLoosen(in.Aggression) +
		p.ThresholdDelta
	if p.Name == "texture" {
		// Texture-aware play leans harder on board wetness.
		threshold -= 0.15 * (in.Texture - 0.5)
	}
	prob := sigmoid((threshold - in.Percentile) / foldTemperature)
	prob += p.FoldBias - p.CallBias
	return clamp01(prob)
}

// aggressionLoosen converts tracked hero aggression into a threshold
// discount, capped so even a maniac image cannot force calls everywhere.
func aggressionLoosen(level float64) float64 {
	loosen := 0.04 * level
	if loosen > 0.12 {
		loosen = 0.12
	}
	if loosen < 0 {
		loosen = 0
	}
	return loosen
}

// RaiseProbability is the chance the persona raises rather than calls,
// conditioned on continuing.
func (p Persona) RaiseProbability(in Input) float64 {
	strength := clamp01(in.Percentile * p.StrengthScale)
	edge := strength - (0.8 - 0.05*in.Texture)
	if edge <= 0 {
		return 0
	}
	return clamp01(edge * 2.2 * p.AggressionScale)
}

// BetProbability is the chance the persona bets when checked to.
func (p Persona) BetProbability(in Input) float64 {
	strength := clamp01(in.Percentile * p.StrengthScale)
	base := 0.18 + 0.5*math.Max(0, strength-0.55)
	base += 0.1 * (in.Texture - 0.5)
	return clamp01(base * p.AggressionScale)
}

// Decide samples one action. The rng stream belongs to the caller so the
// same seed always replays the same line.
func (p Persona) Decide(in Input, rng *rand.Rand) Action {
	noise := p.NoiseScale * (2*rng.Float64() - 1)
	if in.FacingBet {
		fold := clamp01(p.FoldProbability(in) + noise)
		u := rng.Float64()
		if u < fold {
			return Fold
		}
		if rng.Float64() < p.RaiseProbability(in) {
			return Raise
		}
		return Call
	}
	bet := clamp01(p.BetProbability(in) + noise)
	if rng.Float64() < bet {
		return Bet
	}
	return Check
}

// Tracker accumulates how aggressively the hero has played. Raises add a
// full point; the image decays by half at each new street.
type Tracker struct {
	level float64
}

// HeroRaised records an aggressive hero action.
func (t *Tracker) HeroRaised() {
	t.level++
}

// NextStreet decays the remembered aggression.
func (t *Tracker) NextStreet() {
	t.level *= 0.5
}

// Level is the current aggression reading.
func (t *Tracker) Level() float64 {
	return t.level
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
