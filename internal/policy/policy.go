// Package policy prices every legal hero action at a decision point and
// resolves the chosen one against the simulated rival. EVs are measured
// in big blinds from the decision point onward: folding is always worth
// zero, so positive numbers mean the action claims value from the pot.
package policy

import (
	"fmt"
	"math"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/episode"
	"github.com/alexandersumer/gto-poker-trainer/internal/equity"
	"github.com/alexandersumer/gto-poker-trainer/internal/preflop"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
	"github.com/alexandersumer/gto-poker-trainer/internal/rival"
	"github.com/alexandersumer/gto-poker-trainer/internal/solver"
	"github.com/alexandersumer/gto-poker-trainer/internal/texture"
)

// Node is one hero decision point. Pot is everything already committed by
// both players; ToCall is what the hero must add to continue. The rival
// range reflects every action observed so far.
type Node struct {
	Street     episode.Street
	Ep         episode.Episode
	Pot        float64
	ToCall     float64
	HeroStack  float64
	RivalStack float64
	RivalRange *ranges.Range
	Aggression float64
	OpenSize   float64 // size of the preflop open in bb, when one happened
	Checked    bool    // rival has already checked this street
}

// Board returns the cards visible at this node.
func (n *Node) Board() []deck.Card {
	return n.Ep.BoardAt(n.Street)
}

// FacingBet reports whether the hero must match chips to continue.
func (n *Node) FacingBet() bool {
	return n.ToCall > 0
}

// Option is one priced action. EV is the model's expected value in big
// blinds; Freq is the equilibrium frequency from the local subgame solve.
type Option struct {
	Key   string
	Label string
	EV    float64
	Freq  float64
	Why   string

	bet   float64 // chips the hero adds beyond ToCall
	total float64 // total chips the hero adds
}

// HandResult is emitted when a hand finishes.
type HandResult struct {
	HeroNet    float64
	Showdown   bool
	HeroFolded bool
	RivalFold  bool
	Detail     string
}

// Config tunes the pricing engine.
type Config struct {
	Trials        int
	HighPrecision bool
}

// Engine prices and resolves decision points for one session.
type Engine struct {
	equity  *equity.Engine
	persona rival.Persona
	mix     *preflop.Mix
	cfg     Config
}

// NewEngine builds a pricing engine. mix may be nil when no chart is
// loaded.
func NewEngine(eq *equity.Engine, persona rival.Persona, mix *preflop.Mix, cfg Config) *Engine {
	if cfg.Trials <= 0 {
		cfg.Trials = 400
	}
	return &Engine{equity: eq, persona: persona, mix: mix, cfg: cfg}
}

// responseModel aggregates the persona's reaction to a bet over the whole
// rival range: how much of it folds, calls, or raises, and the ranges left
// behind each continuing branch.
type responseModel struct {
	fold, call, raise float64
	callRange         *ranges.Range
	raiseRange        *ranges.Range
}

func (e *Engine) modelResponse(node *Node, table *strengthTable, sizeRatio float64) responseModel {
	board := node.Board()
	wet := texture.Wetness(board)

	callProbs := make(map[int]float64, node.RivalRange.Len())
	raiseProbs := make(map[int]float64, node.RivalRange.Len())

	var m responseModel
	var total float64
	for _, c := range node.RivalRange.Combos() {
		w := node.RivalRange.Weight(c)
		in := rival.Input{
			Percentile: table.percentile(c, board),
			SizeRatio:  sizeRatio,
			Texture:    wet,
			FacingBet:  true,
			Aggression: node.Aggression,
		}
		f := e.persona.FoldProbability(in)
		r := (1 - f) * e.persona.RaiseProbability(in)
		call := 1 - f - r
		callProbs[c.Key()] = call
		raiseProbs[c.Key()] = r
		m.fold += w * f
		m.call += w * call
		m.raise += w * r
		total += w
	}
	if total > 0 {
		m.fold /= total
		m.call /= total
		m.raise /= total
	}
	m.callRange, _ = node.RivalRange.Narrow(func(c ranges.Combo) float64 { return callProbs[c.Key()] })
	m.raiseRange, _ = node.RivalRange.Narrow(func(c ranges.Combo) float64 { return raiseProbs[c.Key()] })
	return m
}

// heroEquity prices the hero's actual hand against a rival range.
func (e *Engine) heroEquity(node *Node, vs *ranges.Range) float64 {
	trials := e.cfg.Trials
	if e.cfg.HighPrecision {
		trials *= 2
	}
	return e.equity.HeroVsRange(node.Ep.HeroCards, node.Board(), vs, trials)
}

// betBranches are the payoffs of one aggressive line against the rival's
// three pure responses.
type betBranches struct {
	vsFold  float64
	vsCall  float64
	vsRaise float64
}

// betLine prices an aggressive action where `total` is every chip the hero
// adds (call portion included). Returns the persona-weighted EV plus the
// per-branch payoffs for the subgame solve.
func (e *Engine) betLine(node *Node, m responseModel, total float64) (float64, betBranches) {
	var b betBranches
	b.vsFold = node.Pot

	eqCall := e.heroEquity(node, m.callRange)
	extraFromRival := total - node.ToCall // rival matches the raise portion
	potIfCall := node.Pot + total + extraFromRival
	b.vsCall = eqCall*potIfCall - total

	// Versus a raise the hero faces roughly a 3x comeback, capped at
	// stacks. The hero takes the better of folding the bet or calling off.
	raiseTo := math.Min(3*total, node.HeroStack)
	b.vsRaise = -total
	if m.raise > 1e-9 {
		eqRaise := e.heroEquity(node, m.raiseRange)
		potAllIn := node.Pot + raiseTo + (raiseTo - node.ToCall)
		b.vsRaise = math.Max(-total, eqRaise*potAllIn-raiseTo)
	}

	ev := m.fold*b.vsFold + m.call*b.vsCall + m.raise*b.vsRaise
	return ev, b
}

// solveFrequencies runs a local subgame solve over the priced options so
// each one carries an equilibrium frequency alongside its EV. rows holds
// the per-option payoffs against the rival's pure responses; passive
// options repeat their EV across every column.
func (e *Engine) solveFrequencies(opts []Option, rows [][]float64) {
	if len(opts) < 2 {
		for i := range opts {
			opts[i].Freq = 1
		}
		return
	}
	res := solver.Solve(rows, solver.Config{HighPrecision: e.cfg.HighPrecision})
	for i := range opts {
		opts[i].Freq = res.Strategy[i]
	}
}

// applyChartFrequencies overrides preflop frequencies with charted ones
// when the chart covers the hero's hand class.
func (e *Engine) applyChartFrequencies(node *Node, opts []Option) {
	if e.mix == nil || node.Street != episode.Preflop {
		return
	}
	class := ranges.NewCombo(node.Ep.HeroCards[0], node.Ep.HeroCards[1]).HandClass()
	freqs, charted := e.mix.Frequencies(class, 0)
	if !charted {
		return
	}
	raiseCount := 0
	for _, o := range opts {
		if o.bet > 0 {
			raiseCount++
		}
	}
	for i := range opts {
		switch {
		case opts[i].Key == "fold":
			opts[i].Freq = freqs.Fold
		case opts[i].bet > 0 && raiseCount > 0:
			opts[i].Freq = freqs.Raise / float64(raiseCount)
		default:
			opts[i].Freq = freqs.Call
		}
	}
}

func betKey(ratio float64) string {
	return fmt.Sprintf("bet %d%%", int(ratio*100+0.5))
}
