package policy

import (
	"fmt"
	"math"

	"github.com/alexandersumer/gto-poker-trainer/internal/episode"
)

// Canonical sizings, as fractions of the pot per street.
var streetBetRatios = map[episode.Street][]float64{
	episode.Flop:  {0.33, 0.75},
	episode.Turn:  {0.50, 0.75},
	episode.River: {0.75},
}

// jamSPRCutoff: below this stack-to-pot ratio the palette gains an all-in.
const jamSPRCutoff = 1.5

// OptionsFor prices every legal hero action at the node. Options come back
// in canonical order: fold first, passive continues next, then bets in
// ascending size. Frequencies sum to 1 across the slice.
func (e *Engine) OptionsFor(node *Node) []Option {
	table := newStrengthTable(node.RivalRange, node.Board())

	var opts []Option
	var rows [][]float64

	if node.Street == episode.Preflop && node.OpenSize == 0 {
		opts, rows = e.openerOptions(node, table)
	} else if node.FacingBet() {
		opts, rows = e.facingBetOptions(node, table)
	} else {
		opts, rows = e.postflopOptions(node, table)
	}

	e.solveFrequencies(opts, rows)
	e.applyChartFrequencies(node, opts)
	return opts
}

// openerOptions covers the small blind's first action: fold, limp, or open.
func (e *Engine) openerOptions(node *Node, table *strengthTable) ([]Option, [][]float64) {
	eq := e.heroEquity(node, node.RivalRange)

	opts := []Option{
		{Key: "fold", Label: "Fold", EV: 0, Why: "surrenders the blinds"},
	}
	limpEV := eq*2.0 - 0.5
	opts = append(opts, Option{
		Key:   "limp",
		Label: "Limp",
		EV:    limpEV,
		Why:   fmt.Sprintf("sees a flop with %.0f%% equity", eq*100),
		total: 0.5,
	})
	rows := [][]float64{
		{0, 0, 0},
		{limpEV, limpEV, limpEV},
	}

	sizes := []float64{2.5, 3.0}
	if node.HeroStack <= 15 {
		sizes = []float64{node.HeroStack}
	}
	for _, x := range sizes {
		total := math.Min(x, node.HeroStack) - 0.5
		ratio := (x - 1) / (x + 1)
		m := e.modelResponse(node, table, ratio)
		ev, b := e.betLine(node, m, total)
		key := fmt.Sprintf("raise %.1fx", x)
		label := fmt.Sprintf("Raise to %.1fbb", x)
		if x >= node.HeroStack {
			key, label = "jam", "All-in"
		}
		opts = append(opts, Option{
			Key:   key,
			Label: label,
			EV:    ev,
			Why:   fmt.Sprintf("folds out %.0f%% of hands", m.fold*100),
			bet:   total - node.ToCall,
			total: total,
		})
		rows = append(rows, []float64{b.vsFold, b.vsCall, b.vsRaise})
	}
	return opts, rows
}

// facingBetOptions covers any spot where chips must be matched: fold,
// call, or raise (all-in when the raise would leave nothing behind).
func (e *Engine) facingBetOptions(node *Node, table *strengthTable) ([]Option, [][]float64) {
	eqCall := e.heroEquity(node, node.RivalRange)
	potOdds := node.ToCall / (node.Pot + node.ToCall)
	callEV := eqCall*(node.Pot+node.ToCall) - node.ToCall

	opts := []Option{
		{Key: "fold", Label: "Fold", EV: 0, Why: fmt.Sprintf("needs %.0f%% equity to continue", potOdds*100)},
		{
			Key:   "call",
			Label: fmt.Sprintf("Call %.1fbb", node.ToCall),
			EV:    callEV,
			Why:   fmt.Sprintf("%.0f%% equity vs %.0f%% pot odds", eqCall*100, potOdds*100),
			total: node.ToCall,
		},
	}
	rows := [][]float64{
		{0, 0, 0},
		{callEV, callEV, callEV},
	}

	raiseTotal := math.Min(3*node.ToCall, node.HeroStack)
	if raiseTotal > node.ToCall {
		ratio := (raiseTotal - node.ToCall) / (node.Pot + raiseTotal)
		m := e.modelResponse(node, table, ratio)
		ev, b := e.betLine(node, m, raiseTotal)
		key := "raise"
		label := fmt.Sprintf("Raise to %.1fbb", raiseTotal)
		if raiseTotal >= node.HeroStack {
			key, label = "jam", "All-in"
		}
		opts = append(opts, Option{
			Key:   key,
			Label: label,
			EV:    ev,
			Why:   fmt.Sprintf("folds out %.0f%% of the betting range", m.fold*100),
			bet:   raiseTotal - node.ToCall,
			total: raiseTotal,
		})
		rows = append(rows, []float64{b.vsFold, b.vsCall, b.vsRaise})
	}
	return opts, rows
}

// postflopOptions covers unraised postflop spots: check plus the street's
// canonical bet sizes.
func (e *Engine) postflopOptions(node *Node, table *strengthTable) ([]Option, [][]float64) {
	eq := e.heroEquity(node, node.RivalRange)
	checkEV := eq * node.Pot

	opts := []Option{
		{
			Key:   "check",
			Label: "Check",
			EV:    checkEV,
			Why:   fmt.Sprintf("realizes %.0f%% equity", eq*100),
		},
	}
	rows := [][]float64{{checkEV, checkEV, checkEV}}

	ratios := streetBetRatios[node.Street]
	for _, ratio := range ratios {
		size := ratio * node.Pot
		if size >= node.HeroStack {
			continue
		}
		m := e.modelResponse(node, table, ratio)
		ev, b := e.betLine(node, m, size)
		opts = append(opts, Option{
			Key:   betKey(ratio),
			Label: fmt.Sprintf("Bet %.1fbb", size),
			EV:    ev,
			Why:   fmt.Sprintf("folds out %.0f%% of hands", m.fold*100),
			bet:   size,
			total: size,
		})
		rows = append(rows, []float64{b.vsFold, b.vsCall, b.vsRaise})
	}

	if node.HeroStack/node.Pot <= jamSPRCutoff && node.HeroStack > 0 {
		ratio := node.HeroStack / node.Pot
		m := e.modelResponse(node, table, ratio)
		ev, b := e.betLine(node, m, node.HeroStack)
		opts = append(opts, Option{
			Key:   "jam",
			Label: "All-in",
			EV:    ev,
			Why:   fmt.Sprintf("maximum pressure, folds out %.0f%%", m.fold*100),
			bet:   node.HeroStack,
			total: node.HeroStack,
		})
		rows = append(rows, []float64{b.vsFold, b.vsCall, b.vsRaise})
	}
	return opts, rows
}

// BestOption returns the highest-EV option, breaking exact ties toward the
// less aggressive action (its position in the canonical ordering).
func BestOption(opts []Option) Option {
	best := opts[0]
	for _, o := range opts[1:] {
		if o.EV > best.EV {
			best = o
		}
	}
	return best
}

// OptionByKey finds an option by its key.
func OptionByKey(opts []Option, key string) (Option, bool) {
	for _, o := range opts {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}
