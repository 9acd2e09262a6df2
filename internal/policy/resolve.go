package policy

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/episode"
	"github.com/alexandersumer/gto-poker-trainer/internal/evaluator"
	"github.com/alexandersumer/gto-poker-trainer/internal/preflop"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
	"github.com/alexandersumer/gto-poker-trainer/internal/rival"
	"github.com/alexandersumer/gto-poker-trainer/internal/texture"
)

// ErrUnknownOption is returned when a choice key does not match any priced
// option at the node.
var ErrUnknownOption = errors.New("unknown option")

var openSizes = []struct {
	size   float64
	weight float64
}{
	{2.0, 0.25},
	{2.5, 0.50},
	{3.0, 0.25},
}

// Root builds the first hero decision of an episode. When the hero is in
// the big blind the rival has already opened, with the size sampled from
// the caller's stream.
func (e *Engine) Root(ep episode.Episode, rng *rand.Rand, tracker *rival.Tracker) *Node {
	dead := deck.NewCardSet(ep.HeroCards[:])
	if ep.HeroSeat == ranges.SB {
		full := preflop.Initial(ranges.BB, 0, nil, dead)
		return &Node{
			Street:     episode.Preflop,
			Ep:         ep,
			Pot:        1.5,
			ToCall:     0.5,
			HeroStack:  episode.StartStack - episode.SmallBlind,
			RivalStack: episode.StartStack - episode.BigBlind,
			RivalRange: full,
			Aggression: tracker.Level(),
		}
	}

	open := e.sampleOpenSize(rng)
	openRange := preflop.Initial(ranges.SB, open, e.mix, dead)
	return &Node{
		Street:     episode.Preflop,
		Ep:         ep,
		Pot:        open + episode.BigBlind,
		ToCall:     open - episode.BigBlind,
		HeroStack:  episode.StartStack - episode.BigBlind,
		RivalStack: episode.StartStack - open,
		RivalRange: openRange,
		Aggression: tracker.Level(),
		OpenSize:   open,
	}
}

func (e *Engine) sampleOpenSize(rng *rand.Rand) float64 {
	// Aggressive personas pick the bigger sizes more often.
	shift := 0.15 * (e.persona.AggressionScale - 1)
	weights := make([]float64, len(openSizes))
	var total float64
	for i, s := range openSizes {
		w := s.weight
		if i == 0 {
			w -= shift
		}
		if i == len(openSizes)-1 {
			w += shift
		}
		if w < 0.05 {
			w = 0.05
		}
		weights[i] = w
		total += w
	}
	u := rng.Float64() * total
	for i, w := range weights {
		if u < w {
			return openSizes[i].size
		}
		u -= w
	}
	return openSizes[len(openSizes)-1].size
}

// Resolve applies the chosen option: samples the rival's reply, narrows
// its range to hands consistent with that reply, and either returns the
// next decision node or the finished hand.
func (e *Engine) Resolve(node *Node, key string, rng *rand.Rand, tracker *rival.Tracker) (*Node, *HandResult, error) {
	opts := e.OptionsFor(node)
	chosen, ok := OptionByKey(opts, key)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownOption, key)
	}

	switch {
	case chosen.Key == "fold":
		return nil, &HandResult{
			HeroNet:    node.HeroStack - episode.StartStack,
			HeroFolded: true,
			Detail:     "you fold",
		}, nil

	case chosen.Key == "limp":
		node.HeroStack -= chosen.total
		node.Pot += chosen.total
		node.ToCall = 0
		return e.advanceStreet(node, rng, tracker)

	case chosen.Key == "check":
		return e.resolveCheck(node, rng, tracker)

	case chosen.Key == "call":
		pay := math.Min(chosen.total, node.HeroStack)
		node.HeroStack -= pay
		node.Pot += pay
		node.ToCall = 0
		if node.Street == episode.River || node.HeroStack <= 0 || node.RivalStack <= 0 {
			return nil, e.showdown(node), nil
		}
		return e.advanceStreet(node, rng, tracker)

	default: // bet, raise, jam
		return e.resolveAggression(node, chosen, rng, tracker)
	}
}

// resolveCheck handles the hero checking. Out of position the rival may
// still bet, spawning another decision on the same street; checked through
// the street simply ends.
func (e *Engine) resolveCheck(node *Node, rng *rand.Rand, tracker *rival.Tracker) (*Node, *HandResult, error) {
	if node.Checked || node.Ep.HeroSeat == ranges.SB {
		return e.advanceStreet(node, rng, tracker)
	}
	next, bet := e.sampleRivalLead(node, rng)
	if bet {
		return next, nil, nil
	}
	return e.advanceStreet(next, rng, tracker)
}

// sampleRivalLead asks the persona whether it bets when checked to (or
// first to act). Returns the updated node and whether a bet went in.
func (e *Engine) sampleRivalLead(node *Node, rng *rand.Rand) (*Node, bool) {
	board := node.Board()
	table := newStrengthTable(node.RivalRange, board)
	wet := texture.Wetness(board)
	actual := ranges.NewCombo(node.Ep.RivalCards[0], node.Ep.RivalCards[1])

	in := rival.Input{
		Percentile: table.percentile(actual, board),
		Texture:    wet,
		Aggression: node.Aggression,
	}
	action := e.persona.Decide(in, rng)

	betProb := func(c ranges.Combo) float64 {
		return e.persona.BetProbability(rival.Input{
			Percentile: table.percentile(c, board),
			Texture:    wet,
			Aggression: node.Aggression,
		})
	}

	if action == rival.Bet {
		size := math.Min(rivalBetSize(node.Street, node.Pot), node.RivalStack)
		node.RivalRange, _ = node.RivalRange.Narrow(betProb)
		node.RivalStack -= size
		node.Pot += size
		node.ToCall = size
		node.Checked = false
		return node, true
	}
	node.RivalRange, _ = node.RivalRange.Narrow(func(c ranges.Combo) float64 { return 1 - betProb(c) })
	node.Checked = true
	node.ToCall = 0
	return node, false
}

func rivalBetSize(street episode.Street, pot float64) float64 {
	switch street {
	case episode.Flop:
		return 0.50 * pot
	case episode.Turn:
		return 0.66 * pot
	default:
		return 0.75 * pot
	}
}

// resolveAggression handles hero bets and raises.
func (e *Engine) resolveAggression(node *Node, chosen Option, rng *rand.Rand, tracker *rival.Tracker) (*Node, *HandResult, error) {
	board := node.Board()
	table := newStrengthTable(node.RivalRange, board)
	wet := texture.Wetness(board)

	toRivalCall := chosen.total - node.ToCall
	sizeRatio := toRivalCall / (node.Pot + chosen.total)
	if node.ToCall == 0 && node.Pot > 0 {
		sizeRatio = chosen.total / node.Pot
	}

	node.HeroStack -= chosen.total
	node.Pot += chosen.total
	tracker.HeroRaised()
	node.Aggression = tracker.Level()

	actual := ranges.NewCombo(node.Ep.RivalCards[0], node.Ep.RivalCards[1])
	in := rival.Input{
		Percentile: table.percentile(actual, board),
		SizeRatio:  sizeRatio,
		Texture:    wet,
		FacingBet:  true,
		Aggression: node.Aggression,
	}
	action := e.persona.Decide(in, rng)
	if action == rival.Raise && (node.RivalStack <= toRivalCall || node.HeroStack <= 0) {
		action = rival.Call
	}

	foldProb := func(c ranges.Combo) float64 {
		return e.persona.FoldProbability(rival.Input{
			Percentile: table.percentile(c, board),
			SizeRatio:  sizeRatio,
			Texture:    wet,
			FacingBet:  true,
			Aggression: node.Aggression,
		})
	}
	raiseProb := func(c ranges.Combo) float64 {
		f := foldProb(c)
		return (1 - f) * e.persona.RaiseProbability(rival.Input{
			Percentile: table.percentile(c, board),
			SizeRatio:  sizeRatio,
			Texture:    wet,
			FacingBet:  true,
			Aggression: node.Aggression,
		})
	}

	switch action {
	case rival.Fold:
		rivalInvested := episode.StartStack - node.RivalStack
		return nil, &HandResult{
			HeroNet:   rivalInvested,
			RivalFold: true,
			Detail:    fmt.Sprintf("rival folds to your %s", chosen.Label),
		}, nil

	case rival.Raise:
		raiseAdd := math.Min(3*chosen.total, node.RivalStack)
		node.RivalRange, _ = node.RivalRange.Narrow(raiseProb)
		node.RivalStack -= raiseAdd
		node.Pot += raiseAdd
		node.ToCall = math.Max(0, raiseAdd-toRivalCall)
		node.Checked = false
		return node, nil, nil

	default: // call
		callAdd := math.Min(toRivalCall, node.RivalStack)
		node.RivalRange, _ = node.RivalRange.Narrow(func(c ranges.Combo) float64 {
			return math.Max(0, 1-foldProb(c)-raiseProb(c))
		})
		node.RivalStack -= callAdd
		node.Pot += callAdd
		node.ToCall = 0
		if node.Street == episode.River || node.HeroStack <= 0 || node.RivalStack <= 0 {
			return nil, e.showdown(node), nil
		}
		return e.advanceStreet(node, rng, tracker)
	}
}

// advanceStreet reveals the next street, prunes the rival range of the new
// cards, decays the aggression image, and hands the action to whoever acts
// first. When the hero has position the rival's lead is sampled here.
func (e *Engine) advanceStreet(node *Node, rng *rand.Rand, tracker *rival.Tracker) (*Node, *HandResult, error) {
	if node.Street == episode.River {
		return nil, e.showdown(node), nil
	}
	node.Street++
	node.ToCall = 0
	node.Checked = false
	tracker.NextStreet()
	node.Aggression = tracker.Level()
	node.RivalRange = node.RivalRange.RemoveDead(node.Ep.KnownCards(node.Street))

	if node.Ep.HeroSeat == ranges.BB {
		return node, nil, nil
	}
	next, _ := e.sampleRivalLead(node, rng)
	return next, nil, nil
}

// showdown runs out the board and settles the pot.
func (e *Engine) showdown(node *Node) *HandResult {
	outcome := evaluator.Showdown(node.Ep.HeroCards, node.Ep.RivalCards, node.Ep.Board)
	res := &HandResult{Showdown: true}
	switch {
	case outcome > 0:
		res.HeroNet = episode.StartStack - node.RivalStack
		res.Detail = fmt.Sprintf("showdown: you win %.1fbb with %s%s", node.Pot, node.Ep.HeroCards[0], node.Ep.HeroCards[1])
	case outcome < 0:
		res.HeroNet = node.HeroStack - episode.StartStack
		res.Detail = fmt.Sprintf("showdown: rival wins with %s%s", node.Ep.RivalCards[0], node.Ep.RivalCards[1])
	default:
		res.HeroNet = (node.HeroStack - node.RivalStack) / 2
		res.Detail = "showdown: chopped pot"
	}
	return res
}
