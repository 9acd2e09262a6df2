package policy

import (
	"math"
	"testing"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/episode"
	"github.com/alexandersumer/gto-poker-trainer/internal/equity"
	"github.com/alexandersumer/gto-poker-trainer/internal/randutil"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
	"github.com/alexandersumer/gto-poker-trainer/internal/rival"
)

func testEngine() *Engine {
	return NewEngine(
		equity.NewEngine(equity.Config{BaseTrials: 300, Workers: 2}),
		rival.ByName("balanced"),
		nil,
		Config{Trials: 300},
	)
}

func cardsOf(strs ...string) []deck.Card {
	out := make([]deck.Card, len(strs))
	for i, s := range strs {
		out[i] = deck.MustParseCard(s)
	}
	return out
}

func holeOf(a, b string) [2]deck.Card {
	return [2]deck.Card{deck.MustParseCard(a), deck.MustParseCard(b)}
}

func buttonEpisode(heroA, heroB string) episode.Episode {
	ep := episode.Episode{HandIndex: 0, HeroSeat: ranges.SB}
	ep.HeroCards = holeOf(heroA, heroB)
	ep.RivalCards = holeOf("9c", "4d")
	copy(ep.Board[:], cardsOf("2h", "7s", "Jd", "5c", "Kc"))
	return ep
}

func TestAcesOnButtonPreferAggression(t *testing.T) {
	e := testEngine()
	var tracker rival.Tracker
	node := e.Root(buttonEpisode("As", "Ah"), randutil.New(1), &tracker)

	opts := e.OptionsFor(node)
	if opts[0].Key != "fold" {
		t.Fatalf("first option = %q, want fold", opts[0].Key)
	}
	if opts[0].EV != 0 {
		t.Errorf("fold EV = %v, want 0", opts[0].EV)
	}

	best := BestOption(opts)
	if best.Key != "raise 2.5x" && best.Key != "raise 3.0x" {
		t.Errorf("best action with aces = %q (EV %.2f), want a raise", best.Key, best.EV)
	}
	if best.EV <= 0 {
		t.Errorf("best EV with aces = %.3f, want positive", best.EV)
	}
}

func TestOptionFrequenciesFormDistribution(t *testing.T) {
	e := testEngine()
	var tracker rival.Tracker
	node := e.Root(buttonEpisode("Qs", "Jh"), randutil.New(1), &tracker)

	opts := e.OptionsFor(node)
	var sum float64
	for _, o := range opts {
		if o.Freq < -1e-9 || o.Freq > 1+1e-9 {
			t.Errorf("option %q frequency %v out of range", o.Key, o.Freq)
		}
		sum += o.Freq
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("frequencies sum to %v, want 1", sum)
	}
}

func riverNode(heroA, heroB string) *Node {
	ep := episode.Episode{HandIndex: 0, HeroSeat: ranges.BB}
	ep.HeroCards = holeOf(heroA, heroB)
	ep.RivalCards = holeOf("Qs", "Qh")
	copy(ep.Board[:], cardsOf("2h", "7s", "Jd", "5c", "Kc"))

	// A fixed rival range that shares no cards with either hero holding
	// used in the tests below.
	rng := ranges.Uniform([]ranges.Combo{
		ranges.NewCombo(deck.MustParseCard("Qs"), deck.MustParseCard("Qh")),
		ranges.NewCombo(deck.MustParseCard("Td"), deck.MustParseCard("Tc")),
		ranges.NewCombo(deck.MustParseCard("6s"), deck.MustParseCard("6h")),
		ranges.NewCombo(deck.MustParseCard("3s"), deck.MustParseCard("3h")),
	})
	return &Node{
		Street:     episode.River,
		Ep:         ep,
		Pot:        12,
		HeroStack:  80,
		RivalStack: 80,
		RivalRange: rng,
		Checked:    true,
	}
}

// The rival's sampled reaction to a bet may depend only on public state,
// never on what the hero actually holds. Two heroes with different cards
// but identical public situations must see the identical rival response.
func TestRivalResponseIgnoresHeroCards(t *testing.T) {
	e := testEngine()

	run := func(heroA, heroB string) (*Node, *HandResult) {
		node := riverNode(heroA, heroB)
		var tracker rival.Tracker
		next, result, err := e.Resolve(node, "bet 75%", randutil.New(42), &tracker)
		if err != nil {
			t.Fatal(err)
		}
		return next, result
	}

	nextA, resA := run("As", "Ah")
	nextB, resB := run("8c", "8d")

	endedA := resA != nil
	endedB := resB != nil
	if endedA != endedB {
		t.Fatalf("rival line diverged with hero cards: ended=%v vs %v", endedA, endedB)
	}
	if endedA {
		if resA.RivalFold != resB.RivalFold {
			t.Error("rival fold decision depended on hero cards")
		}
		return
	}
	if nextA.ToCall != nextB.ToCall || nextA.Pot != nextB.Pot {
		t.Error("rival raise sizing depended on hero cards")
	}
}

func TestFacingBetOptions(t *testing.T) {
	e := testEngine()
	node := riverNode("As", "Ah")
	node.ToCall = 9
	node.Pot = 21 // 12 + the rival's 9bb bet
	node.Checked = false

	opts := e.OptionsFor(node)
	keys := make(map[string]Option, len(opts))
	for _, o := range opts {
		keys[o.Key] = o
	}
	if _, ok := keys["fold"]; !ok {
		t.Fatal("missing fold option")
	}
	if _, ok := keys["call"]; !ok {
		t.Fatal("missing call option")
	}
	call := keys["call"]
	if call.EV < -node.ToCall || call.EV > node.Pot+node.ToCall {
		t.Errorf("call EV %.2f outside plausible bounds", call.EV)
	}
}

func TestResolveFoldEndsHand(t *testing.T) {
	e := testEngine()
	var tracker rival.Tracker
	node := e.Root(buttonEpisode("7d", "2c"), randutil.New(3), &tracker)

	next, result, err := e.Resolve(node, "fold", randutil.New(3), &tracker)
	if err != nil {
		t.Fatal(err)
	}
	if next != nil || result == nil {
		t.Fatal("fold should end the hand")
	}
	if !result.HeroFolded {
		t.Error("result should record the hero fold")
	}
	if result.HeroNet != -0.5 {
		t.Errorf("folding the small blind costs %.2f, want -0.5", result.HeroNet)
	}
}

func TestResolveRejectsUnknownKey(t *testing.T) {
	e := testEngine()
	var tracker rival.Tracker
	node := e.Root(buttonEpisode("As", "Kh"), randutil.New(3), &tracker)

	if _, _, err := e.Resolve(node, "overbet 300%", randutil.New(3), &tracker); err == nil {
		t.Fatal("unknown keys must error")
	}
}

func TestStrengthPercentileOrdersRiverHands(t *testing.T) {
	node := riverNode("As", "Ah")
	board := node.Board()
	table := newStrengthTable(node.RivalRange, board)

	top := ranges.NewCombo(deck.MustParseCard("Qs"), deck.MustParseCard("Qh"))
	bottom := ranges.NewCombo(deck.MustParseCard("3s"), deck.MustParseCard("3h"))
	if table.percentile(top, board) <= table.percentile(bottom, board) {
		t.Error("QQ should rank above 33 on this river")
	}
}
