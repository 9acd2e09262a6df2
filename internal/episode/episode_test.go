package episode

import (
	"testing"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
)

func TestDealDeterministic(t *testing.T) {
	a := NewGenerator(101).Deal(0)
	b := NewGenerator(101).Deal(0)
	if a != b {
		t.Errorf("same seed produced different episodes:\n%s\n%s", a, b)
	}
}

func TestDealIndependentOfOrder(t *testing.T) {
	g1 := NewGenerator(7)
	g1.Deal(0)
	g1.Deal(1)
	late := g1.Deal(5)

	direct := NewGenerator(7).Deal(5)
	if late != direct {
		t.Error("hand 5 should not depend on earlier deals")
	}
}

func TestNoCardOverlap(t *testing.T) {
	g := NewGenerator(3)
	for i := 0; i < 50; i++ {
		ep := g.Deal(i)
		seen := make(map[deck.Card]bool)
		all := append(append(ep.HeroCards[:], ep.RivalCards[:]...), ep.Board[:]...)
		for _, c := range all {
			if seen[c] {
				t.Fatalf("hand %d repeats card %s", i, c)
			}
			seen[c] = true
		}
	}
}

func TestSeatsAlternate(t *testing.T) {
	g := NewGenerator(11)
	if g.Deal(0).HeroSeat != ranges.SB {
		t.Error("hand 0 hero seat should be SB")
	}
	if g.Deal(1).HeroSeat != ranges.BB {
		t.Error("hand 1 hero seat should be BB")
	}
	if g.Deal(2).HeroSeat != ranges.SB {
		t.Error("hand 2 hero seat should be SB")
	}
}

func TestBoardReveal(t *testing.T) {
	ep := NewGenerator(5).Deal(0)
	if n := len(ep.BoardAt(Preflop)); n != 0 {
		t.Errorf("preflop board = %d cards", n)
	}
	if n := len(ep.BoardAt(Flop)); n != 3 {
		t.Errorf("flop board = %d cards", n)
	}
	if n := len(ep.BoardAt(Turn)); n != 4 {
		t.Errorf("turn board = %d cards", n)
	}
	if n := len(ep.BoardAt(River)); n != 5 {
		t.Errorf("river board = %d cards", n)
	}
}

func TestKnownCardsGrowWithStreet(t *testing.T) {
	ep := NewGenerator(9).Deal(0)
	if n := ep.KnownCards(Preflop).Count(); n != 2 {
		t.Errorf("preflop known cards = %d, want 2", n)
	}
	if n := ep.KnownCards(River).Count(); n != 7 {
		t.Errorf("river known cards = %d, want 7", n)
	}
	if ep.KnownCards(River).Contains(ep.RivalCards[0]) {
		t.Error("rival hole cards must stay hidden")
	}
}
