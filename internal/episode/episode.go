// Package episode deals the hands a training session walks through. Each
// episode fixes both holdings and the full five-card runout up front from
// a single shuffled deck, so streets reveal cards instead of drawing them
// and no card can appear twice.
package episode

import (
	"fmt"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
	"github.com/alexandersumer/gto-poker-trainer/internal/randutil"
	"github.com/alexandersumer/gto-poker-trainer/internal/ranges"
)

// Street is a betting round.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	default:
		return "river"
	}
}

// boardCards is how many board cards are visible on each street.
func (s Street) boardCards() int {
	switch s {
	case Preflop:
		return 0
	case Flop:
		return 3
	case Turn:
		return 4
	default:
		return 5
	}
}

// Blinds and stacks, in big blinds.
const (
	SmallBlind = 0.5
	BigBlind   = 1.0
	StartStack = 100.0
)

// Episode is one fully dealt hand.
type Episode struct {
	HandIndex  int
	HeroSeat   ranges.Seat
	HeroCards  [2]deck.Card
	RivalCards [2]deck.Card
	Board      [5]deck.Card
}

// BoardAt returns the board cards visible on the given street.
func (e Episode) BoardAt(street Street) []deck.Card {
	return e.Board[:street.boardCards()]
}

// KnownCards is everything the hero can see on a street: both hole cards
// plus the visible board.
func (e Episode) KnownCards(street Street) deck.CardSet {
	set := deck.NewCardSet(e.HeroCards[:])
	for _, c := range e.BoardAt(street) {
		set.Add(c)
	}
	return set
}

// DeadForRival is every card the rival cannot hold on a street, from the
// rival's perspective combined with public cards. Hero hole cards are
// included because combos containing them are physically impossible, not
// because the rival model reads them.
func (e Episode) DeadForRival(street Street) deck.CardSet {
	return e.KnownCards(street)
}

func (e Episode) String() string {
	return fmt.Sprintf("hand %d: hero(%s) %s%s vs %s%s board %s%s%s%s%s",
		e.HandIndex, e.HeroSeat,
		e.HeroCards[0], e.HeroCards[1],
		e.RivalCards[0], e.RivalCards[1],
		e.Board[0], e.Board[1], e.Board[2], e.Board[3], e.Board[4])
}

// Generator deals deterministic episodes from a session seed. The same
// seed and hand index always produce the same cards regardless of how
// many hands were dealt before.
type Generator struct {
	seed int64
}

// NewGenerator creates a generator for one session.
func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed}
}

// Deal produces the episode for a hand index. Seats alternate: the hero
// posts the small blind on even indices and the big blind on odd ones.
func (g *Generator) Deal(handIndex int) Episode {
	rng := randutil.New(randutil.Derive(g.seed, fmt.Sprintf("hand-%d", handIndex)))
	d := deck.NewDeck(rng)
	d.Shuffle()

	ep := Episode{HandIndex: handIndex}
	if handIndex%2 == 0 {
		ep.HeroSeat = ranges.SB
	} else {
		ep.HeroSeat = ranges.BB
	}
	hole := d.DealN(4)
	ep.HeroCards = [2]deck.Card{hole[0], hole[1]}
	ep.RivalCards = [2]deck.Card{hole[2], hole[3]}
	copy(ep.Board[:], d.DealN(5))
	return ep
}
