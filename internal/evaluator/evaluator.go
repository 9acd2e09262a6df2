// Package evaluator ranks 7-card hold'em hands. Ranking is delegated to
// github.com/paulhankin/poker; this package only owns the conversion from
// our card model and the showdown comparison.
package evaluator

import (
	"github.com/paulhankin/poker"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
)

// cardTable maps deck.Card.Index() onto the evaluator's card encoding.
// Built once at init; MakeCard cannot fail for a valid 52-card deck.
var cardTable [52]poker.Card

func init() {
	for idx := 0; idx < 52; idx++ {
		c := deck.FromIndex(idx)
		pc, err := poker.MakeCard(convertSuit(c.Suit), convertRank(c.Rank))
		if err != nil {
			panic(err)
		}
		cardTable[idx] = pc
	}
}

func convertSuit(s deck.Suit) poker.Suit {
	switch s {
	case deck.Spades:
		return poker.Spade
	case deck.Hearts:
		return poker.Heart
	case deck.Diamonds:
		return poker.Diamond
	default:
		return poker.Club
	}
}

// The evaluator ranks aces as 1; all other ranks keep their face value.
func convertRank(r deck.Rank) poker.Rank {
	if r == deck.Ace {
		return poker.Rank(1)
	}
	return poker.Rank(r)
}

// Rank7 scores a 7-card hand. Higher is better.
func Rank7(cards [7]deck.Card) int16 {
	var hand [7]poker.Card
	for i, c := range cards {
		hand[i] = cardTable[c.Index()]
	}
	return poker.Eval7(&hand)
}

// Showdown compares hero and rival hole cards over a complete board.
// Returns +1 when hero wins, -1 when the rival wins and 0 on a chop.
func Showdown(hero, rival [2]deck.Card, board [5]deck.Card) int {
	heroRank := Rank7(combine(hero, board))
	rivalRank := Rank7(combine(rival, board))
	switch {
	case heroRank > rivalRank:
		return 1
	case heroRank < rivalRank:
		return -1
	default:
		return 0
	}
}

func combine(hole [2]deck.Card, board [5]deck.Card) [7]deck.Card {
	var out [7]deck.Card
	copy(out[:5], board[:])
	out[5] = hole[0]
	out[6] = hole[1]
	return out
}
