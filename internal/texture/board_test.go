package texture

import (
	"testing"

	"github.com/alexandersumer/gto-poker-trainer/internal/deck"
)

func board(strs ...string) []deck.Card {
	out := make([]deck.Card, len(strs))
	for i, s := range strs {
		out[i] = deck.MustParseCard(s)
	}
	return out
}

func TestDryBoard(t *testing.T) {
	b := board("2c", "7d", "Kh")
	if got := Classify(b); got != Dry {
		t.Errorf("K72 rainbow = %v, want Dry", got)
	}
}

func TestMonotoneConnectedBoardIsWet(t *testing.T) {
	b := board("9h", "Th", "Jh")
	got := Classify(b)
	if got != Wet && got != VeryWet {
		t.Errorf("JT9 monotone = %v, want Wet or VeryWet", got)
	}
}

func TestWetnessOrdering(t *testing.T) {
	dry := Wetness(board("2c", "7d", "Kh"))
	wet := Wetness(board("9h", "Th", "Jh"))
	if dry >= wet {
		t.Errorf("dry board wetness (%v) should be below monotone connected (%v)", dry, wet)
	}
}

func TestWetnessBounds(t *testing.T) {
	boards := [][]deck.Card{
		board("2c", "7d", "Kh"),
		board("9h", "Th", "Jh", "Qh"),
		board("As", "Ks", "Qs", "Js", "Ts"),
		nil,
	}
	for _, b := range boards {
		w := Wetness(b)
		if w < 0 || w > 1 {
			t.Errorf("Wetness(%v) = %v, out of [0,1]", b, w)
		}
	}
}
