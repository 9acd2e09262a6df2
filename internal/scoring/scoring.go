// Package scoring grades hero decisions by how much expected value they
// gave up versus the best priced action. Scores are forgiving inside the
// pricing noise floor and decay exponentially outside it, on both an
// absolute (big blind) and a pot-relative axis.
package scoring

import (
	"fmt"
	"math"
	"sort"
)

const (
	// Pricing noise floor: losses this small are indistinguishable from
	// Monte Carlo error and score a perfect 100.
	noiseFloorBB  = 0.02
	noiseFloorPot = 0.0025

	evDecay    = 2.0
	ratioDecay = 20.0
)

// DecisionRecord captures one graded choice.
type DecisionRecord struct {
	HandIndex int
	Street    string
	ChosenKey string
	BestKey   string
	ChosenEV  float64
	BestEV    float64
	RoomEV    float64 // spread between the best and worst priced options
	Pot       float64
	EVLoss    float64
	Score     float64
}

// EVLoss is the value surrendered by the chosen action, never negative.
func EVLoss(bestEV, chosenEV float64) float64 {
	return math.Max(0, bestEV-chosenEV)
}

// Score maps an EV loss at a given pot size onto 0..100. The loss is
// graded twice, in absolute big blinds and relative to the pot, and the
// stricter grade wins. Pot-relative grading keeps a 1bb mistake in a 3bb
// pot from scoring like a 1bb mistake in a 60bb pot.
func Score(evLoss, pot float64) float64 {
	if pot < 1 {
		pot = 1
	}
	floor := noiseFloorBB + noiseFloorPot*pot
	adj := math.Max(0, evLoss-floor)
	ratioAdj := adj / pot

	evScore := 100 * math.Exp(-evDecay*adj)
	ratioScore := 100 * math.Exp(-ratioDecay*ratioAdj)
	return math.Min(evScore, ratioScore)
}

// Grade fills the derived fields of a record.
func Grade(rec DecisionRecord) DecisionRecord {
	rec.EVLoss = EVLoss(rec.BestEV, rec.ChosenEV)
	rec.Score = Score(rec.EVLoss, rec.Pot)
	return rec
}

// Summary is the end-of-session report.
type Summary struct {
	Hands       int
	Decisions   int
	Score       float64 // pot-weighted average
	TotalEVLoss float64
	AvgEVLoss   float64 // per graded decision
	Accuracy    float64 // fraction of decisions inside the noise floor
	NetBB       float64
	WorstSpots  []DecisionRecord
}

// maxWorstSpots caps how many leaks the summary calls out.
const maxWorstSpots = 3

// Summarize aggregates graded decisions. Bigger pots carry more weight in
// the headline score because mistakes there cost proportionally more.
func Summarize(records []DecisionRecord, hands int, netBB float64) Summary {
	s := Summary{Hands: hands, Decisions: len(records), NetBB: netBB}
	if len(records) == 0 {
		s.Score = 100
		s.Accuracy = 1
		return s
	}

	var weighted, weight float64
	clean := 0
	for _, r := range records {
		w := math.Max(1, r.Pot)
		weighted += w * r.Score
		weight += w
		s.TotalEVLoss += r.EVLoss
		if r.Score >= 100-1e-9 {
			clean++
		}
	}
	s.Score = weighted / weight
	s.AvgEVLoss = s.TotalEVLoss / float64(len(records))
	s.Accuracy = float64(clean) / float64(len(records))

	worst := append([]DecisionRecord(nil), records...)
	sort.SliceStable(worst, func(i, j int) bool { return worst[i].EVLoss > worst[j].EVLoss })
	for _, r := range worst {
		if r.EVLoss <= 0 || len(s.WorstSpots) >= maxWorstSpots {
			break
		}
		s.WorstSpots = append(s.WorstSpots, r)
	}
	return s
}

// String renders the one-line form used by the CLI and logs.
func (s Summary) String() string {
	return fmt.Sprintf("hands=%d decisions=%d score=%.1f accuracy=%.0f%% ev_lost=%.2fbb avg_loss=%.3fbb net=%+.1fbb",
		s.Hands, s.Decisions, s.Score, s.Accuracy*100, s.TotalEVLoss, s.AvgEVLoss, s.NetBB)
}
