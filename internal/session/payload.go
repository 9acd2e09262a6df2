package session

import (
	"github.com/alexandersumer/gto-poker-trainer/internal/policy"
	"github.com/alexandersumer/gto-poker-trainer/internal/scoring"
)

// NodePayload is the view of a decision point handed to callers. Only
// hero-visible information crosses this boundary.
type NodePayload struct {
	SessionID string          `json:"session_id"`
	HandIndex int             `json:"hand_index"`
	HandsLeft int             `json:"hands_left"`
	Street    string          `json:"street"`
	HeroSeat  string          `json:"hero_seat"`
	RivalSeat string          `json:"rival_seat"`
	HeroCards []string        `json:"hero_cards"`
	Board     []string        `json:"board"`
	Pot       float64         `json:"pot"`
	ToCall    float64         `json:"to_call"`
	Options   []OptionPayload `json:"options"`
}

// OptionPayload is one priced action. EVDeltaBB is the option's EV minus
// the best option's, so it is zero for the best line and negative below it.
type OptionPayload struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	EV        float64 `json:"ev"`
	EVDeltaBB float64 `json:"ev_delta_bb"`
	Freq      float64 `json:"freq"`
	Why       string  `json:"why"`
}

// ChoiceResult reports a graded decision plus whatever comes next: another
// node in the same hand, the next hand, or the final summary.
type ChoiceResult struct {
	Record   scoring.DecisionRecord `json:"record"`
	HandDone bool                   `json:"hand_done"`
	Detail   string                 `json:"detail,omitempty"`
	HeroNet  float64                `json:"hero_net,omitempty"`
	Next     *NodePayload           `json:"next,omitempty"`
	Summary  *SummaryPayload        `json:"summary,omitempty"`
}

// SummaryPayload is the end-of-session report.
type SummaryPayload struct {
	Hands       int                      `json:"hands"`
	Decisions   int                      `json:"decisions"`
	Score       float64                  `json:"score"`
	Accuracy    float64                  `json:"accuracy"`
	TotalEVLoss float64                  `json:"total_ev_loss"`
	AvgEVLoss   float64                  `json:"avg_ev_loss"`
	NetBB       float64                  `json:"net_bb"`
	WorstSpots  []scoring.DecisionRecord `json:"worst_spots,omitempty"`
	Text        string                   `json:"text"`
}

func nodePayload(id string, handsLeft int, node *policy.Node, opts []policy.Option) *NodePayload {
	p := &NodePayload{
		SessionID: id,
		HandIndex: node.Ep.HandIndex,
		HandsLeft: handsLeft,
		Street:    node.Street.String(),
		HeroSeat:  node.Ep.HeroSeat.String(),
		RivalSeat: node.Ep.HeroSeat.Other().String(),
		HeroCards: []string{node.Ep.HeroCards[0].String(), node.Ep.HeroCards[1].String()},
		Pot:       node.Pot,
		ToCall:    node.ToCall,
	}
	for _, c := range node.Board() {
		p.Board = append(p.Board, c.String())
	}
	best := policy.BestOption(opts)
	for _, o := range opts {
		p.Options = append(p.Options, OptionPayload{
			Key:       o.Key,
			Label:     o.Label,
			EV:        o.EV,
			EVDeltaBB: o.EV - best.EV,
			Freq:      o.Freq,
			Why:       o.Why,
		})
	}
	return p
}

func summaryPayload(s scoring.Summary) *SummaryPayload {
	return &SummaryPayload{
		Hands:       s.Hands,
		Decisions:   s.Decisions,
		Score:       s.Score,
		Accuracy:    s.Accuracy,
		TotalEVLoss: s.TotalEVLoss,
		AvgEVLoss:   s.AvgEVLoss,
		NetBB:       s.NetBB,
		WorstSpots:  s.WorstSpots,
		Text:        s.String(),
	}
}
