package main

import (
	"fmt"

	"github.com/coder/quartz"

	"github.com/alexandersumer/gto-poker-trainer/internal/session"
)

// ReplayCmd drives a session from a scripted action list. Once the script
// runs out the highest-EV option is taken, so short scripts still finish.
// With a fixed seed the output is reproducible byte for byte.
type ReplayCmd struct {
	Hands         int      `default:"5" help:"Number of hands to play"`
	Seed          int64    `default:"1" help:"Deal seed"`
	Persona       string   `help:"Rival persona"`
	Chart         string   `help:"Path to an HCL preflop chart"`
	Trials        int      `help:"Monte Carlo trials per equity estimate"`
	HighPrecision bool     `help:"Double the equity and solve budgets"`
	Actions       []string `help:"Option keys to play in order"`
	Debug         bool     `help:"Enable debug logging"`
}

func (c *ReplayCmd) Run() error {
	cfg := sessionConfig(c.Hands, c.Seed, c.Persona, c.Chart, c.Trials, c.HighPrecision)
	mgr := session.NewManager(setupLogger(c.Debug), quartz.NewReal(), session.DefaultManagerConfig())

	node, err := mgr.Start(cfg)
	if err != nil {
		return err
	}

	step := 0
	for {
		key := bestKey(node)
		if step < len(c.Actions) {
			key = c.Actions[step]
		}
		step++

		result, err := mgr.Choose(node.SessionID, key)
		if err != nil {
			return fmt.Errorf("step %d (%q): %w", step, key, err)
		}

		rec := result.Record
		fmt.Printf("hand=%d street=%s chose=%s best=%s ev=%.2f best_ev=%.2f score=%.1f\n",
			rec.HandIndex+1, rec.Street, rec.ChosenKey, rec.BestKey, rec.ChosenEV, rec.BestEV, rec.Score)
		if result.HandDone {
			fmt.Printf("  %s (%+.1fbb)\n", result.Detail, result.HeroNet)
		}
		if result.Summary != nil {
			fmt.Println(result.Summary.Text)
			return nil
		}
		node = result.Next
	}
}

func bestKey(n *session.NodePayload) string {
	best := n.Options[0]
	for _, o := range n.Options[1:] {
		if o.EV > best.EV {
			best = o
		}
	}
	return best.Key
}
