package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/alexandersumer/gto-poker-trainer/internal/config"
	"github.com/alexandersumer/gto-poker-trainer/internal/session"
)

// PlayCmd runs an interactive session on stdin/stdout.
type PlayCmd struct {
	Hands         int    `default:"10" help:"Number of hands to play"`
	Seed          int64  `help:"Deal seed (0 picks one from the clock)"`
	Persona       string `help:"Rival persona: balanced, aggressive, passive, texture"`
	Chart         string `help:"Path to an HCL preflop chart"`
	Trials        int    `help:"Monte Carlo trials per equity estimate"`
	HighPrecision bool   `help:"Double the equity and solve budgets"`
	Debug         bool   `help:"Enable debug logging"`
}

func (c *PlayCmd) Run() error {
	cfg := sessionConfig(c.Hands, c.Seed, c.Persona, c.Chart, c.Trials, c.HighPrecision)
	mgr := session.NewManager(setupLogger(c.Debug), quartz.NewReal(), session.DefaultManagerConfig())
	cli := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	node, err := mgr.Start(cfg)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		printNode(node)
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		key := strings.TrimSpace(scanner.Text())
		if key == "quit" {
			return nil
		}

		result, err := mgr.Choose(node.SessionID, key)
		if err != nil {
			cli.Warn("invalid choice", "input", key, "err", err)
			continue
		}
		printResult(result)
		if result.Summary != nil {
			fmt.Println(result.Summary.Text)
			return nil
		}
		node = result.Next
	}
}

// sessionConfig merges CLI flags over environment defaults.
func sessionConfig(hands int, seed int64, persona, chartPath string, trials int, highPrecision bool) session.Config {
	env := config.FromEnv()
	cfg := session.Config{
		Hands:         hands,
		Seed:          seed,
		Persona:       env.Persona,
		ChartPath:     env.ChartPath,
		Trials:        env.Trials,
		HighPrecision: env.HighPrecision || highPrecision,
	}
	if persona != "" {
		cfg.Persona = persona
	}
	if chartPath != "" {
		cfg.ChartPath = chartPath
	}
	if trials > 0 {
		cfg.Trials = trials
	}
	return cfg
}

func printNode(n *session.NodePayload) {
	fmt.Printf("\nhand %d  %s  %s  pot %.1fbb", n.HandIndex+1, n.HeroSeat, n.Street, n.Pot)
	if n.ToCall > 0 {
		fmt.Printf("  to call %.1fbb", n.ToCall)
	}
	fmt.Printf("\nhero: %s %s", n.HeroCards[0], n.HeroCards[1])
	if len(n.Board) > 0 {
		fmt.Printf("   board: %s", strings.Join(n.Board, " "))
	}
	fmt.Println()
	for _, o := range n.Options {
		fmt.Printf("  [%s] %s\n", o.Key, o.Label)
	}
}

func printResult(r *session.ChoiceResult) {
	rec := r.Record
	fmt.Printf("score %.1f  (yours %s %.2fbb, best %s %.2fbb)\n",
		rec.Score, rec.ChosenKey, rec.ChosenEV, rec.BestKey, rec.BestEV)
	if r.HandDone {
		fmt.Printf("%s  (%+.1fbb)\n", r.Detail, r.HeroNet)
	}
}
