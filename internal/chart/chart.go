// Package chart loads external preflop charts. A chart maps a (position,
// hand class) pair to action frequencies, and when an entry covers a spot
// its frequencies override the engine's heuristics exactly. Missing entries
// are not errors - callers fall back to heuristic pricing - but a malformed
// file fails at load time, never mid-session.
package chart

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

const freqTolerance = 1e-6

// ActionFreqs is one chart entry: how often the charted player raises,
// calls or folds the hand class. Frequencies sum to 1.
type ActionFreqs struct {
	Raise float64
	Call  float64
	Fold  float64
}

type chartFile struct {
	Charts []chartBlock `hcl:"chart,block"`
}

type chartBlock struct {
	Name     string       `hcl:"name,label"`
	Position string       `hcl:"position"`
	Entries  []entryBlock `hcl:"entry,block"`
}

type entryBlock struct {
	Hand  string  `hcl:"name,label"`
	Raise float64 `hcl:"raise,optional"`
	Call  float64 `hcl:"call,optional"`
	Fold  float64 `hcl:"fold,optional"`
}

// Repository holds every chart from one file, keyed by chart name.
type Repository struct {
	charts map[string]map[string]ActionFreqs
}

// Load parses an HCL chart file. Parse or validation failures return a
// descriptive error immediately.
func Load(path string) (*Repository, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse chart file %s: %s", path, diags.Error())
	}

	var parsed chartFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode chart file %s: %s", path, diags.Error())
	}
	return fromParsed(parsed)
}

// LoadBytes parses chart HCL from memory; used by tests.
func LoadBytes(src []byte, filename string) (*Repository, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse chart %s: %s", filename, diags.Error())
	}
	var parsed chartFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode chart %s: %s", filename, diags.Error())
	}
	return fromParsed(parsed)
}

func fromParsed(parsed chartFile) (*Repository, error) {
	repo := &Repository{charts: make(map[string]map[string]ActionFreqs)}
	for _, block := range parsed.Charts {
		if block.Position != "SB" && block.Position != "BB" {
			return nil, fmt.Errorf("chart %q: position must be SB or BB, got %q", block.Name, block.Position)
		}
		entries := make(map[string]ActionFreqs, len(block.Entries))
		for _, e := range block.Entries {
			freqs, err := normalizeEntry(e)
			if err != nil {
				return nil, fmt.Errorf("chart %q entry %q: %w", block.Name, e.Hand, err)
			}
			entries[e.Hand] = freqs
		}
		repo.charts[block.Name] = entries
	}
	return repo, nil
}

// normalizeEntry fills an omitted fold frequency with the remainder and
// rejects entries whose frequencies cannot form a distribution.
func normalizeEntry(e entryBlock) (ActionFreqs, error) {
	if e.Raise < 0 || e.Call < 0 || e.Fold < 0 {
		return ActionFreqs{}, fmt.Errorf("negative frequency")
	}
	sum := e.Raise + e.Call + e.Fold
	if sum > 1+freqTolerance {
		return ActionFreqs{}, fmt.Errorf("frequencies sum to %.4f, want <= 1", sum)
	}
	fold := e.Fold
	if fold == 0 {
		fold = 1 - e.Raise - e.Call
		if fold < 0 {
			fold = 0
		}
	}
	return ActionFreqs{Raise: e.Raise, Call: e.Call, Fold: fold}, nil
}

// Lookup returns the charted frequencies for a hand class within the named
// chart. The second return is false on any miss.
func (r *Repository) Lookup(chartName, handClass string) (ActionFreqs, bool) {
	if r == nil {
		return ActionFreqs{}, false
	}
	entries, ok := r.charts[chartName]
	if !ok {
		return ActionFreqs{}, false
	}
	freqs, ok := entries[handClass]
	return freqs, ok
}

// Entries returns a copy of every entry in the named chart.
func (r *Repository) Entries(chartName string) map[string]ActionFreqs {
	if r == nil {
		return nil
	}
	src, ok := r.charts[chartName]
	if !ok {
		return nil
	}
	out := make(map[string]ActionFreqs, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
