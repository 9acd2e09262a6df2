// Package config reads engine tuning from the environment, so deployments
// can flip pricing behaviour without new flags plumbed through every
// caller. CLI flags still win when both are set.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables.
const (
	EnvFeatures = "GTO_TRAINER_FEATURES"
	EnvChart    = "GTO_TRAINER_CHART"
	EnvPersona  = "GTO_TRAINER_PERSONA"
	EnvTrials   = "GTO_TRAINER_TRIALS"
)

// Features holds the engine toggles.
type Features struct {
	HighPrecision bool
	Persona       string
	ChartPath     string
	Trials        int
}

// FromEnv reads features from the process environment. Unknown feature
// tokens are ignored rather than fatal, so older deployments keep working
// when a flag is retired.
func FromEnv() Features {
	f := Features{Persona: "balanced"}
	for _, tok := range strings.Split(os.Getenv(EnvFeatures), ",") {
		switch strings.TrimSpace(strings.ToLower(tok)) {
		case "high-precision":
			f.HighPrecision = true
		}
	}
	if chart := os.Getenv(EnvChart); chart != "" {
		f.ChartPath = chart
	}
	if persona := os.Getenv(EnvPersona); persona != "" {
		f.Persona = persona
	}
	if raw := os.Getenv(EnvTrials); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.Trials = n
		}
	}
	return f
}
