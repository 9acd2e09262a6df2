package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv(EnvFeatures, "")
	t.Setenv(EnvChart, "")
	t.Setenv(EnvPersona, "")
	t.Setenv(EnvTrials, "")

	f := FromEnv()
	assert.False(t, f.HighPrecision)
	assert.Equal(t, "balanced", f.Persona)
	assert.Empty(t, f.ChartPath)
	assert.Zero(t, f.Trials)
}

func TestFromEnvParsesEverything(t *testing.T) {
	t.Setenv(EnvFeatures, "high-precision, unknown-flag")
	t.Setenv(EnvChart, "/etc/trainer/charts.hcl")
	t.Setenv(EnvPersona, "aggressive")
	t.Setenv(EnvTrials, "1200")

	f := FromEnv()
	assert.True(t, f.HighPrecision, "known feature tokens apply")
	assert.Equal(t, "/etc/trainer/charts.hcl", f.ChartPath)
	assert.Equal(t, "aggressive", f.Persona)
	assert.Equal(t, 1200, f.Trials)
}

func TestFromEnvIgnoresBadTrials(t *testing.T) {
	t.Setenv(EnvTrials, "not-a-number")
	assert.Zero(t, FromEnv().Trials)

	t.Setenv(EnvTrials, "-5")
	assert.Zero(t, FromEnv().Trials)
}
