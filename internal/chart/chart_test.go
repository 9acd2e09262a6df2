package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validChart = `
chart "sb_open" {
  position = "SB"

  entry "AA" {
    raise = 1.0
  }

  entry "KQs" {
    raise = 0.7
    call  = 0.3
  }

  entry "72o" {
    fold = 1.0
  }
}

chart "bb_defend" {
  position = "BB"

  entry "AKs" {
    raise = 0.4
    call  = 0.6
  }
}
`

func TestLoadValidChart(t *testing.T) {
	repo, err := LoadBytes([]byte(validChart), "charts.hcl")
	require.NoError(t, err)

	freqs, ok := repo.Lookup("sb_open", "AA")
	require.True(t, ok)
	assert.Equal(t, 1.0, freqs.Raise)
	assert.Equal(t, 0.0, freqs.Fold)

	freqs, ok = repo.Lookup("sb_open", "KQs")
	require.True(t, ok)
	assert.InDelta(t, 0.7, freqs.Raise, 1e-9)
	assert.InDelta(t, 0.3, freqs.Call, 1e-9)
	assert.InDelta(t, 0.0, freqs.Fold, 1e-9)

	freqs, ok = repo.Lookup("bb_defend", "AKs")
	require.True(t, ok)
	assert.InDelta(t, 0.6, freqs.Call, 1e-9)
}

func TestLookupMisses(t *testing.T) {
	repo, err := LoadBytes([]byte(validChart), "charts.hcl")
	require.NoError(t, err)

	_, ok := repo.Lookup("sb_open", "T9s")
	assert.False(t, ok, "uncharted hand class")

	_, ok = repo.Lookup("no_such_chart", "AA")
	assert.False(t, ok, "unknown chart name")
}

func TestFoldFrequencyFillsRemainder(t *testing.T) {
	src := `
chart "sb_open" {
  position = "SB"
  entry "JTs" {
    raise = 0.5
    call  = 0.2
  }
}
`
	repo, err := LoadBytes([]byte(src), "charts.hcl")
	require.NoError(t, err)

	freqs, ok := repo.Lookup("sb_open", "JTs")
	require.True(t, ok)
	assert.InDelta(t, 0.3, freqs.Fold, 1e-9)
}

func TestMalformedChartFailsFast(t *testing.T) {
	cases := map[string]string{
		"syntax error": `chart "x" { position = `,
		"bad position": `
chart "x" {
  position = "UTG"
  entry "AA" { raise = 1.0 }
}
`,
		"overweight entry": `
chart "x" {
  position = "SB"
  entry "AA" {
    raise = 0.9
    call  = 0.5
  }
}
`,
		"negative frequency": `
chart "x" {
  position = "SB"
  entry "AA" {
    raise = -0.1
  }
}
`,
	}
	for name, src := range cases {
		_, err := LoadBytes([]byte(src), "charts.hcl")
		assert.Error(t, err, name)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "charts.hcl")
	require.NoError(t, os.WriteFile(path, []byte(validChart), 0o644))

	repo, err := Load(path)
	require.NoError(t, err)
	_, ok := repo.Lookup("sb_open", "AA")
	assert.True(t, ok)

	_, err = Load(filepath.Join(dir, "missing.hcl"))
	assert.Error(t, err)
}
