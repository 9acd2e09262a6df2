package session

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	mgr := NewManager(zerolog.Nop(), clock, ManagerConfig{
		TTL:           10 * time.Minute,
		SweepInterval: time.Minute,
		MaxConcurrent: 2,
	})
	return mgr, clock
}

func testConfig(hands int) Config {
	return Config{
		Hands:   hands,
		Seed:    101,
		Persona: "balanced",
		Trials:  200,
	}
}

func TestStartReturnsPricedNode(t *testing.T) {
	mgr, _ := newTestManager(t)

	node, err := mgr.Start(testConfig(2))
	require.NoError(t, err)
	require.NotEmpty(t, node.SessionID)

	assert.Equal(t, 0, node.HandIndex)
	assert.Equal(t, "preflop", node.Street)
	assert.Len(t, node.HeroCards, 2)
	require.NotEmpty(t, node.Options)
	assert.Equal(t, "fold", node.Options[0].Key)
	assert.Equal(t, 1, mgr.Len())
}

func TestChooseInvalidAction(t *testing.T) {
	mgr, _ := newTestManager(t)
	node, err := mgr.Start(testConfig(1))
	require.NoError(t, err)

	_, err = mgr.Choose(node.SessionID, "overbet 300%")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestChooseUnknownSession(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := mgr.Choose("deadbeef", "fold")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFoldingThroughSessionProducesSummary(t *testing.T) {
	mgr, _ := newTestManager(t)
	node, err := mgr.Start(testConfig(2))
	require.NoError(t, err)

	// Hand 1: fold the first decision.
	res, err := mgr.Choose(node.SessionID, "fold")
	require.NoError(t, err)
	assert.True(t, res.HandDone)
	require.NotNil(t, res.Next, "a second hand should follow")
	assert.Nil(t, res.Summary)
	assert.GreaterOrEqual(t, res.Record.RoomEV, res.Record.EVLoss,
		"the room between best and worst bounds any loss")

	// Hand 2: fold again, ending the session.
	res, err = mgr.Choose(node.SessionID, "fold")
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 2, res.Summary.Hands)
	assert.Equal(t, 2, res.Summary.Decisions)
	assert.Negative(t, res.Summary.NetBB, "folding every hand burns the blinds")

	// Finished sessions reject further choices but still serve the report.
	_, err = mgr.Choose(node.SessionID, "fold")
	assert.ErrorIs(t, err, ErrSessionDone)

	summary, err := mgr.Summary(node.SessionID)
	require.NoError(t, err)
	assert.Equal(t, res.Summary.Text, summary.Text)
}

func TestSameSeedSameScriptIsReproducible(t *testing.T) {
	run := func() *SummaryPayload {
		mgr, _ := newTestManager(t)
		node, err := mgr.Start(testConfig(3))
		require.NoError(t, err)
		for {
			res, err := mgr.Choose(node.SessionID, "fold")
			require.NoError(t, err)
			if res.Summary != nil {
				return res.Summary
			}
			node = res.Next
		}
	}

	a := run()
	b := run()
	assert.Equal(t, a.Text, b.Text)
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.TotalEVLoss, b.TotalEVLoss)
}

func TestSeatAlternationAcrossHands(t *testing.T) {
	mgr, _ := newTestManager(t)
	node, err := mgr.Start(testConfig(2))
	require.NoError(t, err)
	assert.Equal(t, "SB", node.HeroSeat)
	assert.Equal(t, "BB", node.RivalSeat)

	res, err := mgr.Choose(node.SessionID, "fold")
	require.NoError(t, err)
	require.NotNil(t, res.Next)
	assert.Equal(t, "BB", res.Next.HeroSeat)
	assert.Positive(t, res.Next.ToCall, "big blind faces the rival's open")
}

func TestSessionExpiry(t *testing.T) {
	mgr, clock := newTestManager(t)
	node, err := mgr.Start(testConfig(1))
	require.NoError(t, err)
	require.Equal(t, 1, mgr.Len())

	clock.Advance(11 * time.Minute)
	mgr.Sweep()

	assert.Equal(t, 0, mgr.Len())
	_, err = mgr.Node(node.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMalformedChartFailsStart(t *testing.T) {
	mgr, _ := newTestManager(t)
	cfg := testConfig(1)
	cfg.ChartPath = "/nonexistent/charts.hcl"

	_, err := mgr.Start(cfg)
	assert.Error(t, err)
	assert.Equal(t, 0, mgr.Len())
}
