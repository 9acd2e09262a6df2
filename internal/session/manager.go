// Package session runs training sessions: it deals hands, serves priced
// decision points, grades choices, and keeps per-session state isolated so
// one manager can host many concurrent trainees.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/alexandersumer/gto-poker-trainer/internal/chart"
	"github.com/alexandersumer/gto-poker-trainer/internal/episode"
	"github.com/alexandersumer/gto-poker-trainer/internal/equity"
	"github.com/alexandersumer/gto-poker-trainer/internal/policy"
	"github.com/alexandersumer/gto-poker-trainer/internal/preflop"
	"github.com/alexandersumer/gto-poker-trainer/internal/randutil"
	"github.com/alexandersumer/gto-poker-trainer/internal/rival"
	"github.com/alexandersumer/gto-poker-trainer/internal/scoring"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionDone     = errors.New("session already finished")
	ErrInvalidAction   = errors.New("invalid action")
)

// Config describes one training session.
type Config struct {
	Hands         int
	Seed          int64
	Persona       string
	ChartPath     string
	ChartName     string
	Trials        int
	HighPrecision bool
}

// ManagerConfig tunes the manager itself.
type ManagerConfig struct {
	TTL           time.Duration // idle time before a session expires
	SweepInterval time.Duration
	MaxConcurrent int // concurrent pricing computations across sessions
}

// DefaultManagerConfig returns production defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		TTL:           30 * time.Minute,
		SweepInterval: time.Minute,
		MaxConcurrent: 8,
	}
}

type session struct {
	mu      sync.Mutex
	id      string
	cfg     Config
	engine  *policy.Engine
	gen     *episode.Generator
	tracker *rival.Tracker
	rng     *mrand.Rand
	node    *policy.Node
	records []scoring.DecisionRecord
	netBB   float64
	hand    int
	done    bool
	touched time.Time
}

// Manager owns every live session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	cfg      ManagerConfig
	clock    quartz.Clock
	logger   zerolog.Logger
	sem      chan struct{}
}

// NewManager creates a manager. The clock is injected so expiry is
// testable without waiting.
func NewManager(logger zerolog.Logger, clock quartz.Clock, cfg ManagerConfig) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultManagerConfig().TTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultManagerConfig().SweepInterval
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultManagerConfig().MaxConcurrent
	}
	return &Manager{
		sessions: make(map[string]*session),
		cfg:      cfg,
		clock:    clock,
		logger:   logger.With().Str("component", "session").Logger(),
		sem:      make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Run sweeps expired sessions until the context ends.
func (m *Manager) Run(ctx context.Context) {
	ticker := m.clock.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep drops sessions idle past the TTL. Run calls this on a ticker; it
// is exported so callers with their own schedulers can drive it directly.
func (m *Manager) Sweep() {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.Sub(s.touched) > m.cfg.TTL {
			delete(m.sessions, id)
			m.logger.Info().Str("session", id).Msg("session expired")
		}
	}
}

// Start creates a session and returns its first decision point.
func (m *Manager) Start(cfg Config) (*NodePayload, error) {
	if cfg.Hands <= 0 {
		cfg.Hands = 10
	}
	if cfg.Seed == 0 {
		cfg.Seed = m.clock.Now().UnixNano()
	}
	if cfg.ChartName == "" {
		cfg.ChartName = "sb_open"
	}

	var mix *preflop.Mix
	if cfg.ChartPath != "" {
		repo, err := chart.Load(cfg.ChartPath)
		if err != nil {
			return nil, fmt.Errorf("loading chart: %w", err)
		}
		mix = preflop.NewMix(repo, cfg.ChartName)
	}

	persona := rival.ByName(cfg.Persona)
	engine := policy.NewEngine(
		equity.NewEngine(equity.Config{BaseTrials: cfg.Trials, HighPrecision: cfg.HighPrecision}),
		persona,
		mix,
		policy.Config{Trials: cfg.Trials, HighPrecision: cfg.HighPrecision},
	)

	s := &session{
		id:      newSessionID(),
		cfg:     cfg,
		engine:  engine,
		gen:     episode.NewGenerator(cfg.Seed),
		touched: m.clock.Now(),
	}
	s.startHand(0)

	// Price the first node before the id is published so no other
	// goroutine can touch the session while it is still unlocked.
	node, err := m.currentNode(s)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Info().
		Str("session", s.id).
		Int("hands", cfg.Hands).
		Int64("seed", cfg.Seed).
		Str("persona", persona.Name).
		Msg("session started")

	return node, nil
}

func (s *session) startHand(index int) {
	s.hand = index
	s.tracker = &rival.Tracker{}
	ep := s.gen.Deal(index)
	rng := randutil.New(randutil.Derive(s.cfg.Seed, fmt.Sprintf("rival-%d", index)))
	s.rng = rng
	s.node = s.engine.Root(ep, rng, s.tracker)
}

// currentNode prices the live node under the concurrency semaphore.
func (m *Manager) currentNode(s *session) (*NodePayload, error) {
	m.sem <- struct{}{}
	opts := s.engine.OptionsFor(s.node)
	<-m.sem
	return nodePayload(s.id, s.cfg.Hands-s.hand, s.node, opts), nil
}

// Node returns the current decision point of a session.
func (m *Manager) Node(id string) (*NodePayload, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, ErrSessionDone
	}
	return m.currentNode(s)
}

// Choose applies a hero action, grades it, and advances the session.
func (m *Manager) Choose(id, optionKey string) (*ChoiceResult, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, ErrSessionDone
	}

	m.sem <- struct{}{}
	defer func() { <-m.sem }()

	opts := s.engine.OptionsFor(s.node)
	chosen, ok := policy.OptionByKey(opts, optionKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, optionKey)
	}
	best := policy.BestOption(opts)
	worstEV := best.EV
	for _, o := range opts {
		if o.EV < worstEV {
			worstEV = o.EV
		}
	}

	record := scoring.Grade(scoring.DecisionRecord{
		HandIndex: s.hand,
		Street:    s.node.Street.String(),
		ChosenKey: chosen.Key,
		BestKey:   best.Key,
		ChosenEV:  chosen.EV,
		BestEV:    best.EV,
		RoomEV:    best.EV - worstEV,
		Pot:       s.node.Pot,
	})
	s.records = append(s.records, record)

	next, result, err := s.engine.Resolve(s.node, optionKey, s.rng, s.tracker)
	if err != nil {
		return nil, err
	}

	out := &ChoiceResult{Record: record}
	switch {
	case result != nil:
		s.netBB += result.HeroNet
		out.HandDone = true
		out.Detail = result.Detail
		out.HeroNet = result.HeroNet
		m.logger.Debug().
			Str("session", s.id).
			Int("hand", s.hand).
			Float64("net_bb", result.HeroNet).
			Str("detail", result.Detail).
			Msg("hand finished")
		if s.hand+1 >= s.cfg.Hands {
			s.done = true
			summary := scoring.Summarize(s.records, s.cfg.Hands, s.netBB)
			out.Summary = summaryPayload(summary)
			m.logger.Info().
				Str("session", s.id).
				Float64("score", summary.Score).
				Float64("net_bb", summary.NetBB).
				Msg("session finished")
		} else {
			s.startHand(s.hand + 1)
			node, _ := m.nodeLocked(s)
			out.Next = node
		}
	default:
		s.node = next
		node, _ := m.nodeLocked(s)
		out.Next = node
	}

	s.touched = m.clock.Now()
	return out, nil
}

// nodeLocked prices the current node; the caller already holds both the
// session lock and the semaphore.
func (m *Manager) nodeLocked(s *session) (*NodePayload, error) {
	opts := s.engine.OptionsFor(s.node)
	return nodePayload(s.id, s.cfg.Hands-s.hand, s.node, opts), nil
}

// Summary returns the final report for a finished session.
func (m *Manager) Summary(id string) (*SummaryPayload, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		return nil, fmt.Errorf("%w: session still running", ErrInvalidAction)
	}
	return summaryPayload(scoring.Summarize(s.records, s.cfg.Hands, s.netBB)), nil
}

func (m *Manager) lookup(id string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return s, nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func newSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
